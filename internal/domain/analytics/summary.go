// Package analytics reduces stored adherence histories into summary metrics:
// averages, weekly trend buckets, tier distribution, and the at-risk list.
// Every computation here is deterministic; "now" is always a parameter.
package analytics

import (
	"math"
	"time"

	"github.com/medtrack/medtrack/internal/domain/adherence"
)

// TrendWeeks is the number of fixed-width weekly trend buckets.
const TrendWeeks = 12

// AtRiskThreshold is the adherence percentage below which a patient is
// flagged.
const AtRiskThreshold = 75

// WeekBucket is one weekly trend window. Adherence is 0 when the window has
// no events.
type WeekBucket struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Adherence int       `json:"adherence"`
	Taken     int       `json:"taken"`
	Total     int       `json:"total"`
}

// Distribution buckets patients by adherence tier. Counts always sum to the
// input patient count.
type Distribution struct {
	Excellent int `json:"excellent"` // >= 90
	Good      int `json:"good"`      // 75-89
	Fair      int `json:"fair"`      // 50-74
	Poor      int `json:"poor"`      // < 50
}

// AtRiskPatient identifies a patient below the at-risk threshold.
type AtRiskPatient struct {
	PatientID     string `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	AdherenceRate int    `json:"adherence_rate"`
}

// Summary is the full read-side projection over a set of patient histories.
type Summary struct {
	TotalPatients    int             `json:"total_patients"`
	TotalEvents      int             `json:"total_events"`
	AverageAdherence int             `json:"average_adherence"`
	AtRiskCount      int             `json:"at_risk_count"`
	WeeklyTrend      []WeekBucket    `json:"weekly_trend"` // chronological, TrendWeeks entries
	Distribution     Distribution    `json:"distribution"`
	AtRiskPatients   []AtRiskPatient `json:"at_risk_patients"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// Aggregate reduces histories into a Summary. Weekly windows are 7-day spans
// counted backward from now; the returned trend slice is chronological and
// always has exactly TrendWeeks entries.
func Aggregate(histories []*adherence.PatientHistory, now time.Time) *Summary {
	summary := &Summary{
		TotalPatients:  len(histories),
		WeeklyTrend:    make([]WeekBucket, TrendWeeks),
		AtRiskPatients: []AtRiskPatient{},
		GeneratedAt:    now,
	}

	end := now.UTC()
	for i := 0; i < TrendWeeks; i++ {
		weeksAgo := TrendWeeks - i
		summary.WeeklyTrend[i] = WeekBucket{
			WeekStart: end.AddDate(0, 0, -7*weeksAgo),
			WeekEnd:   end.AddDate(0, 0, -7*(weeksAgo-1)),
		}
	}

	rateSum := 0
	for _, h := range histories {
		rateSum += h.AdherenceRate
		summary.TotalEvents += len(h.Events)

		switch {
		case h.AdherenceRate >= 90:
			summary.Distribution.Excellent++
		case h.AdherenceRate >= 75:
			summary.Distribution.Good++
		case h.AdherenceRate >= 50:
			summary.Distribution.Fair++
		default:
			summary.Distribution.Poor++
		}

		if h.AdherenceRate < AtRiskThreshold {
			summary.AtRiskPatients = append(summary.AtRiskPatients, AtRiskPatient{
				PatientID:     h.PatientID,
				PatientName:   h.PatientName,
				AdherenceRate: h.AdherenceRate,
			})
		}

		for _, e := range h.Events {
			idx := bucketIndex(summary.WeeklyTrend, e.Date)
			if idx < 0 {
				continue
			}
			summary.WeeklyTrend[idx].Total++
			if e.Taken {
				summary.WeeklyTrend[idx].Taken++
			}
		}
	}

	summary.AtRiskCount = len(summary.AtRiskPatients)
	if len(histories) > 0 {
		summary.AverageAdherence = int(math.Round(float64(rateSum) / float64(len(histories))))
	}

	for i := range summary.WeeklyTrend {
		b := &summary.WeeklyTrend[i]
		if b.Total > 0 {
			b.Adherence = int(math.Round(100 * float64(b.Taken) / float64(b.Total)))
		}
	}

	return summary
}

// bucketIndex locates the trend bucket containing date: [WeekStart, WeekEnd).
func bucketIndex(buckets []WeekBucket, date time.Time) int {
	for i, b := range buckets {
		if !date.Before(b.WeekStart) && date.Before(b.WeekEnd) {
			return i
		}
	}
	return -1
}
