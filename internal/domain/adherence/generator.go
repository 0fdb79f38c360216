package adherence

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// skipProbability is the chance an otherwise-taken dose is skipped anyway,
// by consistency tier. Independent of the per-event rate draw.
var skipProbability = map[ConsistencyTier]float64{
	TierHigh:   0.05,
	TierMedium: 0.15,
	TierLow:    0.30,
}

// HistoryParams describes one generation run.
type HistoryParams struct {
	PatientID       string
	PatientName     string
	MonthsBack      int
	MedicationCount int
	// EndDate is the last (inclusive) calendar day of the window. Zero value
	// means today. Exposed so tests can pin the window.
	EndDate time.Time
}

// Generator produces synthetic adherence histories from a seeded random
// source. It holds no other state; one instance per generation run keeps
// output reproducible for a given seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded for reproducibility. If seed is 0 a
// time-based seed is chosen.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// SampleProfile draws an adherence profile: 30% high (target 90-100),
// 40% medium (75-90), 30% low (50-75).
func (g *Generator) SampleProfile() Profile {
	u := g.rng.Float64()
	switch {
	case u < 0.3:
		return Profile{Tier: TierHigh, TargetRate: 90 + g.rng.Float64()*10}
	case u < 0.7:
		return Profile{Tier: TierMedium, TargetRate: 75 + g.rng.Float64()*15}
	default:
		return Profile{Tier: TierLow, TargetRate: 50 + g.rng.Float64()*25}
	}
}

// SelectMedications picks count distinct entries from the catalog.
func (g *Generator) SelectMedications(count int) ([]CatalogEntry, error) {
	if count < 1 || count > len(Catalog) {
		return nil, fmt.Errorf("medication count must be between 1 and %d, got %d", len(Catalog), count)
	}
	perm := g.rng.Perm(len(Catalog))
	selected := make([]CatalogEntry, count)
	for i := 0; i < count; i++ {
		selected[i] = Catalog[perm[i]]
	}
	return selected, nil
}

// GenerateHistory produces a patient's intake log over the window, one event
// per (day, medication, scheduled time), in chronological day order.
func (g *Generator) GenerateHistory(p HistoryParams) (*PatientHistory, error) {
	if p.PatientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if p.MonthsBack < 1 {
		return nil, fmt.Errorf("months back must be positive, got %d", p.MonthsBack)
	}

	meds, err := g.SelectMedications(p.MedicationCount)
	if err != nil {
		return nil, err
	}

	profile := g.SampleProfile()

	end := p.EndDate
	if end.IsZero() {
		end = time.Now().UTC()
	}
	end = truncateToDay(end)
	start := end.AddDate(0, -p.MonthsBack, 0)

	var events []IntakeEvent
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, med := range meds {
			for _, at := range med.Times {
				events = append(events, g.generateEvent(day, med, at, profile))
			}
		}
	}

	rate, ok := Rate(events)
	if !ok {
		return nil, fmt.Errorf("generation window produced no events")
	}

	return &PatientHistory{
		PatientID:     p.PatientID,
		PatientName:   p.PatientName,
		Events:        events,
		AdherenceRate: rate,
	}, nil
}

func (g *Generator) generateEvent(day time.Time, med CatalogEntry, scheduled string, profile Profile) IntakeEvent {
	// Two independent draws: the dose happens when the rate draw succeeds and
	// the tier-dependent skip draw does not fire.
	taken := g.rng.Float64() < profile.TargetRate/100 &&
		g.rng.Float64() >= skipProbability[profile.Tier]

	e := IntakeEvent{
		ID:             uuid.NewString(),
		MedicationID:   med.ID,
		MedicationName: med.Name,
		ScheduledTime:  scheduled,
		Taken:          taken,
		Date:           day,
	}
	if taken {
		t := shiftClock(scheduled, g.rng.Intn(91)-30) // [-30,+60] minutes
		e.TakenTime = &t
	} else {
		reason := SkipReasons[g.rng.Intn(len(SkipReasons))]
		e.SkippedReason = &reason
	}
	return e
}

// shiftClock adds offsetMinutes to an "HH:MM" clock time, wrapping within the
// day.
func shiftClock(clock string, offsetMinutes int) string {
	var h, m int
	fmt.Sscanf(clock, "%d:%d", &h, &m)
	total := (h*60 + m + offsetMinutes + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
