package tracker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	minHeartRate = 55
	maxHeartRate = 110
	sleepHour    = 7 // the slot carrying the previous night's sleep
)

// circadianBand maps a time-of-day interval to a resting baseline heart rate.
type circadianBand struct {
	fromHour int // inclusive
	toHour   int // exclusive
	baseBPM  int
}

// circadianBands is the fixed baseline table.
var circadianBands = []circadianBand{
	{0, 6, 60},
	{6, 9, 68},
	{9, 12, 75},
	{12, 14, 78},
	{14, 18, 74},
	{18, 22, 70},
	{22, 24, 65},
}

// activityBand assigns an activity level to an hour of the day. The band
// boundaries differ from the circadian table's; the two models are
// independent and stay that way.
type activityBand struct {
	fromHour int
	toHour   int
	level    ActivityLevel
}

var activityBands = []activityBand{
	{0, 6, ActivityResting},
	{6, 8, ActivityLight},
	{8, 10, ActivityModerate},
	{10, 12, ActivityLight},
	{12, 14, ActivityModerate},
	{14, 17, ActivityLight},
	{17, 19, ActivityActive},
	{19, 22, ActivityLight},
	{22, 24, ActivityResting},
}

// activityHeartRateAdjust is the additive heart-rate contribution per level.
var activityHeartRateAdjust = map[ActivityLevel]int{
	ActivityResting:  -5,
	ActivityLight:    5,
	ActivityModerate: 15,
	ActivityActive:   30,
}

// stepRange bounds the hourly step draw per level: [min, max).
var stepRange = map[ActivityLevel][2]int{
	ActivityResting:  {0, 0},
	ActivityLight:    {500, 1500},
	ActivityModerate: {1000, 3000},
	ActivityActive:   {2000, 5000},
}

func baseHeartRate(hour int) int {
	for _, b := range circadianBands {
		if hour >= b.fromHour && hour < b.toHour {
			return b.baseBPM
		}
	}
	return circadianBands[0].baseBPM
}

func activityForHour(hour int) ActivityLevel {
	for _, b := range activityBands {
		if hour >= b.fromHour && hour < b.toHour {
			return b.level
		}
	}
	return ActivityResting
}

// Simulator produces hourly wearable readings from a seeded random source.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator returns a simulator seeded for reproducibility. If seed is 0 a
// time-based seed is chosen.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// GenerateDay produces 24 hourly readings for one patient on one calendar
// day. administered lists the doses actually taken that day (or earlier, for
// effects spilling across midnight); unknown medication names contribute no
// effect.
func (s *Simulator) GenerateDay(patientID string, day time.Time, administered []Administration) []Reading {
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	readings := make([]Reading, 0, 24)
	for hour := 0; hour < 24; hour++ {
		ts := midnight.Add(time.Duration(hour) * time.Hour)
		activity := activityForHour(hour)

		hr := float64(baseHeartRate(hour) + activityHeartRateAdjust[activity])
		hr += float64(s.rng.Intn(7) - 3) // +/- 3 bpm noise
		hr += totalEffect(administered, ts)

		bpm := int(hr)
		if bpm < minHeartRate {
			bpm = minHeartRate
		}
		if bpm > maxHeartRate {
			bpm = maxHeartRate
		}

		r := Reading{
			ID:        uuid.New(),
			PatientID: patientID,
			Timestamp: ts,
			HeartRate: bpm,
			Steps:     s.stepsFor(activity),
			Activity:  activity,
		}
		if hour == sleepHour {
			sleep := 6 + s.rng.Float64()*2
			r.SleepHours = &sleep
		}
		readings = append(readings, r)
	}
	return readings
}

func (s *Simulator) stepsFor(level ActivityLevel) int {
	bounds := stepRange[level]
	if bounds[1] <= bounds[0] {
		return bounds[0]
	}
	return bounds[0] + s.rng.Intn(bounds[1]-bounds[0])
}

// GenerateDataset runs the single-day generator across [start, end]
// inclusive. A medication appears in a day's administration list iff that
// day's weekday name is in its configured day set. Doses whose effect window
// crosses midnight stay in the list for the following day, so an evening
// beta blocker still dampens the next morning's readings.
func (s *Simulator) GenerateDataset(patientID string, start, end time.Time, schedule []MedicationSchedule) ([]Reading, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("date range end precedes start")
	}

	var readings []Reading
	var active []Administration
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, med := range schedule {
			if !med.AppliesOn(day.Weekday()) {
				continue
			}
			at, err := clockOnDay(day, med.Time)
			if err != nil {
				return nil, fmt.Errorf("schedule for %s: %w", med.Name, err)
			}
			active = append(active, Administration{Name: med.Name, At: at})
		}
		readings = append(readings, s.GenerateDay(patientID, day, active)...)

		// Drop doses whose effect window closes before the next day starts.
		next := day.AddDate(0, 0, 1)
		kept := active[:0]
		for _, a := range active {
			profile, ok := EffectProfiles[a.Name]
			if !ok {
				continue
			}
			if a.At.Add(profile.Onset + profile.Duration).After(next) {
				kept = append(kept, a)
			}
		}
		active = kept
	}
	return readings, nil
}

// clockOnDay combines a calendar day with an "HH:MM" clock time.
func clockOnDay(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time %q: %w", clock, err)
	}
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
