package tracker

import (
	"testing"
	"time"
)

var testDay = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC) // a Monday

func TestGenerateDay_Shape(t *testing.T) {
	sim := NewSimulator(42)
	readings := sim.GenerateDay("pat-1", testDay, nil)

	if len(readings) != 24 {
		t.Fatalf("got %d readings, want 24", len(readings))
	}
	for i, r := range readings {
		if r.PatientID != "pat-1" {
			t.Fatalf("reading %d: patient id %q", i, r.PatientID)
		}
		want := testDay.Add(time.Duration(i) * time.Hour)
		if !r.Timestamp.Equal(want) {
			t.Fatalf("reading %d: timestamp %v, want %v", i, r.Timestamp, want)
		}
		if r.HeartRate < minHeartRate || r.HeartRate > maxHeartRate {
			t.Fatalf("reading %d: heart rate %d outside [%d,%d]", i, r.HeartRate, minHeartRate, maxHeartRate)
		}
		if r.Steps < 0 {
			t.Fatalf("reading %d: negative steps", i)
		}
	}
}

func TestGenerateDay_SleepOnlyAtSeven(t *testing.T) {
	sim := NewSimulator(7)
	readings := sim.GenerateDay("pat-1", testDay, nil)

	for i, r := range readings {
		if i == sleepHour {
			if r.SleepHours == nil {
				t.Fatal("07:00 reading missing sleep hours")
			}
			if *r.SleepHours < 6 || *r.SleepHours >= 8 {
				t.Errorf("sleep hours %f outside [6,8)", *r.SleepHours)
			}
			continue
		}
		if r.SleepHours != nil {
			t.Errorf("hour %d carries sleep hours", i)
		}
	}
}

func TestGenerateDay_BaselineWithoutMedication(t *testing.T) {
	sim := NewSimulator(3)
	readings := sim.GenerateDay("pat-1", testDay, nil)

	for _, r := range readings {
		hour := r.Timestamp.Hour()
		base := baseHeartRate(hour) + activityHeartRateAdjust[activityForHour(hour)]
		lo, hi := base-3, base+3
		if lo < minHeartRate {
			lo = minHeartRate
		}
		if hi > maxHeartRate {
			hi = maxHeartRate
		}
		if r.HeartRate < lo || r.HeartRate > hi {
			t.Errorf("hour %d: heart rate %d outside noise band [%d,%d]", hour, r.HeartRate, lo, hi)
		}
	}
}

func TestGenerateDay_StepsMatchActivity(t *testing.T) {
	sim := NewSimulator(9)
	readings := sim.GenerateDay("pat-1", testDay, nil)

	for _, r := range readings {
		bounds := stepRange[r.Activity]
		if r.Activity == ActivityResting {
			if r.Steps != 0 {
				t.Errorf("resting hour %d has %d steps", r.Timestamp.Hour(), r.Steps)
			}
			continue
		}
		if r.Steps < bounds[0] || r.Steps >= bounds[1] {
			t.Errorf("hour %d (%s): steps %d outside [%d,%d)",
				r.Timestamp.Hour(), r.Activity, r.Steps, bounds[0], bounds[1])
		}
	}
}

func TestGenerateDay_MedicationLowersHeartRate(t *testing.T) {
	// Same seed with and without a beta blocker taken at 08:00. Two hours
	// after the dose the effect is at peak, so the 10:00 readings differ by
	// exactly the full delta as long as neither run clamps.
	dose := []Administration{{Name: "Metoprolol", At: testDay.Add(8 * time.Hour)}}

	plain := NewSimulator(1234).GenerateDay("pat-1", testDay, nil)
	dosed := NewSimulator(1234).GenerateDay("pat-1", testDay, dose)

	diff := plain[10].HeartRate - dosed[10].HeartRate
	if diff != 12 {
		t.Errorf("heart rate delta at peak = %d, want 12", diff)
	}

	// Before onset the runs are identical.
	if plain[8].HeartRate != dosed[8].HeartRate {
		t.Errorf("08:00 readings differ before onset: %d vs %d",
			plain[8].HeartRate, dosed[8].HeartRate)
	}
}

func TestGenerateDay_ClampsUnderStackedSchedule(t *testing.T) {
	// Heart rate stays in bounds no matter how large the combined
	// medication effect is. Fifty simultaneous doses push the raw value
	// hundreds of bpm past either bound.
	stack := func(name string) []Administration {
		doses := make([]Administration, 50)
		for i := range doses {
			doses[i] = Administration{Name: name, At: testDay.Add(8 * time.Hour)}
		}
		return doses
	}

	up := NewSimulator(21).GenerateDay("pat-1", testDay, stack("Albuterol"))
	for i, r := range up {
		if r.HeartRate < minHeartRate || r.HeartRate > maxHeartRate {
			t.Fatalf("hour %d: heart rate %d outside [%d,%d]", i, r.HeartRate, minHeartRate, maxHeartRate)
		}
	}
	// 09:00 is well inside all fifty effect windows, so the raw value is
	// hundreds of bpm over the cap.
	if up[9].HeartRate != maxHeartRate {
		t.Errorf("09:00 heart rate = %d, want cap %d", up[9].HeartRate, maxHeartRate)
	}

	down := NewSimulator(21).GenerateDay("pat-1", testDay, stack("Metoprolol"))
	for i, r := range down {
		if r.HeartRate < minHeartRate || r.HeartRate > maxHeartRate {
			t.Fatalf("hour %d: heart rate %d outside [%d,%d]", i, r.HeartRate, minHeartRate, maxHeartRate)
		}
	}
	// 10:00 is the stacked beta blocker's peak.
	if down[10].HeartRate != minHeartRate {
		t.Errorf("10:00 heart rate = %d, want floor %d", down[10].HeartRate, minHeartRate)
	}
}

func TestGenerateDataset_DayCount(t *testing.T) {
	sim := NewSimulator(5)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC)

	readings, err := sim.GenerateDataset("pat-1", start, end, nil)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}
	if len(readings) != 7*24 {
		t.Errorf("got %d readings, want %d", len(readings), 7*24)
	}
}

func TestGenerateDataset_Validation(t *testing.T) {
	sim := NewSimulator(5)
	start := time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	if _, err := sim.GenerateDataset("", end, start, nil); err == nil {
		t.Error("expected error for empty patient id")
	}
	if _, err := sim.GenerateDataset("pat-1", start, end, nil); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := sim.GenerateDataset("pat-1", start, start.AddDate(0, 0, 3), []MedicationSchedule{
		{Name: "Metoprolol", Time: "8 o'clock"},
	}); err == nil {
		t.Error("expected error for malformed clock time")
	}
}

func TestGenerateDataset_WeekdayFiltering(t *testing.T) {
	// Metoprolol only on Mondays. On Tuesday no dose is administered, so a
	// same-seed run with an empty schedule produces identical Tuesday
	// readings.
	monday := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	schedule := []MedicationSchedule{
		{Name: "Metoprolol", Time: "08:00", Days: []string{"Monday"}},
	}

	dosed, err := NewSimulator(77).GenerateDataset("pat-1", monday, tuesday, schedule)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}
	plain, err := NewSimulator(77).GenerateDataset("pat-1", monday, tuesday, nil)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}

	// Monday 10:00 shows the peak effect.
	if plain[10].HeartRate-dosed[10].HeartRate != 12 {
		t.Errorf("Monday peak delta = %d, want 12", plain[10].HeartRate-dosed[10].HeartRate)
	}
	// Tuesday mid-morning is past the Monday dose's 12.5h window.
	for hour := 26; hour < 48; hour++ {
		if plain[hour].HeartRate != dosed[hour].HeartRate {
			t.Fatalf("hour %d differs though no dose applies", hour)
		}
	}
}

func TestGenerateDataset_EffectSpillsAcrossMidnight(t *testing.T) {
	// A 20:00 Metoprolol dose stays active until 08:30 the next day, so the
	// second morning's readings must still show it. Same-seed runs consume
	// the random stream identically, so any difference is the effect.
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	schedule := []MedicationSchedule{{Name: "Metoprolol", Time: "20:00"}}

	dosed, err := NewSimulator(303).GenerateDataset("pat-1", start, end, schedule)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}
	plain, err := NewSimulator(303).GenerateDataset("pat-1", start, end, nil)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}

	// Hour 30 is 06:00 on day two, inside the first dose's decay tail.
	if plain[30].HeartRate <= dosed[30].HeartRate {
		t.Errorf("06:00 day-two heart rate %d not below undosed %d",
			dosed[30].HeartRate, plain[30].HeartRate)
	}
	// Hour 40 is 16:00 on day two: the first dose expired at 08:30 and the
	// second has not been taken yet.
	if plain[40].HeartRate != dosed[40].HeartRate {
		t.Errorf("16:00 day-two readings differ (%d vs %d) with no active dose",
			plain[40].HeartRate, dosed[40].HeartRate)
	}
}

func TestAppliesOn(t *testing.T) {
	daily := MedicationSchedule{Name: "Metformin", Time: "08:00"}
	if !daily.AppliesOn(time.Sunday) || !daily.AppliesOn(time.Wednesday) {
		t.Error("empty day list should apply every day")
	}

	weekly := MedicationSchedule{Name: "Metoprolol", Time: "08:00", Days: []string{"Monday", "Thursday"}}
	if !weekly.AppliesOn(time.Monday) {
		t.Error("Monday should apply")
	}
	if weekly.AppliesOn(time.Friday) {
		t.Error("Friday should not apply")
	}
}

func TestGenerateDataset_Reproducible(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	schedule := []MedicationSchedule{{Name: "Metformin", Time: "08:00"}}

	first, err := NewSimulator(500).GenerateDataset("pat-1", start, end, schedule)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}
	second, err := NewSimulator(500).GenerateDataset("pat-1", start, end, schedule)
	if err != nil {
		t.Fatalf("GenerateDataset() error: %v", err)
	}

	for i := range first {
		if first[i].HeartRate != second[i].HeartRate || first[i].Steps != second[i].Steps {
			t.Fatalf("reading %d differs between same-seed runs", i)
		}
	}
}
