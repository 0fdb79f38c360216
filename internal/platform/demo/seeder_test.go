package demo

import (
	"context"
	"testing"
	"time"

	"github.com/medtrack/medtrack/internal/domain/adherence"
	"github.com/medtrack/medtrack/internal/domain/tracker"
)

type memAdherenceRepo struct {
	histories []*adherence.PatientHistory
}

func (r *memAdherenceRepo) SaveHistory(_ context.Context, h *adherence.PatientHistory) error {
	r.histories = append(r.histories, h)
	return nil
}

func (r *memAdherenceRepo) GetPatient(_ context.Context, patientID string) (*adherence.Patient, error) {
	for _, h := range r.histories {
		if h.PatientID == patientID {
			return &adherence.Patient{ID: h.PatientID, Name: h.PatientName, AdherenceRate: h.AdherenceRate}, nil
		}
	}
	return nil, nil
}

func (r *memAdherenceRepo) ListPatients(_ context.Context) ([]*adherence.Patient, error) {
	var out []*adherence.Patient
	for _, h := range r.histories {
		out = append(out, &adherence.Patient{ID: h.PatientID, Name: h.PatientName, AdherenceRate: h.AdherenceRate})
	}
	return out, nil
}

func (r *memAdherenceRepo) ListEvents(_ context.Context, patientID string, _, _ time.Time, _, _ int) ([]adherence.IntakeEvent, int, error) {
	for _, h := range r.histories {
		if h.PatientID == patientID {
			return h.Events, len(h.Events), nil
		}
	}
	return nil, 0, nil
}

func (r *memAdherenceRepo) ListHistories(_ context.Context) ([]*adherence.PatientHistory, error) {
	return r.histories, nil
}

type memTrackerRepo struct {
	readings []tracker.Reading
}

func (r *memTrackerRepo) SaveReadings(_ context.Context, readings []tracker.Reading) error {
	r.readings = append(r.readings, readings...)
	return nil
}

func (r *memTrackerRepo) ListByPatient(_ context.Context, patientID string, _, _ time.Time, _, _ int) ([]tracker.Reading, int, error) {
	var out []tracker.Reading
	for _, rd := range r.readings {
		if rd.PatientID == patientID {
			out = append(out, rd)
		}
	}
	return out, len(out), nil
}

func (r *memTrackerRepo) ListAll(_ context.Context, _, _ time.Time) ([]tracker.Reading, error) {
	return r.readings, nil
}

func (r *memTrackerRepo) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []tracker.Reading
	for _, rd := range r.readings {
		if rd.PatientID != patientID {
			kept = append(kept, rd)
		}
	}
	r.readings = kept
	return nil
}

func TestSeeder_Generate(t *testing.T) {
	aRepo := &memAdherenceRepo{}
	tRepo := &memTrackerRepo{}
	seeder := NewSeeder(aRepo, tRepo, 42)

	cfg := SeedConfig{
		PatientCount:          3,
		MonthsBack:            1,
		MedicationsPerPatient: 2,
		TrackerDays:           7,
		Seed:                  42,
	}

	result, err := seeder.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if result.Patients != 3 {
		t.Errorf("patients = %d, want 3", result.Patients)
	}
	if len(aRepo.histories) != 3 {
		t.Fatalf("stored histories = %d, want 3", len(aRepo.histories))
	}
	if result.IntakeEvents == 0 {
		t.Error("expected intake events to be generated")
	}

	// 7 days of 24 hourly readings per patient.
	wantReadings := 3 * 7 * 24
	if result.Readings != wantReadings {
		t.Errorf("readings = %d, want %d", result.Readings, wantReadings)
	}
	if len(tRepo.readings) != wantReadings {
		t.Errorf("stored readings = %d, want %d", len(tRepo.readings), wantReadings)
	}
}

func TestSeeder_Reproducible(t *testing.T) {
	run := func() []*adherence.PatientHistory {
		aRepo := &memAdherenceRepo{}
		tRepo := &memTrackerRepo{}
		seeder := NewSeeder(aRepo, tRepo, 99)
		cfg := SeedConfig{
			PatientCount:          2,
			MonthsBack:            1,
			MedicationsPerPatient: 2,
			TrackerDays:           3,
			Seed:                  99,
		}
		if _, err := seeder.Generate(context.Background(), cfg); err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		return aRepo.histories
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].PatientID != second[i].PatientID {
			t.Errorf("patient %d: IDs differ: %s vs %s", i, first[i].PatientID, second[i].PatientID)
		}
		if first[i].AdherenceRate != second[i].AdherenceRate {
			t.Errorf("patient %d: rates differ: %d vs %d", i, first[i].AdherenceRate, second[i].AdherenceRate)
		}
		if len(first[i].Events) != len(second[i].Events) {
			t.Errorf("patient %d: event counts differ: %d vs %d", i, len(first[i].Events), len(second[i].Events))
		}
	}
}

func TestSeeder_ValidatesConfig(t *testing.T) {
	seeder := NewSeeder(&memAdherenceRepo{}, &memTrackerRepo{}, 1)

	bad := []SeedConfig{
		{PatientCount: 0, MonthsBack: 3, MedicationsPerPatient: 2, TrackerDays: 7},
		{PatientCount: 5, MonthsBack: 0, MedicationsPerPatient: 2, TrackerDays: 7},
		{PatientCount: 5, MonthsBack: 3, MedicationsPerPatient: 99, TrackerDays: 7},
		{PatientCount: 5, MonthsBack: 3, MedicationsPerPatient: 2, TrackerDays: 0},
	}
	for i, cfg := range bad {
		if _, err := seeder.Generate(context.Background(), cfg); err == nil {
			t.Errorf("config %d: expected validation error", i)
		}
	}
}

func TestScheduleFromHistory_Distinct(t *testing.T) {
	history := &adherence.PatientHistory{
		Events: []adherence.IntakeEvent{
			{MedicationName: "Metformin", ScheduledTime: "08:00"},
			{MedicationName: "Metformin", ScheduledTime: "08:00"},
			{MedicationName: "Metformin", ScheduledTime: "20:00"},
			{MedicationName: "Lisinopril", ScheduledTime: "08:00"},
		},
	}

	schedule := scheduleFromHistory(history)
	if len(schedule) != 3 {
		t.Fatalf("schedule entries = %d, want 3", len(schedule))
	}
}
