// Package demo provides synthetic demo-data seeding. It populates the store
// with reproducible patients, adherence histories, and wearable readings
// suitable for integration testing, developer on-boarding, and UI demos.
package demo

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/medtrack/medtrack/internal/domain/adherence"
	"github.com/medtrack/medtrack/internal/domain/tracker"
)

// SeedConfig controls the volume and shape of generated demo data.
type SeedConfig struct {
	PatientCount          int   `json:"patient_count"`
	MonthsBack            int   `json:"months_back"`
	MedicationsPerPatient int   `json:"medications_per_patient"`
	TrackerDays           int   `json:"tracker_days"`
	Seed                  int64 `json:"seed"`
}

// DefaultSeedConfig returns a SeedConfig with sensible defaults.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:          5,
		MonthsBack:            3,
		MedicationsPerPatient: 3,
		TrackerDays:           14,
	}
}

func (c *SeedConfig) validate() error {
	if c.PatientCount < 1 || c.PatientCount > 1000 {
		return fmt.Errorf("patient_count must be between 1 and 1000, got %d", c.PatientCount)
	}
	if c.MonthsBack < 1 || c.MonthsBack > 24 {
		return fmt.Errorf("months_back must be between 1 and 24, got %d", c.MonthsBack)
	}
	if c.MedicationsPerPatient < 1 || c.MedicationsPerPatient > len(adherence.Catalog) {
		return fmt.Errorf("medications_per_patient must be between 1 and %d, got %d",
			len(adherence.Catalog), c.MedicationsPerPatient)
	}
	if c.TrackerDays < 1 || c.TrackerDays > 366 {
		return fmt.Errorf("tracker_days must be between 1 and 366, got %d", c.TrackerDays)
	}
	return nil
}

// SeedResult reports the volume of generated demo data.
type SeedResult struct {
	Patients       int           `json:"patients"`
	IntakeEvents   int           `json:"intake_events"`
	Readings       int           `json:"readings"`
	Duration       time.Duration `json:"duration_ns"`
	DurationPretty string        `json:"duration"`
}

var firstNames = []string{
	"Margaret", "Robert", "Dorothy", "James", "Helen", "William", "Ruth",
	"Charles", "Evelyn", "George", "Frances", "Harold", "Gloria", "Walter",
}

var lastNames = []string{
	"Thompson", "Garcia", "Chen", "Okafor", "Kowalski", "Haddad",
	"Lindqvist", "Moreau", "Patel", "Novak",
}

// Seeder orchestrates generation of a complete demo dataset across both the
// adherence and tracker stores.
type Seeder struct {
	rng           *rand.Rand
	counter       uint64
	adherenceRepo adherence.Repository
	trackerRepo   tracker.Repository
}

// NewSeeder creates a Seeder backed by the given repositories. If seed is 0 a
// time-based seed is chosen.
func NewSeeder(adherenceRepo adherence.Repository, trackerRepo tracker.Repository, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		rng:           rand.New(rand.NewSource(seed)),
		adherenceRepo: adherenceRepo,
		trackerRepo:   trackerRepo,
	}
}

func (s *Seeder) nextID(prefix string) string {
	s.counter++
	return fmt.Sprintf("%s-%08x-%04x", prefix, s.rng.Uint32(), s.counter)
}

func (s *Seeder) pick(pool []string) string {
	return pool[s.rng.Intn(len(pool))]
}

// Generate creates and persists demo data according to config. Each patient
// gets a full adherence history plus tracker readings driven by that
// patient's own medication schedule.
func (s *Seeder) Generate(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &SeedResult{}

	historyGen := adherence.NewGenerator(s.rng.Int63())
	simulator := tracker.NewSimulator(s.rng.Int63())

	trackerEnd := time.Now().UTC().Truncate(24 * time.Hour)
	trackerStart := trackerEnd.AddDate(0, 0, -(cfg.TrackerDays - 1))

	for i := 0; i < cfg.PatientCount; i++ {
		patientID := s.nextID("pat")
		patientName := s.pick(firstNames) + " " + s.pick(lastNames)

		history, err := historyGen.GenerateHistory(adherence.HistoryParams{
			PatientID:       patientID,
			PatientName:     patientName,
			MonthsBack:      cfg.MonthsBack,
			MedicationCount: cfg.MedicationsPerPatient,
		})
		if err != nil {
			return nil, fmt.Errorf("generate history for %s: %w", patientID, err)
		}
		if err := s.adherenceRepo.SaveHistory(ctx, history); err != nil {
			return nil, fmt.Errorf("save history for %s: %w", patientID, err)
		}
		result.IntakeEvents += len(history.Events)

		schedule := scheduleFromHistory(history)
		readings, err := simulator.GenerateDataset(patientID, trackerStart, trackerEnd, schedule)
		if err != nil {
			return nil, fmt.Errorf("generate readings for %s: %w", patientID, err)
		}
		if err := s.trackerRepo.SaveReadings(ctx, readings); err != nil {
			return nil, fmt.Errorf("save readings for %s: %w", patientID, err)
		}
		result.Readings += len(readings)

		result.Patients++
	}

	result.Duration = time.Since(start)
	result.DurationPretty = result.Duration.String()
	return result, nil
}

// scheduleFromHistory derives a daily medication schedule from the distinct
// medications present in an adherence history, so that tracker readings
// reflect the drugs the patient is actually taking.
func scheduleFromHistory(history *adherence.PatientHistory) []tracker.MedicationSchedule {
	seen := make(map[string]bool)
	var schedule []tracker.MedicationSchedule
	for _, e := range history.Events {
		key := e.MedicationName + "@" + e.ScheduledTime
		if seen[key] {
			continue
		}
		seen[key] = true
		schedule = append(schedule, tracker.MedicationSchedule{
			Name: e.MedicationName,
			Time: e.ScheduledTime,
		})
	}
	return schedule
}
