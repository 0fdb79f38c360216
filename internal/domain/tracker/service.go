package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrStorage marks failures from the backing store. Handlers use it to
// separate server faults from request validation errors.
var ErrStorage = errors.New("storage failure")

// SimulationRecorder receives a count of generated records per simulation
// run. A nil recorder disables recording.
type SimulationRecorder interface {
	SimulationCounter(kind string, records int64)
}

// Service validates simulation requests, runs the simulator, and persists
// the readings.
type Service struct {
	repo    Repository
	metrics SimulationRecorder
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetMetrics attaches a simulation-run recorder.
func (s *Service) SetMetrics(m SimulationRecorder) {
	s.metrics = m
}

// maxSimulationDays bounds a single request; 24 readings per day makes long
// windows expensive to store.
const maxSimulationDays = 366

// Simulate generates readings for one patient over [start, end], replacing
// any previously stored readings for that patient. A seed of 0 means a fresh
// time-based seed.
func (s *Service) Simulate(ctx context.Context, patientID string, start, end time.Time, schedule []MedicationSchedule, seed int64) ([]Reading, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	days := int(truncateToDay(end).Sub(truncateToDay(start)).Hours()/24) + 1
	if days < 1 {
		return nil, fmt.Errorf("date range end precedes start")
	}
	if days > maxSimulationDays {
		return nil, fmt.Errorf("date range spans %d days, maximum is %d", days, maxSimulationDays)
	}

	sim := NewSimulator(seed)
	readings, err := sim.GenerateDataset(patientID, start, end, schedule)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteByPatient(ctx, patientID); err != nil {
		return nil, fmt.Errorf("%w: clear readings for %s: %w", ErrStorage, patientID, err)
	}
	if err := s.repo.SaveReadings(ctx, readings); err != nil {
		return nil, fmt.Errorf("%w: persist readings: %w", ErrStorage, err)
	}
	if s.metrics != nil {
		s.metrics.SimulationCounter("tracker", int64(len(readings)))
	}
	return readings, nil
}

// Readings returns stored readings for a patient within [from, to].
func (s *Service) Readings(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]Reading, int, error) {
	if patientID == "" {
		return nil, 0, fmt.Errorf("patient id is required")
	}
	if to.Before(from) {
		return nil, 0, fmt.Errorf("date range end precedes start")
	}
	readings, total, err := s.repo.ListByPatient(ctx, patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list readings: %w", ErrStorage, err)
	}
	return readings, total, nil
}

// ExportCSV streams every stored reading in [from, to] as delimited text.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	readings, err := s.repo.ListAll(ctx, from, to)
	if err != nil {
		return err
	}
	return WriteCSV(w, readings)
}

// ExportNDJSON streams every stored reading in [from, to] as NDJSON.
func (s *Service) ExportNDJSON(ctx context.Context, w io.Writer, from, to time.Time) error {
	readings, err := s.repo.ListAll(ctx, from, to)
	if err != nil {
		return err
	}
	return WriteNDJSON(w, readings)
}
