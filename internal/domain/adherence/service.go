package adherence

import (
	"context"
	"errors"
	"fmt"
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

// Service validates simulation requests, runs the generator, and persists
// the result.
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

// Simulate generates a history for one patient and stores it. A seed of 0
// means a fresh time-based seed per call.
func (s *Service) Simulate(ctx context.Context, p HistoryParams, seed int64) (*PatientHistory, error) {
	if p.PatientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if p.MonthsBack < 1 || p.MonthsBack > 24 {
		return nil, fmt.Errorf("months back must be between 1 and 24, got %d", p.MonthsBack)
	}
	if p.MedicationCount < 1 || p.MedicationCount > len(Catalog) {
		return nil, fmt.Errorf("medication count must be between 1 and %d, got %d", len(Catalog), p.MedicationCount)
	}

	gen := NewGenerator(seed)
	history, err := gen.GenerateHistory(p)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("%w: persist history: %w", ErrStorage, err)
	}
	if s.metrics != nil {
		s.metrics.SimulationCounter("adherence", int64(len(history.Events)))
	}
	return history, nil
}

// Events returns stored intake events for a patient, filtered to [from, to].
func (s *Service) Events(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]IntakeEvent, int, error) {
	if patientID == "" {
		return nil, 0, fmt.Errorf("patient id is required")
	}
	if to.Before(from) {
		return nil, 0, fmt.Errorf("date range end precedes start")
	}
	events, total, err := s.repo.ListEvents(ctx, patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list events: %w", ErrStorage, err)
	}
	return events, total, nil
}

// Histories returns every stored patient history.
func (s *Service) Histories(ctx context.Context) ([]*PatientHistory, error) {
	return s.repo.ListHistories(ctx)
}

// Patients returns the stored patient records.
func (s *Service) Patients(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListPatients(ctx)
}
