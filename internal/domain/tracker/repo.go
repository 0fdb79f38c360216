package tracker

import (
	"context"
	"time"
)

// Repository stores readings and fetches them filtered by patient and time
// range.
type Repository interface {
	SaveReadings(ctx context.Context, readings []Reading) error
	ListByPatient(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]Reading, int, error)
	ListAll(ctx context.Context, from, to time.Time) ([]Reading, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}
