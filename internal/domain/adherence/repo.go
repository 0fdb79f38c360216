package adherence

import (
	"context"
	"time"
)

// Patient is the stored patient record the generated history hangs off of.
type Patient struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AdherenceRate int       `json:"adherence_rate"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Repository is the record-store boundary: save generated histories, fetch
// events filtered by patient and date range.
type Repository interface {
	SaveHistory(ctx context.Context, h *PatientHistory) error
	GetPatient(ctx context.Context, patientID string) (*Patient, error)
	ListPatients(ctx context.Context) ([]*Patient, error)
	ListEvents(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]IntakeEvent, int, error)
	ListHistories(ctx context.Context) ([]*PatientHistory, error)
}
