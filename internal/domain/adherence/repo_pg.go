package adherence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a PostgreSQL-backed Repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) SaveHistory(ctx context.Context, h *PatientHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save history: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO patient (id, name, adherence_rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, adherence_rate = EXCLUDED.adherence_rate, updated_at = NOW()`,
		h.PatientID, h.PatientName, h.AdherenceRate)
	if err != nil {
		return fmt.Errorf("upsert patient %s: %w", h.PatientID, err)
	}

	// Regeneration replaces the window wholesale.
	_, err = tx.Exec(ctx, `DELETE FROM intake_event WHERE patient_id = $1`, h.PatientID)
	if err != nil {
		return fmt.Errorf("clear intake events for %s: %w", h.PatientID, err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"intake_event"},
		[]string{"id", "patient_id", "medication_id", "medication_name", "scheduled_time", "taken_time", "taken", "event_date", "skipped_reason"},
		pgx.CopyFromSlice(len(h.Events), func(i int) ([]interface{}, error) {
			e := h.Events[i]
			return []interface{}{
				e.ID, h.PatientID, e.MedicationID, e.MedicationName,
				e.ScheduledTime, e.TakenTime, e.Taken, e.Date, e.SkippedReason,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy intake events for %s: %w", h.PatientID, err)
	}

	return tx.Commit(ctx)
}

const patientCols = `id, name, adherence_rate, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.AdherenceRate, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) GetPatient(ctx context.Context, patientID string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, patientID))
}

func (r *repoPG) ListPatients(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

const eventCols = `id, medication_id, medication_name, scheduled_time, taken_time, taken, event_date, skipped_reason`

func scanEvent(rows pgx.Rows) (IntakeEvent, error) {
	var e IntakeEvent
	err := rows.Scan(&e.ID, &e.MedicationID, &e.MedicationName, &e.ScheduledTime,
		&e.TakenTime, &e.Taken, &e.Date, &e.SkippedReason)
	return e, err
}

func (r *repoPG) ListEvents(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]IntakeEvent, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM intake_event
		WHERE patient_id = $1 AND event_date >= $2 AND event_date <= $3`,
		patientID, from, to).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+eventCols+` FROM intake_event
		WHERE patient_id = $1 AND event_date >= $2 AND event_date <= $3
		ORDER BY event_date, scheduled_time
		LIMIT $4 OFFSET $5`,
		patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []IntakeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *repoPG) ListHistories(ctx context.Context) ([]*PatientHistory, error) {
	patients, err := r.ListPatients(ctx)
	if err != nil {
		return nil, err
	}

	histories := make([]*PatientHistory, 0, len(patients))
	for _, p := range patients {
		rows, err := r.pool.Query(ctx, `
			SELECT `+eventCols+` FROM intake_event
			WHERE patient_id = $1
			ORDER BY event_date, scheduled_time`, p.ID)
		if err != nil {
			return nil, err
		}

		var events []IntakeEvent
		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			events = append(events, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		histories = append(histories, &PatientHistory{
			PatientID:     p.ID,
			PatientName:   p.Name,
			Events:        events,
			AdherenceRate: p.AdherenceRate,
		})
	}
	return histories, nil
}
