package tracker

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

func (r *repoPG) SaveReadings(ctx context.Context, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"tracker_reading"},
		[]string{"id", "patient_id", "ts", "heart_rate", "steps", "sleep_hours", "activity"},
		pgx.CopyFromSlice(len(readings), func(i int) ([]interface{}, error) {
			rd := readings[i]
			return []interface{}{
				rd.ID, rd.PatientID, rd.Timestamp, rd.HeartRate,
				rd.Steps, rd.SleepHours, string(rd.Activity),
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy tracker readings: %w", err)
	}
	return nil
}

const readingCols = `id, patient_id, ts, heart_rate, steps, sleep_hours, activity`

func scanReading(rows pgx.Rows) (Reading, error) {
	var rd Reading
	var activity string
	err := rows.Scan(&rd.ID, &rd.PatientID, &rd.Timestamp, &rd.HeartRate,
		&rd.Steps, &rd.SleepHours, &activity)
	rd.Activity = ActivityLevel(activity)
	return rd, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, from, to time.Time, limit, offset int) ([]Reading, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tracker_reading
		WHERE patient_id = $1 AND ts >= $2 AND ts <= $3`,
		patientID, from, to).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+readingCols+` FROM tracker_reading
		WHERE patient_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts
		LIMIT $4 OFFSET $5`,
		patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, 0, err
		}
		readings = append(readings, rd)
	}
	return readings, total, rows.Err()
}

func (r *repoPG) ListAll(ctx context.Context, from, to time.Time) ([]Reading, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+readingCols+` FROM tracker_reading
		WHERE ts >= $1 AND ts <= $2
		ORDER BY patient_id, ts`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, rows.Err()
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tracker_reading WHERE patient_id = $1`, patientID)
	return err
}
