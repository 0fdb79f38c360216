package tracker

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the fixed column set of the delimited export form.
var csvHeader = []string{"timestamp", "patient_id", "heart_rate", "steps", "sleep_hours", "activity"}

// WriteCSV writes readings in the delimited-text export form.
func WriteCSV(w io.Writer, readings []Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range readings {
		sleep := ""
		if r.SleepHours != nil {
			sleep = strconv.FormatFloat(*r.SleepHours, 'f', 2, 64)
		}
		row := []string{
			r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			r.PatientID,
			strconv.Itoa(r.HeartRate),
			strconv.Itoa(r.Steps),
			sleep,
			string(r.Activity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes readings as newline-delimited JSON, one reading per
// line.
func WriteNDJSON(w io.Writer, readings []Reading) error {
	enc := json.NewEncoder(w)
	for _, r := range readings {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode reading %s: %w", r.ID, err)
		}
	}
	return nil
}
