package adherence

import (
	"math"
	"time"
)

// ConsistencyTier buckets how reliably a patient follows their schedule.
type ConsistencyTier string

const (
	TierHigh   ConsistencyTier = "high"
	TierMedium ConsistencyTier = "medium"
	TierLow    ConsistencyTier = "low"
)

// Profile is a patient's adherence disposition, sampled once per generation
// run and held fixed so that a single patient's daily outcomes correlate.
type Profile struct {
	TargetRate float64         `json:"target_rate"` // percent, [50,100)
	Tier       ConsistencyTier `json:"tier"`
}

// IntakeEvent records one scheduled dose on one calendar day: whether it was
// taken, when, and why not. Immutable once generated.
type IntakeEvent struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	ScheduledTime  string    `json:"scheduled_time"`           // "HH:MM"
	TakenTime      *string   `json:"taken_time,omitempty"`     // "HH:MM", nil when missed
	Taken          bool      `json:"taken"`
	Date           time.Time `json:"date"`                     // calendar day, UTC midnight
	SkippedReason  *string   `json:"skipped_reason,omitempty"` // set only when missed
}

// PatientHistory is a patient's full synthetic intake log over the generation
// window, with the adherence rate cached at creation time.
type PatientHistory struct {
	PatientID     string        `json:"patient_id"`
	PatientName   string        `json:"patient_name"`
	Events        []IntakeEvent `json:"events"`         // chronological
	AdherenceRate int           `json:"adherence_rate"` // percent, rounded
}

// Rate computes the adherence percentage over a set of events. The second
// return is false when the event set is empty, in which case the rate is
// undefined and the zero value must not be interpreted as 0% adherence.
func Rate(events []IntakeEvent) (int, bool) {
	if len(events) == 0 {
		return 0, false
	}
	taken := 0
	for _, e := range events {
		if e.Taken {
			taken++
		}
	}
	return int(math.Round(100 * float64(taken) / float64(len(events)))), true
}
