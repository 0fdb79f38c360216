package tracker

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLevel classifies an hour of the day for the step and heart-rate
// models.
type ActivityLevel string

const (
	ActivityResting  ActivityLevel = "resting"
	ActivityLight    ActivityLevel = "light"
	ActivityModerate ActivityLevel = "moderate"
	ActivityActive   ActivityLevel = "active"
)

// Reading is one hourly wearable sample. SleepHours is populated only on the
// 07:00 slot, when the previous night's sleep is reported.
type Reading struct {
	ID         uuid.UUID     `json:"id"`
	PatientID  string        `json:"patient_id"`
	Timestamp  time.Time     `json:"timestamp"`
	HeartRate  int           `json:"heart_rate"` // bpm, clamped to [55,110]
	Steps      int           `json:"steps"`
	SleepHours *float64      `json:"sleep_hours,omitempty"`
	Activity   ActivityLevel `json:"activity"`
}

// MedicationSchedule describes when a medication is administered: a clock
// time and the weekdays it applies to. An empty day list means daily.
type MedicationSchedule struct {
	Name string   `json:"name"`
	Time string   `json:"time"`           // "HH:MM"
	Days []string `json:"days,omitempty"` // weekday names, e.g. "Monday"
}

// AppliesOn reports whether the schedule includes the given weekday.
func (m MedicationSchedule) AppliesOn(day time.Weekday) bool {
	if len(m.Days) == 0 {
		return true
	}
	for _, d := range m.Days {
		if d == day.String() {
			return true
		}
	}
	return false
}

// Administration is a concrete dose: medication name and the instant it was
// taken.
type Administration struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}
