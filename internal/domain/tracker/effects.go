package tracker

import "time"

// EffectProfile is the pharmacokinetic shape of one medication's influence on
// heart rate: nothing before onset, a linear ramp to the full delta at peak,
// and a linear decay back to zero at onset+duration.
type EffectProfile struct {
	HeartRateDelta float64       `json:"heart_rate_delta"` // bpm, signed
	Onset          time.Duration `json:"onset"`
	Peak           time.Duration `json:"peak"` // measured from administration
	Duration       time.Duration `json:"duration"`
}

// EffectProfiles is the static reference table keyed by medication name.
// Medications absent from this table contribute nothing; unknown names are
// a silent no-op, not an error.
var EffectProfiles = map[string]EffectProfile{
	"Metoprolol":    {HeartRateDelta: -12, Onset: 30 * time.Minute, Peak: 120 * time.Minute, Duration: 12 * time.Hour},
	"Lisinopril":    {HeartRateDelta: -5, Onset: 60 * time.Minute, Peak: 360 * time.Minute, Duration: 24 * time.Hour},
	"Amlodipine":    {HeartRateDelta: -4, Onset: 120 * time.Minute, Peak: 480 * time.Minute, Duration: 24 * time.Hour},
	"Losartan":      {HeartRateDelta: -3, Onset: 60 * time.Minute, Peak: 240 * time.Minute, Duration: 24 * time.Hour},
	"Furosemide":    {HeartRateDelta: 5, Onset: 30 * time.Minute, Peak: 90 * time.Minute, Duration: 6 * time.Hour},
	"Albuterol":     {HeartRateDelta: 10, Onset: 5 * time.Minute, Peak: 30 * time.Minute, Duration: 4 * time.Hour},
	"Levothyroxine": {HeartRateDelta: 4, Onset: 120 * time.Minute, Peak: 360 * time.Minute, Duration: 24 * time.Hour},
	"Sertraline":    {HeartRateDelta: 2, Onset: 60 * time.Minute, Peak: 300 * time.Minute, Duration: 24 * time.Hour},
	"Gabapentin":    {HeartRateDelta: -2, Onset: 45 * time.Minute, Peak: 180 * time.Minute, Duration: 8 * time.Hour},
	"Metformin":     {HeartRateDelta: 1, Onset: 60 * time.Minute, Peak: 150 * time.Minute, Duration: 6 * time.Hour},
}

// EffectAt returns the heart-rate contribution of one profile at the given
// elapsed time since administration. Zero strictly before onset and strictly
// after onset+duration; full delta exactly at peak.
func (p EffectProfile) EffectAt(elapsed time.Duration) float64 {
	if elapsed < p.Onset || elapsed > p.Onset+p.Duration {
		return 0
	}
	end := p.Onset + p.Duration
	switch {
	case elapsed < p.Peak:
		ramp := p.Peak - p.Onset
		if ramp <= 0 {
			return p.HeartRateDelta
		}
		return p.HeartRateDelta * float64(elapsed-p.Onset) / float64(ramp)
	default:
		decay := end - p.Peak
		if decay <= 0 {
			return 0
		}
		return p.HeartRateDelta * float64(end-elapsed) / float64(decay)
	}
}

// totalEffect sums the contributions of every administered medication with a
// known profile at the given instant.
func totalEffect(administered []Administration, at time.Time) float64 {
	var sum float64
	for _, a := range administered {
		profile, ok := EffectProfiles[a.Name]
		if !ok {
			continue
		}
		elapsed := at.Sub(a.At)
		if elapsed < 0 {
			continue
		}
		sum += profile.EffectAt(elapsed)
	}
	return sum
}
