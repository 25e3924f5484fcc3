package control

import "math"

// Defaults for the gain schedule: boost the output by half again when
// the error magnitude exceeds one unit.
const (
	DefaultErrThreshold = 1.0
	DefaultBoost        = 1.5
)

// Adaptive wraps a PID with coarse gain scheduling: when the error
// magnitude exceeds ErrThreshold the PID output is multiplied by
// Boost, otherwise it passes through unchanged. This gives large-error
// transients a stronger response without retuning the base gains.
type Adaptive struct {
	ErrThreshold float64
	Boost        float64

	pid *PID
}

// NewAdaptive wraps pid with the default error threshold and boost.
func NewAdaptive(pid *PID) *Adaptive {
	return &Adaptive{
		ErrThreshold: DefaultErrThreshold,
		Boost:        DefaultBoost,
		pid:          pid,
	}
}

// Compute advances the wrapped PID and returns its output scaled by
// the schedule factor.
func (a *Adaptive) Compute(setpoint, measured float64) float64 {
	out := a.pid.Compute(setpoint, measured)
	if math.Abs(setpoint-measured) > a.ErrThreshold {
		return out * a.Boost
	}
	return out
}

// Reset clears the wrapped PID state.
func (a *Adaptive) Reset() {
	a.pid.Reset()
}

// PID returns the wrapped controller for gain inspection and tuning.
func (a *Adaptive) PID() *PID {
	return a.pid
}
