package control

import "fmt"

// PID is a discrete PID controller with a fixed sample time. The
// integral accumulates without clamping and the derivative is a
// backward difference over the last error; there is no anti-windup, so
// callers must keep setpoints within a range the plant can actually
// reach.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	dt       float64
	integral float64
	lastErr  float64
}

// NewPID returns a controller with zeroed integral and error state.
// dt is the fixed interval between Compute calls and must be positive.
func NewPID(kp, ki, kd, dt float64) (*PID, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("pid dt must be positive, got %f", dt)
	}
	return &PID{Kp: kp, Ki: ki, Kd: kd, dt: dt}, nil
}

// Compute advances the controller one sample and returns the control
// output for the given setpoint and measurement.
func (p *PID) Compute(setpoint, measured float64) float64 {
	err := setpoint - measured
	p.integral += err * p.dt
	derivative := (err - p.lastErr) / p.dt
	p.lastErr = err
	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Dt returns the fixed sample time.
func (p *PID) Dt() float64 {
	return p.dt
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.lastErr = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	}
}
