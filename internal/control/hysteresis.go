package control

import "fmt"

// Mode is the battery operating mode chosen by the selector.
type Mode int

const (
	ModeDischarging Mode = iota
	ModeCharging
)

func (m Mode) String() string {
	if m == ModeCharging {
		return "charging"
	}
	return "discharging"
}

// ModeSelector is a two-threshold bistable switch over battery state
// of charge. While discharging it flips to charging when SoC falls
// below Lower; while charging it flips back when SoC rises above
// Upper. Inside the dead band the current mode holds, which keeps the
// selector from chattering around a single setpoint.
type ModeSelector struct {
	Lower float64
	Upper float64

	mode Mode
}

// NewModeSelector builds a selector starting in discharging mode.
// The thresholds must satisfy lower < upper; a collapsed or inverted
// band would leave the selector stuck or oscillating every tick.
func NewModeSelector(lower, upper float64) (*ModeSelector, error) {
	if lower >= upper {
		return nil, fmt.Errorf("hysteresis thresholds must satisfy lower < upper, got %f >= %f", lower, upper)
	}
	return &ModeSelector{Lower: lower, Upper: upper, mode: ModeDischarging}, nil
}

// Update evaluates the transition rule against the given SoC and
// returns the (possibly unchanged) mode.
func (s *ModeSelector) Update(soc float64) Mode {
	switch s.mode {
	case ModeDischarging:
		if soc < s.Lower {
			s.mode = ModeCharging
		}
	case ModeCharging:
		if soc > s.Upper {
			s.mode = ModeDischarging
		}
	}
	return s.mode
}

// Mode returns the current mode without evaluating a transition.
func (s *ModeSelector) Mode() Mode {
	return s.mode
}
