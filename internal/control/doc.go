// Package control provides the feedback controllers for the hybrid
// power plant.
//
//   - [PID]: discrete Proportional-Integral-Derivative controller
//   - [Adaptive]: PID wrapper with error-magnitude gain scheduling
//   - [ModeSelector]: two-threshold hysteresis switch for charge/discharge mode
//
// # Usage
//
//	pid, err := control.NewPID(0.5, 0.1, 0.01, 0.5) // Kp, Ki, Kd, dt
//	u := pid.Compute(2.0, measured)
//
// Controllers keep their accumulated state between calls and are reset
// only by explicit re-instantiation or [PID.Reset]. [PID] supports live
// gain tuning through GetParams/SetParam.
package control
