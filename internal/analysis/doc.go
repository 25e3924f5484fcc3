// Package analysis provides post-run diagnostics over snapshot traces.
//
// The package characterizes a completed run without re-running it:
//
//   - [PowerSpectrum]: magnitude spectrum of one sampled channel
//   - [DominantPeriod]: strongest oscillation period, e.g. the
//     charge/discharge cadence of the battery
//   - [Portrait]: 2D scatter of one channel against another, which
//     renders the hysteresis loop of the mode selector
//
// # Cycle Detection
//
// A hybrid source that oscillates between charging and discharging
// shows up as a sharp peak in the state-of-charge spectrum:
//
//	period, ok := analysis.DominantPeriod(socSeries, cfg.Dt)
//	if ok {
//	    // One full charge/discharge cycle takes period seconds.
//	}
package analysis
