// Package tui implements the live terminal dashboard.
//
// The dashboard drives one simulation in real time using the Bubble Tea
// framework: panes for the stack, the battery and the air supply, a
// scrolling chart for a selectable channel, and sparklines over the
// retained history.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Tab   - Cycle chart channel
//	+/-   - Speed up / slow down
//	0     - Real-time speed
//	R     - Restart the run
//	Q     - Quit
package tui
