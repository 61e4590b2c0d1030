// Package viz provides the terminal dashboard used by the watch command.
//
// The dashboard is a Bubble Tea program that steps a simulation once per
// tick, scaling dt by the measured tick length when randomized stepping is
// enabled, and shows:
//
//   - counters: steps completed, previous interval, simulated time and the
//     sizes of the active, collided and escaped partitions
//   - the active bodies, with ids in their own colours
//   - the latest collision and escape events
//   - an energy chart and an active-count sparkline
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	Q     - Quit
package viz
