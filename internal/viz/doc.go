// Package viz hosts the oscillator in the terminal with Bubble Tea.
//
// The host side of the driver boundaries lives here:
//
//   - [CanvasPainter]: draws the spring or pendulum on a braille [Canvas]
//   - [ChartPanel]: asciigraph charts whose value ranges ease toward their
//     targets with a harmonica spring
//   - a frame scheduler built on tea.Tick
//
// # Key Bindings
//
//	Space - Start/Pause
//	R     - Reset to t = 0
//	M     - Switch between spring and pendulum
//	Tab   - Select the next parameter
//	↑/↓   - Nudge the selected parameter
//	E     - Type a value for the selected parameter
//	P     - Toggle the phase portrait
//	T     - Cycle color themes
//
// The mass (or bob) can be dragged with the mouse; dragging pauses the
// animation and moves it to the matching phase.
package viz
