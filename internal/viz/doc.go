// Package viz renders a live force directed layout in the terminal.
//
//   - [Canvas]: braille pixel canvas implementing chart.Canvas, with clipping
//   - [Model]: Bubble Tea model that steps the layout once per frame and
//     draws nodes, edges and a kinetic energy plot
//   - [Theme]: color schemes shared with the SVG exporter
//
// # Key Bindings
//
//	Space - Pause/Resume the layout
//	R     - Reset and reheat
//	N/E   - Add a node or an edge
//	X/D   - Remove a node or an edge
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
