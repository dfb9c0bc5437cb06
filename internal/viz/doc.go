// Package viz replays a finished throw in the terminal.
//
// [Canvas] is a Braille dot canvas (2x4 dots per cell). [Model] is a Bubble
// Tea program that advances one recorded sample per tick and draws the
// ground, the trail of the center, the handle and the blade edge next to a
// panel with the current state.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first sample
//	T     - Cycle color themes
//	Q     - Quit
package viz
