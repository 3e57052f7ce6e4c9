// Package viz is the terminal host: a Bubble Tea program that draws the
// balloons on a braille canvas through the same perspective camera as the
// window host.
//
// # Key Bindings
//
//	Enter - Start (acquire media, open audio)
//	Space - Add a balloon
//	Click - Add a balloon
//	?     - Show help overlay
//	Q     - Quit
//
// Before start the session is idle and the view shows only the start
// prompt. A failed acquisition switches to the sky backdrop; a failed
// microphone leaves tapping as the only way to spawn.
package viz
