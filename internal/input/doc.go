// Package input reads the physical buttons.
//
// Keys is polled by the run-time's button task. GPIO delivers edge events
// from the kernel on its own goroutine and parks the latest press in a
// single slot; a press that is not polled before the next one is lost.
package input
