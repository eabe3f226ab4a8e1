// Package display presents composed frames.
//
// The run-time only needs Surface. Terminal draws a frame with Unicode
// half blocks so two matrix rows share one text row; Null discards frames
// and is used when no terminal is attached. Open picks one from config.
package display
