// Package theme defines the contract between the run-time and a visual
// theme, plus the shared per-tick state the run-time hands to it.
//
// A theme is Inactive until Setup and Active until Teardown. Only one theme
// is active at a time and the run-time never ticks a theme while switching.
// Within a quantum Tick always precedes Render.
//
// Themes receive State by value and entities through EntityReader, so they
// cannot change anything outside themselves. Concrete themes live in the
// themes subpackage; embedding Base provides the no-op defaults and a
// reusable canvas.
package theme
