// Package manager runs the display: it owns the theme list, the entity
// registry wiring and the supervisor that keeps a run-time alive.
//
// A run-time is one instance of the cooperative scheduler. It holds the
// shared state behind a single mutex and runs four tasks in an errgroup:
//
//   - timesync: fetch the time, set the clock, sleep time.interval
//   - buttons: poll the keys, record the pending button
//   - bus: drain the inbox, dispatch entity and remote commands
//   - render: tick the active theme and present the frame
//
// Any task error or panic ends the run-time. The supervisor logs it, waits
// runtime.restart_delay and starts a fresh one with new state. Only
// cancelling the context passed to Run stops the loop.
//
// Remote commands arrive on {app}/{device}/{command}:
//
//	theme   next | <index> | <name>
//	button  <button id>
//	time    ON | OFF
//	date    ON | OFF
//	blank   ON | OFF
package manager
