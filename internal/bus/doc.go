// Package bus adapts the MQTT transport to the single-threaded run-time.
//
// Transport handlers run on paho goroutines and must never touch run-time
// state, so the Adapter's handlers only copy each inbound message into a
// bounded inbox. The run-time's bus task drains the inbox with Poll while
// holding the run-time lock and dispatches each message from there.
//
// When the inbox is full the newest message is dropped and counted.
package bus
