// Package realtime implements the topic broadcast engine: a hub that owns
// the connection registry and room directory using the actor pattern (single
// goroutine + command channel, no mutexes), per-connection write goroutines,
// a handshake-gated session loop per client, and a timer-driven synthetic
// task event generator.
//
// Rooms are keyed by normalized "TASKTYPE TEAMID" strings. The hub goroutine
// is the only writer of both indices, so a publish never observes membership
// torn mid-update.
package realtime
