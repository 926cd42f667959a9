// Package outbox provides the per-connection outbound message queue.
//
// A Queue is unbounded: Send never blocks, so a slow socket only grows its
// own backlog and never stalls the registry or other connections. Items are
// delivered in the order they were sent. Close stops new sends while letting
// the receiver drain what is already queued.
package outbox
