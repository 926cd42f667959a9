// Package registry implements the Client Registry.
//
// The registry maps a connection identity to the sending side of that
// connection's outbox. It is shared by every connection task; all access
// goes through one mutex that is held only for the map operation and the
// enqueue, never across network I/O.
package registry
