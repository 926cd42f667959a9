// Package connection implements the per-connection lifecycle.
//
// Each accepted websocket moves CONNECTING -> OPEN -> CLOSED:
//   - OPEN: a fresh identity is minted, an outbox is created and a forwarder
//     goroutine drains it to the socket, and the identity is registered
//   - while OPEN, text frames are read one at a time and handed to the
//     dispatcher; a response goes back to the same identity only
//   - CLOSED: on read error or close frame the identity is removed, which
//     closes the outbox so the forwarder drains and exits
//
// Transport errors are logged and tear down only the affected connection.
package connection
