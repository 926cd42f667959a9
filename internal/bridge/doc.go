// Package bridge delivers commands and chat to named sessions.
//
// Sessions are tmux targets running a game server console. A command is
// typed into the console with `tmux send-keys`; chat is wrapped in a
// tellraw command whose JSON text component is built from sanitized input.
// Delivery is fire-and-forget: only launch failures are reported.
// Each call starts its own tmux client, so two calls made back to back for
// the same session may reach it in either order.
package bridge
