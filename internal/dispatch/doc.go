// Package dispatch implements the operator command protocol.
//
// Each inbound text frame is split on its first space into a keyword and an
// argument tail. Keywords are matched exactly:
//
//	MSG <text>             broadcast chat to every configured session
//	CMD <target> <command> send a raw console command to one session
//	RESTART                run the restart script and report its status
//	SHELL <prog> [args...] launch a program without waiting for it
//	CHECK                  render a fresh health snapshot
//	HEARTBEAT              "true" if any health threshold is exceeded
//	PING                   "PONG <unix millis>"
//
// Unknown keywords, and keywords disabled by policy, produce no response.
package dispatch
