package dispatch

import (
	"context"

	"github.com/rickgao/servctl/internal/health"
)

// Command keywords.
const (
	KeywordMsg       = "MSG"
	KeywordCmd       = "CMD"
	KeywordRestart   = "RESTART"
	KeywordShell     = "SHELL"
	KeywordCheck     = "CHECK"
	KeywordHeartbeat = "HEARTBEAT"
	KeywordPing      = "PING"
)

// Keywords lists every recognized keyword.
var Keywords = []string{
	KeywordMsg,
	KeywordCmd,
	KeywordRestart,
	KeywordShell,
	KeywordCheck,
	KeywordHeartbeat,
	KeywordPing,
}

// IsKeyword reports whether s is a recognized keyword.
func IsKeyword(s string) bool {
	for _, k := range Keywords {
		if k == s {
			return true
		}
	}
	return false
}

// Literal responses.
const (
	RespInvalidCommand  = "invalid command"
	RespRestarting      = "restarting..."
	RespRestartFailed   = "failed to execute restart script"
	RespNoRestartScript = "no restart script found"
)

// SessionBridge delivers commands and chat to named sessions.
// Calls must not wait for the session to act on the input.
type SessionBridge interface {
	SendCommand(session, command string) error
	SendChat(session, text string) error
}

// Launcher runs local programs.
type Launcher interface {
	// Run waits for the program; a nonzero exit is an error.
	Run(ctx context.Context, name string, args ...string) error
	// Start launches the program and returns immediately.
	Start(name string, args ...string) error
}

// HealthSource produces a freshly sampled snapshot.
type HealthSource interface {
	Refresh(ctx context.Context) health.Snapshot
}

// Config is the read-only dispatcher configuration.
type Config struct {
	Sessions         []string // ordered session names for MSG broadcast
	RestartScript    string   // empty when not configured
	DisabledCommands []string
}
