package bridge

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptySession is returned when no session name is given.
var ErrEmptySession = errors.New("empty session name")

// Starter launches a program without waiting for it.
type Starter interface {
	Start(name string, args ...string) error
}

// Session maps a session name to its tmux target.
type Session struct {
	Name   string
	Target string // defaults to Name
}

// Config configures the tmux bridge.
type Config struct {
	TmuxPath string
	Sessions []Session
}

// Tmux is a session bridge backed by tmux send-keys.
type Tmux struct {
	path    string
	targets map[string]string
	starter Starter
	logger  *slog.Logger
}

// NewTmux creates a bridge. Sessions not listed in cfg are addressed by
// their name as the tmux target.
func NewTmux(cfg Config, starter Starter, logger *slog.Logger) *Tmux {
	if logger == nil {
		logger = slog.Default()
	}
	path := cfg.TmuxPath
	if path == "" {
		path = "tmux"
	}

	targets := make(map[string]string, len(cfg.Sessions))
	for _, s := range cfg.Sessions {
		target := s.Target
		if target == "" {
			target = s.Name
		}
		targets[s.Name] = target
	}

	return &Tmux{
		path:    path,
		targets: targets,
		starter: starter,
		logger:  logger,
	}
}

// SendCommand types command into session's console followed by Enter.
func (t *Tmux) SendCommand(session, command string) error {
	if session == "" {
		return ErrEmptySession
	}

	target := t.target(session)
	t.logger.Debug("sending session command", "session", session, "target", target, "command", command)

	// One tmux invocation keeps the text and its Enter ordered. -l sends the
	// text literally so words like "Enter" or "C-c" are not read as key names,
	// and "--" stops text starting with '-' from being parsed as flags.
	return t.starter.Start(t.path,
		"send-keys", "-t", target, "-l", "--", escapeSeparator(command), ";",
		"send-keys", "-t", target, "Enter",
	)
}

// escapeSeparator keeps a trailing ';' literal. tmux splits its argument list
// on any argument ending in an unescaped ';'.
func escapeSeparator(arg string) string {
	if strings.HasSuffix(arg, ";") {
		return arg[:len(arg)-1] + `\;`
	}
	return arg
}

// SendChat broadcasts text to every player on session.
func (t *Tmux) SendChat(session, text string) error {
	return t.SendCommand(session, ChatCommand(text))
}

func (t *Tmux) target(session string) string {
	if target, ok := t.targets[session]; ok {
		return target
	}
	return session
}
