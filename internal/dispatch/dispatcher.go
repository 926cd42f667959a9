package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Dispatcher executes operator commands.
type Dispatcher struct {
	cfg      Config
	disabled map[string]bool
	bridge   SessionBridge
	launcher Launcher
	health   HealthSource
	logger   *slog.Logger
	now      func() time.Time

	lastPong atomic.Int64
}

// New creates a Dispatcher.
func New(cfg Config, bridge SessionBridge, launcher Launcher, health HealthSource, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	disabled := make(map[string]bool, len(cfg.DisabledCommands))
	for _, k := range cfg.DisabledCommands {
		disabled[k] = true
	}

	return &Dispatcher{
		cfg:      cfg,
		disabled: disabled,
		bridge:   bridge,
		launcher: launcher,
		health:   health,
		logger:   logger,
		now:      time.Now,
	}
}

// Parse splits msg on its first space. ok is false when msg has no space, in
// which case keyword is the whole message and rest is empty.
func Parse(msg string) (keyword, rest string, ok bool) {
	return strings.Cut(msg, " ")
}

// Dispatch executes msg and returns the response, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, msg string) (string, bool) {
	keyword, rest, hasRest := Parse(msg)
	if d.disabled[keyword] {
		return "", false
	}

	switch keyword {
	case KeywordMsg:
		if hasRest {
			d.broadcast(rest)
		}
		return "", false
	case KeywordCmd:
		if !hasRest {
			return RespInvalidCommand, true
		}
		d.command(rest)
		return "", false
	case KeywordRestart:
		return d.restart(ctx), true
	case KeywordShell:
		d.shell(rest)
		return "", false
	case KeywordCheck:
		return d.health.Refresh(ctx).String(), true
	case KeywordHeartbeat:
		return strconv.FormatBool(d.health.Refresh(ctx).Unhealthy()), true
	case KeywordPing:
		return fmt.Sprintf("PONG %d", d.pong()), true
	default:
		return "", false
	}
}

func (d *Dispatcher) broadcast(text string) {
	for _, session := range d.cfg.Sessions {
		if err := d.bridge.SendChat(session, text); err != nil {
			d.logger.Warn("chat delivery failed", "session", session, "error", err)
		}
	}
}

func (d *Dispatcher) command(args string) {
	target, command, ok := strings.Cut(args, " ")
	if !ok {
		return
	}
	d.logger.Info("session command", "session", target, "command", command)
	if err := d.bridge.SendCommand(target, command); err != nil {
		d.logger.Warn("session command failed", "session", target, "error", err)
	}
}

// restart runs the restart script to completion even if the requesting
// connection goes away.
func (d *Dispatcher) restart(ctx context.Context) string {
	if d.cfg.RestartScript == "" {
		return RespNoRestartScript
	}

	d.logger.Info("running restart script", "path", d.cfg.RestartScript)
	err := d.launcher.Run(context.WithoutCancel(ctx), "sh", d.cfg.RestartScript)
	if err != nil {
		d.logger.Warn("restart script failed", "path", d.cfg.RestartScript, "error", err)
		return RespRestartFailed
	}
	return RespRestarting
}

func (d *Dispatcher) shell(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return
	}

	d.logger.Info("shell command", "program", fields[0], "args", len(fields)-1)
	if err := d.launcher.Start(fields[0], fields[1:]...); err != nil {
		d.logger.Warn("shell command failed", "program", fields[0], "error", err)
	}
}

// pong returns the current time in milliseconds, never smaller than a value
// it has already returned.
func (d *Dispatcher) pong() int64 {
	now := d.now().UnixMilli()
	for {
		last := d.lastPong.Load()
		if now <= last {
			return last
		}
		if d.lastPong.CompareAndSwap(last, now) {
			return now
		}
	}
}
