// Package process launches subprocesses for network-triggered actions.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// ErrEmptyCommand is returned when no program name is given.
var ErrEmptyCommand = errors.New("empty command")

// Exec runs programs on the local host.
type Exec struct {
	logger *slog.Logger
}

// NewExec creates a launcher.
func NewExec(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{logger: logger}
}

// Run starts name and waits for it to exit.
// A nonzero exit is reported as *exec.ExitError; any other error means the
// program could not be started.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	if name == "" {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return fmt.Errorf("start %s: %w", name, err)
	}
	return nil
}

// Start launches name without waiting for it. Output is discarded and the
// exit status is only logged.
func (e *Exec) Start(name string, args ...string) error {
	if name == "" {
		return ErrEmptyCommand
	}

	cmd := exec.Command(name, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		e.logger.Debug("detached process exited", "program", name, "pid", pid, "error", err)
	}()
	return nil
}

// IsExitError reports whether err came from a program that ran and exited nonzero.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
