package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExec_RunSuccess(t *testing.T) {
	e := NewExec(nil)

	if err := e.Run(context.Background(), "sh", "-c", "exit 0"); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
}

func TestExec_RunNonzeroExit(t *testing.T) {
	e := NewExec(nil)

	err := e.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("Run() error = nil, want exit error")
	}
	if !IsExitError(err) {
		t.Errorf("IsExitError(%v) = false, want true", err)
	}
}

func TestExec_RunMissingProgram(t *testing.T) {
	e := NewExec(nil)

	err := e.Run(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Run() error = nil, want start error")
	}
	if IsExitError(err) {
		t.Errorf("IsExitError(%v) = true, want false", err)
	}
}

func TestExec_EmptyCommand(t *testing.T) {
	e := NewExec(nil)

	if err := e.Run(context.Background(), ""); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Run(\"\") error = %v, want ErrEmptyCommand", err)
	}
	if err := e.Start(""); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Start(\"\") error = %v, want ErrEmptyCommand", err)
	}
}

func TestExec_StartDoesNotWait(t *testing.T) {
	e := NewExec(nil)
	marker := filepath.Join(t.TempDir(), "done")

	start := time.Now()
	if err := e.Start("sh", "-c", "sleep 0.2; touch "+marker); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Start() blocked for %v", elapsed)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("detached process never ran to completion")
}

func TestExec_StartIgnoresExitStatus(t *testing.T) {
	e := NewExec(nil)

	if err := e.Start("sh", "-c", "exit 7"); err != nil {
		t.Errorf("Start() error = %v, want nil", err)
	}
}
