//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so terminal signals sent
// to the service do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
