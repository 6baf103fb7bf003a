//go:build unix

package client

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the simulator in its own process group so that
// cancellation kills every process it spawned
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
