//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts cmd in its own process group and asks the kernel
// to SIGTERM it when the test binary dies, so an aborted run does not leave
// a dev server holding the port.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
