//go:build !windows

// Package process terminates browser process trees left behind by Chrome.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, which
// reaches Chrome's renderer and GPU helpers. Errors are ignored; the
// launcher's own kill runs afterwards.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
