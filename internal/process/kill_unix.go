//go:build !windows

// Package process terminates browser process trees left by the rasterizer.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// the browser's renderer and GPU children with it. Non-positive pids are
// ignored: -0 would signal the caller's own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors ignored; launcher.Kill runs afterwards as a fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
