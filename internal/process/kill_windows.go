//go:build windows

// Package process terminates browser process trees left by the rasterizer.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its descendants with taskkill /T.
// Non-positive pids are ignored.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors ignored; launcher.Kill runs afterwards as a fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
