// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package tool

import "syscall"

// detached starts children in their own process group so a terminal
// interrupt reaches doctool only.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
