// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package tool

import "syscall"

// detached starts children in a new process group so Ctrl-C reaches doctool
// only.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
