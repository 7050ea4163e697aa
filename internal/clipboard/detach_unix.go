//go:build !windows

package clipboard

import "syscall"

// detachAttrs starts the clear timer in its own session so it never holds
// or re-acquires the invoking shell's controlling terminal.
func detachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
