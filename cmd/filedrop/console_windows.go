//go:build windows

package main

import (
	"syscall"
)

// manageConsole detaches from the console window unless debugging or
// running a headless mode that prints to it.
func manageConsole(keep bool) {
	if keep {
		return
	}
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	freeConsole := kernel32.NewProc("FreeConsole")
	freeConsole.Call()
}
