//go:build windows

package app

import "os/exec"

// platformOpen hands the file to the shell's default handler.
func platformOpen(path string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
}
