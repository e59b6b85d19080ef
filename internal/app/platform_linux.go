//go:build !darwin && !windows

package app

import "os/exec"

// platformOpen opens the file with the desktop's default application.
func platformOpen(path string) error {
	if _, err := exec.LookPath("xdg-open"); err == nil {
		return exec.Command("xdg-open", path).Start()
	}
	// GNOME without xdg-utils
	return exec.Command("gio", "open", path).Start()
}
