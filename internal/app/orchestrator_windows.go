//go:build windows

package app

import (
	"gioui.org/app"

	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/platform"
)

// handlePlatformEvent hooks WM_DROPFILES once the window has an HWND
func (o *Orchestrator) handlePlatformEvent(e any) bool {
	switch evt := e.(type) {
	case app.Win32ViewEvent:
		debug.Log(debug.APP, "Win32ViewEvent received: Valid=%v HWND=%d", evt.Valid(), evt.HWND)
		if evt.Valid() {
			platform.SetupExternalDrop(evt.HWND)
		}
		return true
	}
	return false
}
