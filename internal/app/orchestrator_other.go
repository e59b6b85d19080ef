//go:build !windows

package app

// handlePlatformEvent is a no-op where native drops are not wired
func (o *Orchestrator) handlePlatformEvent(e any) bool {
	return false
}
