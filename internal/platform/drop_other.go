//go:build !windows || arm64

package platform

// DropHandler is called when files are dropped from an external source.
// x and y are window client coordinates of the drop point.
type DropHandler func(paths []string, x, y int)

// Supported reports whether native external drops are wired on this platform
func Supported() bool { return false }

// SetDropHandler sets the callback for external file drops (no-op on this platform)
func SetDropHandler(handler DropHandler) {}

// SetupExternalDrop configures external file drop handling (no-op on this platform)
func SetupExternalDrop(viewPtr uintptr) {}
