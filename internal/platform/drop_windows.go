//go:build windows && !arm64

package platform

// Windows drag-and-drop implementation using WM_DROPFILES.
// This uses DragAcceptFiles + window subclassing to receive dropped files.
// Unlike IDropTarget, this doesn't require CGO or external thread callbacks.
// WM_DROPFILES only reports the final drop, so the app synthesizes the
// enter/over/drop sequence for the drag session (see Deliver).

import (
	"sync"
	"syscall"
	"unsafe"

	"github.com/justyntemme/filedrop/internal/debug"
	"golang.org/x/sys/windows"
)

// DropHandler is called when files are dropped from an external source.
// x and y are window client coordinates of the drop point.
type DropHandler func(paths []string, x, y int)

type pendingDrop struct {
	paths []string
	x, y  int
}

var (
	dropHandler DropHandler
	dropMu      sync.Mutex
	pending     []pendingDrop

	// Store for subclassing
	subclassHwnd     uintptr
	subclassCallback uintptr // prevent GC of callback
)

// Supported reports whether native external drops are wired on this platform
func Supported() bool { return true }

// SetDropHandler sets the callback for external file drops. Drops that
// arrived before a handler was set are delivered immediately.
func SetDropHandler(handler DropHandler) {
	debug.Log(debug.PLATFORM, "[Windows DnD] SetDropHandler called, handler=%v", handler != nil)
	dropMu.Lock()
	dropHandler = handler
	queued := pending
	if handler != nil {
		pending = nil
	}
	dropMu.Unlock()

	if handler == nil {
		return
	}
	for _, p := range queued {
		debug.Log(debug.PLATFORM, "[Windows DnD] delivering queued drop of %d files", len(p.paths))
		handler(p.paths, p.x, p.y)
	}
}

// Windows constants for WM_DROPFILES
const (
	WM_DROPFILES = 0x0233
)

// Windows API
var (
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	comctl32 = windows.NewLazySystemDLL("comctl32.dll")

	procDragAcceptFiles   = shell32.NewProc("DragAcceptFiles")
	procDragQueryFileW    = shell32.NewProc("DragQueryFileW")
	procDragQueryPoint    = shell32.NewProc("DragQueryPoint")
	procDragFinish        = shell32.NewProc("DragFinish")
	procSetWindowSubclass = comctl32.NewProc("SetWindowSubclass")
	procDefSubclassProc   = comctl32.NewProc("DefSubclassProc")
)

// Subclass ID for our handler
const dropSubclassID = 1

// point mirrors the Win32 POINT struct
type point struct {
	X, Y int32
}

// dropSubclassProc handles WM_DROPFILES messages
// Signature for SetWindowSubclass: SUBCLASSPROC(HWND, UINT, WPARAM, LPARAM, UINT_PTR uIdSubclass, DWORD_PTR dwRefData)
func dropSubclassProc(hwnd uintptr, msg uint32, wParam, lParam, uIdSubclass, dwRefData uintptr) uintptr {
	if msg == WM_DROPFILES {
		debug.Log(debug.PLATFORM, "[Windows DnD] WM_DROPFILES received! wParam=0x%x", wParam)
		handleDropFiles(wParam)
		return 0
	}

	// Call next handler in subclass chain
	ret, _, _ := procDefSubclassProc.Call(hwnd, uintptr(msg), wParam, lParam)
	return ret
}

// handleDropFiles extracts file paths from HDROP and calls the drop handler
func handleDropFiles(hDrop uintptr) {
	count, _, _ := procDragQueryFileW.Call(hDrop, 0xFFFFFFFF, 0, 0)
	debug.Log(debug.PLATFORM, "[Windows DnD] Drop contains %d files", count)

	if count == 0 {
		procDragFinish.Call(hDrop)
		return
	}

	var pt point
	procDragQueryPoint.Call(hDrop, uintptr(unsafe.Pointer(&pt)))

	var paths []string
	for i := uintptr(0); i < count; i++ {
		size, _, _ := procDragQueryFileW.Call(hDrop, i, 0, 0)
		if size == 0 {
			continue
		}

		buf := make([]uint16, size+1)
		procDragQueryFileW.Call(hDrop, i, uintptr(unsafe.Pointer(&buf[0])), size+1)
		path := windows.UTF16ToString(buf)
		debug.Log(debug.PLATFORM, "[Windows DnD] File[%d]: %s", i, path)
		paths = append(paths, path)
	}

	// Release HDROP
	procDragFinish.Call(hDrop)

	if len(paths) == 0 {
		return
	}

	dropMu.Lock()
	handler := dropHandler
	if handler == nil {
		debug.Log(debug.PLATFORM, "[Windows DnD] No handler, queuing %d files", len(paths))
		pending = append(pending, pendingDrop{paths: paths, x: int(pt.X), y: int(pt.Y)})
	}
	dropMu.Unlock()

	if handler != nil {
		handler(paths, int(pt.X), int(pt.Y))
	}
}

// SetupExternalDrop configures the window to accept external file drops
func SetupExternalDrop(hwnd uintptr) {
	debug.Log(debug.PLATFORM, "[Windows DnD] SetupExternalDrop called with hwnd=0x%x", hwnd)

	if hwnd == 0 || hwnd == subclassHwnd {
		return
	}

	// Enable drag-and-drop for this window
	procDragAcceptFiles.Call(hwnd, 1)

	// Subclass the window using comctl32 SetWindowSubclass (safer than SetWindowLongPtr)
	subclassHwnd = hwnd
	subclassCallback = syscall.NewCallback(dropSubclassProc) // store to prevent GC
	ret, _, err := procSetWindowSubclass.Call(hwnd, subclassCallback, dropSubclassID, 0)
	if ret == 0 {
		debug.Log(debug.PLATFORM, "[Windows DnD] SetWindowSubclass failed: %v", err)
		return
	}
	debug.Log(debug.PLATFORM, "[Windows DnD] Window subclassed with SetWindowSubclass")
}
