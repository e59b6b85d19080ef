package ui

import (
	"image"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/frame"
)

// Area is a region of the window that maps to a host node
type Area int

const (
	AreaWindow Area = iota
	AreaFrame
	AreaTarget
	numAreas
)

func (a Area) String() string {
	switch a {
	case AreaWindow:
		return "window"
	case AreaFrame:
		return "frame"
	case AreaTarget:
		return "target"
	}
	return "unknown"
}

// Bridge turns Gio pointer and transfer signals into drag events on frame
// nodes. Gio reports hover per area and announces a transfer once with an
// InitiateEvent; the bridge remembers which areas the pointer is in so it can
// emit the dragenter events a browser would have sent when the drag began.
//
// A Bridge is driven from the UI goroutine only.
type Bridge struct {
	nodes   [numAreas]*frame.Node
	bounds  [numAreas]image.Rectangle
	hovered [numAreas]bool

	dragging      bool
	effectAllowed string
	items         []accept.Item
}

// NewBridge maps the window, frame and target areas onto nodes. The window
// area normally maps to the document node so events bubble to the window.
func NewBridge(window, frameNode, target *frame.Node) *Bridge {
	b := &Bridge{}
	b.nodes[AreaWindow] = window
	b.nodes[AreaFrame] = frameNode
	b.nodes[AreaTarget] = target
	return b
}

// Node returns the node behind an area
func (b *Bridge) Node(a Area) *frame.Node {
	if a < 0 || a >= numAreas {
		return nil
	}
	return b.nodes[a]
}

// SetBounds records where an area was last drawn, in window coordinates
func (b *Bridge) SetBounds(a Area, r image.Rectangle) {
	if a < 0 || a >= numAreas {
		return
	}
	b.bounds[a] = r
}

// NodeAt returns the innermost node whose area contains pt. Points outside
// every recorded area resolve to the window area's node.
func (b *Bridge) NodeAt(pt image.Point) *frame.Node {
	for a := numAreas - 1; a > AreaWindow; a-- {
		if b.nodes[a] != nil && pt.In(b.bounds[a]) {
			return b.nodes[a]
		}
	}
	return b.nodes[AreaWindow]
}

// Dragging reports whether a transfer is in progress
func (b *Bridge) Dragging() bool {
	return b.dragging
}

// Hovered reports whether the pointer is inside an area
func (b *Bridge) Hovered(a Area) bool {
	if a < 0 || a >= numAreas {
		return false
	}
	return b.hovered[a]
}

// Initiate starts a transfer. Areas already under the pointer receive
// dragenter, outermost first. Repeated calls during one transfer are ignored
// because Gio sends InitiateEvent to every candidate target.
func (b *Bridge) Initiate(effectAllowed string, items []accept.Item) {
	if b.dragging {
		return
	}
	if effectAllowed == "" {
		effectAllowed = dnd.EffectUninitialized
	}
	b.dragging = true
	b.effectAllowed = effectAllowed
	b.items = append([]accept.Item(nil), items...)
	debug.Log(debug.UI, "Bridge: initiate effect=%s items=%d", effectAllowed, len(items))

	for a := AreaWindow; a < numAreas; a++ {
		if b.hovered[a] {
			b.enter(a)
		}
	}
}

// Hover records a pointer enter or leave. During a transfer it dispatches
// dragenter or dragleave at the area's node.
func (b *Bridge) Hover(a Area, inside bool) {
	if a < 0 || a >= numAreas || b.hovered[a] == inside {
		return
	}
	b.hovered[a] = inside
	if !b.dragging {
		return
	}
	if inside {
		b.enter(a)
		return
	}
	b.dispatch(a, dnd.DragLeave, nil)
}

// Move dispatches dragover at an area the pointer is in
func (b *Bridge) Move(a Area) {
	if !b.dragging || !b.Hovered(a) {
		return
	}
	b.dispatch(a, dnd.DragOver, nil)
}

// Drop dispatches drop with files at the area and ends the transfer.
// It returns nil when no transfer is active.
func (b *Bridge) Drop(a Area, files dnd.FileList) *dnd.Event {
	if !b.dragging || a < 0 || a >= numAreas {
		return nil
	}
	ev := b.dispatch(a, dnd.Drop, files)
	b.end()
	return ev
}

// Cancel ends a transfer that was not dropped. Hovered areas receive
// dragleave, innermost first.
func (b *Bridge) Cancel() {
	if !b.dragging {
		return
	}
	for a := numAreas - 1; a >= AreaWindow; a-- {
		if b.hovered[a] {
			b.dispatch(a, dnd.DragLeave, nil)
		}
	}
	b.end()
}

func (b *Bridge) enter(a Area) {
	b.dispatch(a, dnd.DragEnter, nil)
	if a == AreaTarget {
		// dragover follows dragenter immediately so the target classifies
		// even if the pointer stops moving
		b.dispatch(a, dnd.DragOver, nil)
	}
}

func (b *Bridge) end() {
	b.dragging = false
	b.effectAllowed = ""
	b.items = nil
}

func (b *Bridge) dispatch(a Area, typ dnd.EventType, files dnd.FileList) *dnd.Event {
	n := b.nodes[a]
	if n == nil {
		return nil
	}
	ev := dnd.NewEvent(typ, &dnd.Transfer{
		EffectAllowed: b.effectAllowed,
		Items:         b.items,
		Files:         files,
	})
	if typ != dnd.DragOver {
		debug.Log(debug.UI_EVENT, "Bridge: %s at %s", typ, a)
	}
	n.Dispatch(ev)
	return ev
}
