// Package frame delivers host drag events to a drag session.
//
// Nodes form the host's element tree (element -> ... -> document -> window).
// Dispatch bubbles an event from its target up through every ancestor, which
// is the behaviour the session's enter/leave counter compensates for. A
// Binder subscribes a session to a frame node; a Guard suppresses default
// drop handling at the window.
package frame

import (
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
)

// Kind identifies what a node stands for
type Kind int

const (
	KindUnknown Kind = iota
	KindElement
	KindDocument
	KindWindow
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindDocument:
		return "document"
	case KindWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Listener handles one dispatched event
type Listener func(ev *dnd.Event)

type listenerEntry struct {
	fn     Listener
	active bool
}

// Node is an event target in the host tree. The zero value has KindUnknown
// and cannot be bound as a frame.
type Node struct {
	kind      Kind
	id        string
	parent    *Node
	children  []*Node
	listeners map[dnd.EventType][]*listenerEntry
}

// NewWindow creates a window node with a single document child
func NewWindow() *Node {
	w := &Node{kind: KindWindow, id: "window"}
	w.adopt(&Node{kind: KindDocument, id: "document"})
	return w
}

func (n *Node) adopt(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Append creates an element child with the given id
func (n *Node) Append(id string) *Node {
	el := &Node{kind: KindElement, id: id}
	n.adopt(el)
	return el
}

// Kind returns the node kind
func (n *Node) Kind() Kind { return n.kind }

// ID returns the node id
func (n *Node) ID() string { return n.id }

// Parent returns the parent node, or nil at the window
func (n *Node) Parent() *Node { return n.parent }

// Window walks up to the root window node. It returns nil for detached nodes.
func (n *Node) Window() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.kind == KindWindow {
			return cur
		}
	}
	return nil
}

// Document returns the document node below the window
func (n *Node) Document() *Node {
	w := n.Window()
	if w == nil {
		return nil
	}
	for _, c := range w.children {
		if c.kind == KindDocument {
			return c
		}
	}
	return nil
}

// Find searches n's subtree, n included, for an element with the given id
func (n *Node) Find(id string) *Node {
	if n.kind == KindElement && n.id == id {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether other is n or one of its descendants
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Listen registers fn for events of type typ reaching n. The returned
// Subscription must be released to detach it.
func (n *Node) Listen(typ dnd.EventType, fn Listener) *Subscription {
	if n.listeners == nil {
		n.listeners = make(map[dnd.EventType][]*listenerEntry)
	}
	e := &listenerEntry{fn: fn, active: true}
	n.listeners[typ] = append(n.listeners[typ], e)
	return &Subscription{node: n, typ: typ, entry: e}
}

// ListenerCount returns the number of live listeners for typ
func (n *Node) ListenerCount(typ dnd.EventType) int {
	return len(n.listeners[typ])
}

func (n *Node) remove(typ dnd.EventType, e *listenerEntry) {
	list := n.listeners[typ]
	for i, cur := range list {
		if cur == e {
			n.listeners[typ] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(n.listeners[typ]) == 0 {
		delete(n.listeners, typ)
	}
}

// Dispatch delivers ev to n and then to each ancestor until propagation is
// stopped. Listeners added during dispatch see the next event; listeners
// released during dispatch are skipped immediately.
func (n *Node) Dispatch(ev *dnd.Event) {
	debug.Log(debug.FRAME, "Dispatch %s at %s %q", ev.Type, n.kind, n.id)
	for cur := n; cur != nil; cur = cur.parent {
		list := cur.listeners[ev.Type]
		snapshot := make([]*listenerEntry, len(list))
		copy(snapshot, list)
		for _, e := range snapshot {
			if e.active {
				e.fn(ev)
			}
		}
		if ev.PropagationStopped() {
			return
		}
	}
}

// Subscription is a scoped listener registration
type Subscription struct {
	node  *Node
	typ   dnd.EventType
	entry *listenerEntry
}

// Release detaches the listener. Releasing twice is a no-op.
func (s *Subscription) Release() {
	if s == nil || !s.entry.active {
		return
	}
	s.entry.active = false
	s.node.remove(s.typ, s.entry)
}

// Active reports whether the listener is still attached
func (s *Subscription) Active() bool {
	return s != nil && s.entry.active
}

// releaseAll releases every subscription in subs and returns an empty slice
func releaseAll(subs []*Subscription) []*Subscription {
	for _, s := range subs {
		s.Release()
	}
	return subs[:0]
}
