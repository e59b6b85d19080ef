package dnd

import (
	"github.com/justyntemme/filedrop/internal/accept"
)

// EventType names a host drag event
type EventType string

const (
	DragEnter EventType = "dragenter"
	DragLeave EventType = "dragleave"
	DragOver  EventType = "dragover"
	Drop      EventType = "drop"
)

// Effect-allowed values reported by hosts. Only EffectAll and
// EffectUninitialized indicate an external file drag.
const (
	EffectAll           = "all"
	EffectUninitialized = "uninitialized"
	EffectCopyMove      = "copyMove"
	EffectMove          = "move"
	EffectNone          = "none"
)

// DropEffect is the feedback hint written onto the transfer during drag-over
type DropEffect string

const (
	DropCopy DropEffect = "copy"
	DropMove DropEffect = "move"
	DropLink DropEffect = "link"
	DropNone DropEffect = "none"
)

// Valid reports whether e is one of the four known drop effects
func (e DropEffect) Valid() bool {
	switch e {
	case DropCopy, DropMove, DropLink, DropNone:
		return true
	}
	return false
}

// File is one realized file delivered at drop time
type File struct {
	Path string
	Name string
	Type string
	Size int64
}

// FileList is the realized set of dropped files
type FileList []File

// Items converts the list into accept descriptors
func (fl FileList) Items() []accept.Item {
	items := make([]accept.Item, len(fl))
	for i, f := range fl {
		items[i] = accept.Item{Name: f.Name, Type: f.Type}
	}
	return items
}

// Transfer carries the drag payload as the host reports it
type Transfer struct {
	EffectAllowed string
	DropEffect    DropEffect
	Items         []accept.Item
	Files         FileList // populated only on drop
}

// Event is a single host drag event. Handlers mark it rather than
// returning values so the host can act on the flags after dispatch.
type Event struct {
	Type     EventType
	Transfer *Transfer

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event with an attached transfer
func NewEvent(typ EventType, t *Transfer) *Event {
	if t == nil {
		t = &Transfer{}
	}
	return &Event{Type: typ, Transfer: t}
}

// PreventDefault asks the host to skip its default action (e.g. opening a dropped file)
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation halts bubbling to ancestor nodes
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called
func (e *Event) PropagationStopped() bool { return e.stopped }

func (e *Event) items() []accept.Item {
	if e == nil || e.Transfer == nil {
		return nil
	}
	return e.Transfer.Items
}

func (e *Event) effectAllowed() string {
	if e == nil || e.Transfer == nil {
		return ""
	}
	return e.Transfer.EffectAllowed
}

func (e *Event) files() FileList {
	if e == nil || e.Transfer == nil {
		return nil
	}
	return e.Transfer.Files
}
