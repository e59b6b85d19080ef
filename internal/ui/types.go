package ui

import (
	"path"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/dnd"
)

type UIAction int

// DragMIME is the MIME type for in-window drag-and-drop transfers.
// The payload is newline-separated source paths.
const DragMIME = "application/x-filedrop-paths"

const (
	ActionNone UIAction = iota
	ActionSetAccept
	ActionOpen
	ActionClearJournal
	ActionDismissError
	ActionToggleTargetVisible
)

type UIEvent struct {
	Action UIAction
	Path   string
	Accept string
}

// State is everything the renderer needs for one frame
type State struct {
	Phase         dnd.Phase
	Balance       int
	AcceptType    string
	DropEffect    string
	FrameLabel    string
	TargetVisible bool
	AlwaysVisible bool
	Journal       []JournalRow
	ConfigError   string
}

// JournalRow is one recorded drop as displayed
type JournalRow struct {
	ID      string
	When    string
	Outcome string
	Summary string
	Path    string // first dropped path, empty when nothing can be opened
}

// Source is an in-window drag source standing in for a dragged file
type Source struct {
	Name          string
	Type          string
	Path          string
	Size          int64
	EffectAllowed string

	drag Draggable
}

// NewSource creates a drag source. An empty typ is derived from the name.
func NewSource(name, typ string, size int64, effectAllowed string) *Source {
	if typ == "" {
		typ = accept.ItemForPath(name).Type
	}
	if effectAllowed == "" {
		effectAllowed = dnd.EffectAll
	}
	return &Source{
		Name:          name,
		Type:          typ,
		Path:          path.Join("sample", name),
		Size:          size,
		EffectAllowed: effectAllowed,
	}
}

// Item is the descriptor the source exposes while dragged
func (s *Source) Item() accept.Item {
	return accept.Item{Name: s.Name, Type: s.Type}
}

// File is the realized file the source delivers on drop
func (s *Source) File() dnd.File {
	return dnd.File{Path: s.Path, Name: s.Name, Type: s.Type, Size: s.Size}
}

// DefaultSources returns the sample sources shown along the bottom of the
// window. The last one behaves like a text selection dragged within a page.
func DefaultSources() []*Source {
	return []*Source{
		NewSource("photo.png", "", 48213, ""),
		NewSource("notes.txt", "", 912, ""),
		NewSource("report.pdf", "", 1_204_551, ""),
		NewSource("archive.tar.gz", "application/gzip", 8_310_004, ""),
		NewSource("selection", "text/plain", 64, dnd.EffectCopyMove),
	}
}
