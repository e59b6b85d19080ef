// Package platform connects native OS file drops to the drag session.
package platform

import (
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/frame"
)

// Deliver replays a native drop on node as the event sequence a browser-style
// host would produce: dragenter, dragover, then drop, all bubbling from node.
// Native hooks that only see the final drop (WM_DROPFILES) go through here so
// the session classifies the payload before the drop is accepted.
// It returns the drop event so callers can inspect DefaultPrevented.
func Deliver(node *frame.Node, files dnd.FileList) *dnd.Event {
	t := &dnd.Transfer{
		EffectAllowed: dnd.EffectAll,
		Items:         files.Items(),
	}
	debug.Log(debug.PLATFORM, "Deliver: %d files at %q", len(files), node.ID())

	node.Dispatch(dnd.NewEvent(dnd.DragEnter, t))
	node.Dispatch(dnd.NewEvent(dnd.DragOver, t))

	t.Files = files
	drop := dnd.NewEvent(dnd.Drop, t)
	node.Dispatch(drop)
	return drop
}
