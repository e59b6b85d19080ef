package frame

import (
	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
)

// Guard stops the host from opening or navigating to files dragged or
// dropped anywhere in the window. It ignores session state entirely.
type Guard struct {
	window *Node
	subs   []*Subscription
}

// NewGuard attaches to the window that owns n
func NewGuard(n *Node) (*Guard, error) {
	if err := Validate(n); err != nil {
		return nil, err
	}
	w := n.Window()
	if w == nil {
		return nil, &config.ConfigError{Field: "frame", Value: n.id, Reason: "node is not attached to a window", Err: ErrUnknownFrameKind}
	}

	prevent := func(ev *dnd.Event) { ev.PreventDefault() }
	g := &Guard{window: w}
	g.subs = append(g.subs,
		w.Listen(dnd.DragOver, prevent),
		w.Listen(dnd.Drop, prevent),
	)
	debug.Log(debug.FRAME, "Guard: attached to window")
	return g, nil
}

// Release detaches the guard. Safe to call more than once.
func (g *Guard) Release() {
	if len(g.subs) == 0 {
		return
	}
	g.subs = releaseAll(g.subs)
	debug.Log(debug.FRAME, "Guard: released")
}
