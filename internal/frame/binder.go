package frame

import (
	"errors"

	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
)

var (
	// ErrNilFrame is wrapped by the ConfigError returned for a missing frame
	ErrNilFrame = errors.New("frame is nil")
	// ErrUnknownFrameKind is wrapped when a node is not a document, window, or element
	ErrUnknownFrameKind = errors.New("frame is not a document, window, or element")
)

// Validate checks that n can serve as a frame boundary
func Validate(n *Node) error {
	if n == nil {
		return &config.ConfigError{Field: "frame", Value: "<nil>", Reason: "a frame is required", Err: ErrNilFrame}
	}
	switch n.kind {
	case KindDocument, KindWindow, KindElement:
		return nil
	}
	return &config.ConfigError{Field: "frame", Value: n.kind.String(), Reason: "must be document, window, or an element", Err: ErrUnknownFrameKind}
}

// Binder subscribes a session's frame handlers to a frame node
type Binder struct {
	session *dnd.Session
	frame   *Node
	subs    []*Subscription
}

// NewBinder creates an unbound binder for s
func NewBinder(s *dnd.Session) *Binder {
	return &Binder{session: s}
}

// Frame returns the currently bound node, or nil
func (b *Binder) Frame() *Node { return b.frame }

// Bound reports whether frame listeners are attached
func (b *Binder) Bound() bool { return b.frame != nil }

// Bind subscribes dragenter, dragleave and drop on n. An existing binding
// is released first.
func (b *Binder) Bind(n *Node) error {
	if err := Validate(n); err != nil {
		return err
	}
	b.Unbind()

	b.frame = n
	b.subs = append(b.subs,
		n.Listen(dnd.DragEnter, b.session.FrameEnter),
		n.Listen(dnd.DragLeave, b.session.FrameLeave),
		n.Listen(dnd.Drop, b.session.FrameDrop),
	)
	debug.Log(debug.FRAME, "Binder: bound to %s %q", n.kind, n.id)
	return nil
}

// Unbind releases every frame listener
func (b *Binder) Unbind() {
	if b.frame == nil {
		return
	}
	debug.Log(debug.FRAME, "Binder: unbinding %s %q", b.frame.kind, b.frame.id)
	b.subs = releaseAll(b.subs)
	b.frame = nil
}

// Rebind moves the binding to n. If n is the current frame nothing happens.
// Otherwise the old frame is released, the session is reset, and n is bound,
// in that order, so no stale balance survives the swap.
func (b *Binder) Rebind(n *Node) error {
	if n == b.frame && n != nil {
		return nil
	}
	if err := Validate(n); err != nil {
		return err
	}
	b.Unbind()
	b.session.Reset()
	return b.Bind(n)
}
