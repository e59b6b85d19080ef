// Package dropzone mounts a drag session on a frame and an inner target.
package dropzone

import (
	"fmt"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/frame"
)

// Options configure a Zone
type Options struct {
	Frame               *frame.Node // required: document, window, or element
	AcceptType          string
	DropEffect          dnd.DropEffect // zero value means copy
	TargetAlwaysVisible bool
}

func (o Options) effect() dnd.DropEffect {
	if o.DropEffect == "" {
		return dnd.DropCopy
	}
	return o.DropEffect
}

// Validate checks the options without mounting anything
func (o Options) Validate() error {
	if err := frame.Validate(o.Frame); err != nil {
		return err
	}
	if !o.effect().Valid() {
		return &config.ConfigError{Field: "dropEffect", Value: string(o.DropEffect), Reason: "must be copy, move, link, or none"}
	}
	return nil
}

// OptionsFromConfig resolves zone settings against a host tree rooted at window
func OptionsFromConfig(zc config.ZoneConfig, window *frame.Node) (Options, error) {
	kind, id, err := config.ParseFrame(zc.Frame)
	if err != nil {
		return Options{}, err
	}
	var n *frame.Node
	switch kind {
	case config.FrameWindow:
		n = window.Window()
	case config.FrameDocument:
		n = window.Document()
	case config.FrameElement:
		n = window.Find(id)
		if n == nil {
			return Options{}, &config.ConfigError{Field: "zone.frame", Value: zc.Frame, Reason: "no element with that id"}
		}
	}
	opts := Options{
		Frame:               n,
		AcceptType:          zc.AcceptType,
		DropEffect:          dnd.DropEffect(zc.DropEffect),
		TargetAlwaysVisible: zc.TargetAlwaysVisible,
	}
	return opts, opts.Validate()
}

// Zone is one mounted drop zone: a session bound to its frame, listening on
// its target, with a guard on the window.
type Zone struct {
	opts    Options
	target  *frame.Node
	session *dnd.Session
	binder  *frame.Binder
	guard   *frame.Guard
	subs    []*frame.Subscription
	mounted bool
}

// Mount validates opts, resets a fresh session, and attaches every listener.
func Mount(opts Options, target *frame.Node, cb dnd.Callbacks) (*Zone, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, &config.ConfigError{Field: "target", Value: "<nil>", Reason: "a target node is required", Err: frame.ErrNilFrame}
	}

	z := &Zone{
		opts:    opts,
		target:  target,
		session: dnd.NewSession(accept.Parse(opts.AcceptType), opts.effect(), cb),
	}
	z.binder = frame.NewBinder(z.session)
	if err := z.binder.Bind(opts.Frame); err != nil {
		return nil, err
	}
	guard, err := frame.NewGuard(opts.Frame)
	if err != nil {
		z.binder.Unbind()
		return nil, fmt.Errorf("attach guard: %w", err)
	}
	z.guard = guard

	z.subs = append(z.subs,
		target.Listen(dnd.DragOver, z.session.TargetOver),
		target.Listen(dnd.DragLeave, z.session.TargetLeave),
		target.Listen(dnd.Drop, z.session.TargetDrop),
	)
	z.session.Reset()
	z.mounted = true
	debug.Log(debug.APP, "Zone: mounted frame=%s target=%q accept=%q", opts.Frame.Kind(), target.ID(), opts.AcceptType)
	return z, nil
}

// State returns the current drag state for the renderer
func (z *Zone) State() dnd.State { return z.session.State() }

// Phase returns the current four-state phase
func (z *Zone) Phase() dnd.Phase { return z.session.Phase() }

// Balance returns the frame enter/leave balance
func (z *Zone) Balance() int { return z.session.Balance() }

// Options returns the options in force
func (z *Zone) Options() Options { return z.opts }

// Target returns the inner target node
func (z *Zone) Target() *frame.Node { return z.target }

// TargetVisible reports whether the renderer should expose the target region
func (z *Zone) TargetVisible() bool {
	return z.opts.TargetAlwaysVisible || z.session.State().OverFrame
}

// Mounted reports whether the zone still holds subscriptions
func (z *Zone) Mounted() bool { return z.mounted }

// SetCallbacks replaces the callback set
func (z *Zone) SetCallbacks(cb dnd.Callbacks) { z.session.SetCallbacks(cb) }

// SetFrame moves the zone to a new frame. Same identity is a no-op;
// otherwise the old frame is released and the session reset before binding.
func (z *Zone) SetFrame(n *frame.Node) error {
	if !z.mounted {
		return fmt.Errorf("zone is unmounted")
	}
	if n == z.opts.Frame {
		return nil
	}
	if err := frame.Validate(n); err != nil {
		return err
	}
	if n.Window() == nil {
		return &config.ConfigError{Field: "frame", Value: n.ID(), Reason: "node is not attached to a window", Err: frame.ErrUnknownFrameKind}
	}
	if err := z.binder.Rebind(n); err != nil {
		return err
	}
	if n.Window() != z.opts.Frame.Window() {
		z.guard.Release()
		guard, err := frame.NewGuard(n)
		if err != nil {
			return fmt.Errorf("attach guard: %w", err)
		}
		z.guard = guard
	}
	z.opts.Frame = n
	return nil
}

// SetOptions applies new options. Accept pattern and drop effect swap in
// place; a different frame goes through SetFrame.
func (z *Zone) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := z.SetFrame(opts.Frame); err != nil {
		return err
	}
	z.session.SetPattern(accept.Parse(opts.AcceptType))
	z.session.SetDropEffect(opts.effect())
	z.opts = opts
	return nil
}

// Unmount releases every subscription. The zone cannot be reused afterwards.
func (z *Zone) Unmount() {
	if !z.mounted {
		return
	}
	z.binder.Unbind()
	z.guard.Release()
	for _, s := range z.subs {
		s.Release()
	}
	z.subs = nil
	z.mounted = false
	debug.Log(debug.APP, "Zone: unmounted")
}
