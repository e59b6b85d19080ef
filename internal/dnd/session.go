// Package dnd tracks drag-and-drop state over a frame and an inner target.
//
// Hosts deliver native drag events to a Session: frame-level enter, leave
// and drop from the frame boundary, and drag-over, leave and drop from the
// target. The Session keeps a bubbling-compensated enter/leave balance,
// classifies target drags against an accept pattern, suppresses drops the
// pattern rejects, and fires callbacks synchronously inside each handler.
//
// A Session is not safe for concurrent use; drive it from the host's event loop.
package dnd

import (
	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/debug"
)

// Callbacks are the optional hooks a Session fires. Nil hooks are skipped.
type Callbacks struct {
	OnDrop           func(files FileList, ev *Event)
	OnDragOver       func(ev *Event)
	OnDragLeave      func(ev *Event)
	OnFrameDragEnter func(ev *Event)
	OnFrameDragLeave func(ev *Event)
	OnFrameDrop      func(ev *Event)

	// OnStateChange fires after any transition that changed State
	OnStateChange func(old, new State)
}

// Session is the drag state machine for one mounted drop zone
type Session struct {
	counter    Counter
	state      State
	pattern    accept.Pattern
	dropEffect DropEffect
	cb         Callbacks
}

// NewSession creates an idle session. An invalid drop effect falls back to copy;
// callers that need strict validation check DropEffect.Valid first.
func NewSession(pattern accept.Pattern, effect DropEffect, cb Callbacks) *Session {
	if !effect.Valid() {
		effect = DropCopy
	}
	return &Session{pattern: pattern, dropEffect: effect, cb: cb}
}

// State returns the current state value
func (s *Session) State() State { return s.state }

// Phase returns the current four-state phase
func (s *Session) Phase() Phase { return s.state.Phase() }

// Balance returns the frame enter/leave balance
func (s *Session) Balance() int { return s.counter.Balance() }

// Pattern returns the accept pattern in use
func (s *Session) Pattern() accept.Pattern { return s.pattern }

// SetPattern swaps the accept pattern. Takes effect on the next drag-over.
func (s *Session) SetPattern(p accept.Pattern) { s.pattern = p }

// DropEffect returns the hint written onto the transfer during drag-over
func (s *Session) DropEffect() DropEffect { return s.dropEffect }

// SetDropEffect swaps the drag-over hint. Invalid values are ignored.
func (s *Session) SetDropEffect(e DropEffect) {
	if e.Valid() {
		s.dropEffect = e
	}
}

// SetCallbacks replaces the callback set
func (s *Session) SetCallbacks(cb Callbacks) { s.cb = cb }

// Reset returns the session to Idle with a zero balance. Calling it
// repeatedly is harmless.
func (s *Session) Reset() {
	s.counter.Reset()
	s.set(State{})
}

func (s *Session) set(next State) {
	old := s.state
	if old == next {
		return
	}
	s.state = next
	debug.Log(debug.DND, "Session: %s -> %s (balance=%d)", old.Phase(), next.Phase(), s.counter.Balance())
	if s.cb.OnStateChange != nil {
		s.cb.OnStateChange(old, next)
	}
}

// FrameEnter handles a dragenter bubbled to the frame
func (s *Session) FrameEnter(ev *Event) {
	if !s.counter.Enter() {
		return
	}
	s.set(s.state.EnterFrame())
	if s.cb.OnFrameDragEnter != nil {
		s.cb.OnFrameDragEnter(ev)
	}
}

// FrameLeave handles a dragleave bubbled to the frame
func (s *Session) FrameLeave(ev *Event) {
	if !s.counter.Leave() {
		return
	}
	if s.cb.OnFrameDragLeave != nil {
		s.cb.OnFrameDragLeave(ev)
	}
	s.set(s.state.LeaveFrame())
}

// FrameDrop handles a drop that reached the frame. The session always resets;
// OnFrameDrop fires only when the drop landed outside a classified target.
func (s *Session) FrameDrop(ev *Event) {
	wasOverTarget := s.state.OverTarget()
	s.Reset()
	if wasOverTarget {
		debug.Log(debug.DND, "Session: frame drop owned by target, OnFrameDrop skipped")
		return
	}
	if s.cb.OnFrameDrop != nil {
		s.cb.OnFrameDrop(ev)
	}
}

// TargetOver handles a dragover on the inner target. It runs on every tick.
func (s *Session) TargetOver(ev *Event) {
	ev.PreventDefault()
	ev.StopPropagation()
	if ev.Transfer != nil {
		ev.Transfer.DropEffect = s.dropEffect
	}

	debug.Log(debug.DND_OVER, "Session: dragover effectAllowed=%q items=%d", ev.effectAllowed(), len(ev.items()))
	s.set(Classify(s.state, ev.items(), ev.effectAllowed(), s.pattern))

	if s.cb.OnDragOver != nil {
		s.cb.OnDragOver(ev)
	}
}

// TargetLeave handles an explicit dragleave of the inner target
func (s *Session) TargetLeave(ev *Event) {
	s.set(s.state.LeaveTarget())
	if s.cb.OnDragLeave != nil {
		s.cb.OnDragLeave(ev)
	}
}

// TargetDrop handles a drop on the inner target. A rejected payload is
// swallowed: no OnDrop and no files. The frame-level reset still follows
// when the event bubbles on to the frame.
func (s *Session) TargetDrop(ev *Event) {
	ev.PreventDefault()
	if s.state.TargetReject {
		debug.Log(debug.DND, "Session: drop suppressed, pattern %q rejected payload", s.pattern.String())
		return
	}
	if s.cb.OnDrop != nil {
		s.cb.OnDrop(ev.files(), ev)
	}
}
