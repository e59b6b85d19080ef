package dnd

import "github.com/justyntemme/filedrop/internal/accept"

// Phase is the coarse drag state a renderer switches on
type Phase int

const (
	Idle Phase = iota
	OverFrame
	OverFrameAccept
	OverFrameReject
)

func (p Phase) String() string {
	switch p {
	case OverFrame:
		return "over-frame"
	case OverFrameAccept:
		return "over-frame-accept"
	case OverFrameReject:
		return "over-frame-reject"
	default:
		return "idle"
	}
}

// State is the renderer-visible drag state. It is a value: transitions
// return a new State and never modify the receiver.
type State struct {
	OverFrame    bool
	TargetAccept bool
	TargetReject bool
}

// Phase derives the four-state view of s
func (s State) Phase() Phase {
	switch {
	case !s.OverFrame:
		return Idle
	case s.TargetAccept:
		return OverFrameAccept
	case s.TargetReject:
		return OverFrameReject
	default:
		return OverFrame
	}
}

// OverTarget reports whether a classified drag sits over the inner target
func (s State) OverTarget() bool {
	return s.TargetAccept || s.TargetReject
}

// EnterFrame is the Idle -> OverFrame transition
func (s State) EnterFrame() State {
	return State{OverFrame: true}
}

// LeaveFrame is the OverFrame* -> Idle transition
func (s State) LeaveFrame() State {
	return State{}
}

// LeaveTarget clears the target sub-state and keeps frame membership
func (s State) LeaveTarget() State {
	return State{OverFrame: s.OverFrame}
}

// Classified sets the target sub-state. Outside the frame it is a no-op.
func (s State) Classified(accepted bool) State {
	if !s.OverFrame {
		return s
	}
	return State{OverFrame: true, TargetAccept: accepted, TargetReject: !accepted}
}

// IsFileDrag reports whether the effect-allowed hint looks like an external
// file drag. In-page drags report other values ("move", "copyMove", ...).
func IsFileDrag(effectAllowed string) bool {
	return effectAllowed == EffectAll || effectAllowed == EffectUninitialized
}

// Classify evaluates a target drag-over. Non-file drags leave s unchanged.
func Classify(s State, items []accept.Item, effectAllowed string, pattern accept.Pattern) State {
	if !IsFileDrag(effectAllowed) {
		return s
	}
	return s.Classified(accept.Matches(items, pattern))
}
