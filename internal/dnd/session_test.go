package dnd

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justyntemme/filedrop/internal/accept"
)

// recorder collects callback invocations in order
type recorder struct {
	calls []string
	files FileList
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnDrop: func(files FileList, ev *Event) {
			r.calls = append(r.calls, "drop")
			r.files = files
		},
		OnDragOver:       func(ev *Event) { r.calls = append(r.calls, "dragover") },
		OnDragLeave:      func(ev *Event) { r.calls = append(r.calls, "dragleave") },
		OnFrameDragEnter: func(ev *Event) { r.calls = append(r.calls, "frameenter") },
		OnFrameDragLeave: func(ev *Event) { r.calls = append(r.calls, "frameleave") },
		OnFrameDrop:      func(ev *Event) { r.calls = append(r.calls, "framedrop") },
	}
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func fileDrag(items ...accept.Item) *Event {
	return NewEvent(DragOver, &Transfer{EffectAllowed: EffectAll, Items: items})
}

func dropWith(files ...File) *Event {
	return NewEvent(Drop, &Transfer{EffectAllowed: EffectAll, Files: files})
}

func TestCounterTransitions(t *testing.T) {
	var c Counter

	steps := []struct {
		enter      bool
		transition bool
		balance    int
	}{
		{true, true, 1},
		{true, false, 2},
		{true, false, 3},
		{false, false, 2},
		{false, false, 1},
		{false, true, 0},
		{false, false, 0}, // unmatched leave is ignored
		{true, true, 1},
	}

	for i, st := range steps {
		var got bool
		if st.enter {
			got = c.Enter()
		} else {
			got = c.Leave()
		}
		if got != st.transition {
			t.Errorf("step %d: expected transition %v, got %v", i, st.transition, got)
		}
		if c.Balance() != st.balance {
			t.Errorf("step %d: expected balance %d, got %d", i, st.balance, c.Balance())
		}
		if c.Over() != (c.Balance() > 0) {
			t.Errorf("step %d: Over() disagrees with balance %d", i, c.Balance())
		}
	}
}

func TestSessionOverFrameTracksBalance(t *testing.T) {
	// Pseudo-random but well-formed enter/leave sequences
	sequences := [][]bool{
		{true, false},
		{true, true, false, false},
		{true, true, true, false, true, false, false, false},
		{true, false, true, false, true, true, false, false},
	}

	for i, seq := range sequences {
		s := NewSession(accept.Parse(""), DropCopy, Callbacks{})
		for j, enter := range seq {
			if enter {
				s.FrameEnter(NewEvent(DragEnter, nil))
			} else {
				s.FrameLeave(NewEvent(DragLeave, nil))
			}
			if s.Balance() < 0 {
				t.Fatalf("seq %d step %d: negative balance %d", i, j, s.Balance())
			}
			if s.State().OverFrame != (s.Balance() > 0) {
				t.Errorf("seq %d step %d: OverFrame=%v with balance %d", i, j, s.State().OverFrame, s.Balance())
			}
		}
		if s.Phase() != Idle {
			t.Errorf("seq %d: expected Idle at end, got %s", i, s.Phase())
		}
	}
}

func TestNestedEnterLeaveFiresOnce(t *testing.T) {
	rec := &recorder{}
	s := NewSession(accept.Parse(""), DropCopy, rec.callbacks())

	for i := 0; i < 3; i++ {
		s.FrameEnter(NewEvent(DragEnter, nil))
	}
	if s.Balance() != 3 {
		t.Fatalf("expected balance 3, got %d", s.Balance())
	}
	for i := 0; i < 3; i++ {
		s.FrameLeave(NewEvent(DragLeave, nil))
	}

	want := []string{"frameenter", "frameleave"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
	if s.Phase() != Idle {
		t.Errorf("expected Idle, got %s", s.Phase())
	}
}

func TestAcceptedDropDeliversFiles(t *testing.T) {
	rec := &recorder{}
	s := NewSession(accept.Parse("image/*"), DropCopy, rec.callbacks())

	s.FrameEnter(NewEvent(DragEnter, nil))
	over := fileDrag(accept.Item{Type: "image/png"})
	s.TargetOver(over)

	if s.Phase() != OverFrameAccept {
		t.Fatalf("expected %s, got %s", OverFrameAccept, s.Phase())
	}
	if !over.DefaultPrevented() || !over.PropagationStopped() {
		t.Error("dragover should prevent default and stop propagation")
	}
	if over.Transfer.DropEffect != DropCopy {
		t.Errorf("expected drop effect %q, got %q", DropCopy, over.Transfer.DropEffect)
	}

	files := []File{{Path: "/tmp/a.png", Name: "a.png", Type: "image/png", Size: 10}}
	drop := dropWith(files...)
	s.TargetDrop(drop)
	s.FrameDrop(drop)

	want := []string{"frameenter", "dragover", "drop"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(FileList(files), rec.files); diff != "" {
		t.Errorf("delivered files mismatch (-want +got):\n%s", diff)
	}
	if s.Phase() != Idle || s.Balance() != 0 {
		t.Errorf("expected Idle/0 after drop, got %s/%d", s.Phase(), s.Balance())
	}
}

func TestRejectedDropIsSuppressed(t *testing.T) {
	rec := &recorder{}
	s := NewSession(accept.Parse("image/*"), DropCopy, rec.callbacks())

	s.FrameEnter(NewEvent(DragEnter, nil))
	s.TargetOver(fileDrag(accept.Item{Type: "text/plain"}))
	if s.Phase() != OverFrameReject {
		t.Fatalf("expected %s, got %s", OverFrameReject, s.Phase())
	}

	drop := dropWith(File{Name: "a.txt", Type: "text/plain"})
	s.TargetDrop(drop)
	s.FrameDrop(drop)

	if rec.count("drop") != 0 {
		t.Error("OnDrop fired for a rejected payload")
	}
	if rec.count("framedrop") != 0 {
		t.Error("OnFrameDrop fired although the drop was over the target")
	}
	if !drop.DefaultPrevented() {
		t.Error("suppressed drop should still prevent default")
	}
	if s.Phase() != Idle {
		t.Errorf("expected Idle, got %s", s.Phase())
	}
}

func TestFrameDropOutsideTarget(t *testing.T) {
	rec := &recorder{}
	s := NewSession(accept.Parse(""), DropCopy, rec.callbacks())

	s.FrameEnter(NewEvent(DragEnter, nil))
	s.FrameEnter(NewEvent(DragEnter, nil))
	s.FrameDrop(NewEvent(Drop, nil))

	if rec.count("framedrop") != 1 {
		t.Errorf("expected one OnFrameDrop, got %d", rec.count("framedrop"))
	}
	if s.Balance() != 0 || s.Phase() != Idle {
		t.Errorf("expected reset to Idle/0, got %s/%d", s.Phase(), s.Balance())
	}
}

func TestTargetLeaveKeepsFrame(t *testing.T) {
	rec := &recorder{}
	s := NewSession(accept.Parse("image/*"), DropMove, rec.callbacks())

	s.FrameEnter(NewEvent(DragEnter, nil))
	s.TargetOver(fileDrag(accept.Item{Type: "image/gif"}))
	s.TargetLeave(NewEvent(DragLeave, nil))

	if s.Phase() != OverFrame {
		t.Errorf("expected %s, got %s", OverFrame, s.Phase())
	}
	if rec.count("dragleave") != 1 {
		t.Errorf("expected one OnDragLeave, got %d", rec.count("dragleave"))
	}
}

func TestInPageDragLeavesClassification(t *testing.T) {
	s := NewSession(accept.Parse("image/*"), DropCopy, Callbacks{})
	s.FrameEnter(NewEvent(DragEnter, nil))

	s.TargetOver(NewEvent(DragOver, &Transfer{EffectAllowed: EffectMove, Items: []accept.Item{{Type: "text/plain"}}}))
	if s.Phase() != OverFrame {
		t.Fatalf("in-page drag should not classify, got %s", s.Phase())
	}

	s.TargetOver(fileDrag(accept.Item{Type: "image/png"}))
	s.TargetOver(NewEvent(DragOver, &Transfer{EffectAllowed: EffectCopyMove}))
	if s.Phase() != OverFrameAccept {
		t.Errorf("non-qualifying tick should keep prior accept, got %s", s.Phase())
	}
}

func TestReclassifyEveryTick(t *testing.T) {
	s := NewSession(accept.Parse("image/*"), DropCopy, Callbacks{})
	s.FrameEnter(NewEvent(DragEnter, nil))

	s.TargetOver(fileDrag(accept.Item{Type: "image/png"}))
	s.TargetOver(fileDrag(accept.Item{Type: "text/plain"}))
	if s.Phase() != OverFrameReject {
		t.Errorf("expected %s, got %s", OverFrameReject, s.Phase())
	}
	st := s.State()
	if st.TargetAccept && st.TargetReject {
		t.Error("accept and reject both set")
	}
}

func TestTargetOverOutsideFrameStaysIdle(t *testing.T) {
	s := NewSession(accept.Parse(""), DropCopy, Callbacks{})
	s.TargetOver(fileDrag())
	if s.State() != (State{}) {
		t.Errorf("expected zero state outside frame, got %+v", s.State())
	}
}

func TestResetIdempotent(t *testing.T) {
	changes := 0
	s := NewSession(accept.Parse(""), DropCopy, Callbacks{
		OnStateChange: func(old, new State) { changes++ },
	})
	s.FrameEnter(NewEvent(DragEnter, nil))
	s.FrameEnter(NewEvent(DragEnter, nil))

	s.Reset()
	first, firstBalance := s.State(), s.Balance()
	s.Reset()

	if s.State() != first || s.Balance() != firstBalance {
		t.Errorf("second Reset changed state: %+v/%d -> %+v/%d", first, firstBalance, s.State(), s.Balance())
	}
	if first != (State{}) || firstBalance != 0 {
		t.Errorf("expected Idle/0 after Reset, got %+v/%d", first, firstBalance)
	}
	if changes != 2 {
		t.Errorf("expected 2 state changes (enter, reset), got %d", changes)
	}
}

func TestDropEffectValidation(t *testing.T) {
	s := NewSession(accept.Parse(""), DropEffect("teleport"), Callbacks{})
	if s.DropEffect() != DropCopy {
		t.Errorf("invalid effect should fall back to copy, got %q", s.DropEffect())
	}
	s.SetDropEffect(DropLink)
	s.SetDropEffect(DropEffect("bogus"))
	if s.DropEffect() != DropLink {
		t.Errorf("expected %q, got %q", DropLink, s.DropEffect())
	}
}

func TestPhaseString(t *testing.T) {
	testCases := []struct {
		state    State
		expected string
	}{
		{State{}, "idle"},
		{State{OverFrame: true}, "over-frame"},
		{State{OverFrame: true, TargetAccept: true}, "over-frame-accept"},
		{State{OverFrame: true, TargetReject: true}, "over-frame-reject"},
	}

	for _, tc := range testCases {
		result := tc.state.Phase().String()
		if result != tc.expected {
			t.Errorf("State(%+v).Phase(): expected %q, got %q", tc.state, tc.expected, result)
		}
	}
}
