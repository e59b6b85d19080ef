package frame

import (
	"errors"
	"testing"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/dnd"
)

func TestDispatchBubbles(t *testing.T) {
	w := NewWindow()
	doc := w.Document()
	outer := doc.Append("outer")
	inner := outer.Append("inner")

	var order []string
	for _, n := range []*Node{w, doc, outer, inner} {
		id := n.ID()
		n.Listen(dnd.DragEnter, func(ev *dnd.Event) { order = append(order, id) })
	}

	inner.Dispatch(dnd.NewEvent(dnd.DragEnter, nil))

	expected := []string{"inner", "outer", "document", "window"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("position %d: expected %q, got %q", i, expected[i], order[i])
		}
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	w := NewWindow()
	el := w.Document().Append("el")

	reached := false
	w.Listen(dnd.DragOver, func(ev *dnd.Event) { reached = true })
	el.Listen(dnd.DragOver, func(ev *dnd.Event) { ev.StopPropagation() })

	el.Dispatch(dnd.NewEvent(dnd.DragOver, nil))
	if reached {
		t.Error("event reached window after StopPropagation")
	}
}

func TestSubscriptionRelease(t *testing.T) {
	w := NewWindow()
	calls := 0
	sub := w.Listen(dnd.Drop, func(ev *dnd.Event) { calls++ })

	w.Dispatch(dnd.NewEvent(dnd.Drop, nil))
	sub.Release()
	sub.Release()
	w.Dispatch(dnd.NewEvent(dnd.Drop, nil))

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if sub.Active() {
		t.Error("subscription still active after Release")
	}
	if w.ListenerCount(dnd.Drop) != 0 {
		t.Errorf("expected no listeners, got %d", w.ListenerCount(dnd.Drop))
	}
}

func TestReleaseDuringDispatchSkipsListener(t *testing.T) {
	w := NewWindow()
	var second *Subscription
	secondCalled := false

	w.Listen(dnd.Drop, func(ev *dnd.Event) { second.Release() })
	second = w.Listen(dnd.Drop, func(ev *dnd.Event) { secondCalled = true })

	w.Dispatch(dnd.NewEvent(dnd.Drop, nil))
	if secondCalled {
		t.Error("listener released mid-dispatch still ran")
	}
}

func TestFindAndContains(t *testing.T) {
	w := NewWindow()
	a := w.Document().Append("a")
	b := a.Append("b")

	if w.Find("b") != b {
		t.Error("Find(b) did not return nested element")
	}
	if w.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
	if !a.Contains(b) || b.Contains(a) {
		t.Error("Contains relationship wrong")
	}
	if b.Window() != w || b.Document() != w.Document() {
		t.Error("Window/Document lookup wrong")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		node     *Node
		sentinel error
	}{
		{"nil", nil, ErrNilFrame},
		{"zero node", &Node{}, ErrUnknownFrameKind},
		{"window", NewWindow(), nil},
		{"document", NewWindow().Document(), nil},
		{"element", NewWindow().Document().Append("x"), nil},
	}

	for _, tc := range testCases {
		err := Validate(tc.node)
		if tc.sentinel == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.sentinel) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.sentinel, err)
		}
		var cerr *config.ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%s: expected *config.ConfigError, got %T", tc.name, err)
		}
	}
}

func TestBinderCountsBubbledEnters(t *testing.T) {
	w := NewWindow()
	doc := w.Document()
	a := doc.Append("a")
	b := a.Append("b")
	c := b.Append("c")

	enters, leaves := 0, 0
	s := dnd.NewSession(accept.Parse(""), dnd.DropCopy, dnd.Callbacks{
		OnFrameDragEnter: func(ev *dnd.Event) { enters++ },
		OnFrameDragLeave: func(ev *dnd.Event) { leaves++ },
	})
	binder := NewBinder(s)
	if err := binder.Bind(doc); err != nil {
		t.Fatal(err)
	}

	// Pointer crosses a, b, c; each reports one enter that bubbles to the frame
	for _, n := range []*Node{a, b, c} {
		n.Dispatch(dnd.NewEvent(dnd.DragEnter, nil))
	}
	if s.Balance() != 3 {
		t.Fatalf("expected balance 3, got %d", s.Balance())
	}
	for _, n := range []*Node{c, b, a} {
		n.Dispatch(dnd.NewEvent(dnd.DragLeave, nil))
	}

	if enters != 1 || leaves != 1 {
		t.Errorf("expected one enter and one leave, got %d and %d", enters, leaves)
	}
	if s.Phase() != dnd.Idle {
		t.Errorf("expected Idle, got %s", s.Phase())
	}
}

func TestBinderRebindMidDrag(t *testing.T) {
	w := NewWindow()
	doc := w.Document()
	oldFrame := doc.Append("old")
	oldChild := oldFrame.Append("old-child")
	newFrame := doc.Append("new")

	leaves := 0
	s := dnd.NewSession(accept.Parse(""), dnd.DropCopy, dnd.Callbacks{
		OnFrameDragLeave: func(ev *dnd.Event) { leaves++ },
	})
	binder := NewBinder(s)
	if err := binder.Bind(oldFrame); err != nil {
		t.Fatal(err)
	}

	oldFrame.Dispatch(dnd.NewEvent(dnd.DragEnter, nil))
	oldChild.Dispatch(dnd.NewEvent(dnd.DragEnter, nil))
	if s.Balance() != 2 {
		t.Fatalf("expected balance 2, got %d", s.Balance())
	}

	if err := binder.Rebind(newFrame); err != nil {
		t.Fatalf("Rebind: %v", err)
	}
	if s.Balance() != 0 || s.Phase() != dnd.Idle {
		t.Errorf("expected Idle/0 after rebind, got %s/%d", s.Phase(), s.Balance())
	}

	// Pending leaves on the old frame no longer reach the session
	oldChild.Dispatch(dnd.NewEvent(dnd.DragLeave, nil))
	oldFrame.Dispatch(dnd.NewEvent(dnd.DragLeave, nil))
	if leaves != 0 {
		t.Errorf("stale leave fired %d times", leaves)
	}
	if oldFrame.ListenerCount(dnd.DragEnter) != 0 {
		t.Error("old frame still has listeners")
	}
	if binder.Frame() != newFrame {
		t.Error("binder not bound to new frame")
	}
}

func TestBinderRebindSameFrameKeepsState(t *testing.T) {
	doc := NewWindow().Document()
	s := dnd.NewSession(accept.Parse(""), dnd.DropCopy, dnd.Callbacks{})
	binder := NewBinder(s)
	if err := binder.Bind(doc); err != nil {
		t.Fatal(err)
	}
	doc.Dispatch(dnd.NewEvent(dnd.DragEnter, nil))

	if err := binder.Rebind(doc); err != nil {
		t.Fatal(err)
	}
	if s.Balance() != 1 {
		t.Errorf("same-identity rebind should not reset, balance %d", s.Balance())
	}
	if doc.ListenerCount(dnd.DragEnter) != 1 {
		t.Errorf("expected a single enter listener, got %d", doc.ListenerCount(dnd.DragEnter))
	}
}

func TestBinderRebindInvalidKeepsBinding(t *testing.T) {
	doc := NewWindow().Document()
	s := dnd.NewSession(accept.Parse(""), dnd.DropCopy, dnd.Callbacks{})
	binder := NewBinder(s)
	if err := binder.Bind(doc); err != nil {
		t.Fatal(err)
	}

	if err := binder.Rebind(&Node{}); !errors.Is(err, ErrUnknownFrameKind) {
		t.Errorf("expected ErrUnknownFrameKind, got %v", err)
	}
	if binder.Frame() != doc {
		t.Error("invalid rebind dropped the existing binding")
	}
}

func TestGuardPreventsDefaultEverywhere(t *testing.T) {
	w := NewWindow()
	frame := w.Document().Append("frame")
	outside := w.Document().Append("outside")

	g, err := NewGuard(frame)
	if err != nil {
		t.Fatal(err)
	}

	over := dnd.NewEvent(dnd.DragOver, nil)
	outside.Dispatch(over)
	drop := dnd.NewEvent(dnd.Drop, nil)
	outside.Dispatch(drop)
	if !over.DefaultPrevented() || !drop.DefaultPrevented() {
		t.Error("guard did not prevent default outside the frame")
	}

	g.Release()
	g.Release()
	after := dnd.NewEvent(dnd.Drop, nil)
	outside.Dispatch(after)
	if after.DefaultPrevented() {
		t.Error("released guard still prevents default")
	}
}

func TestGuardDetachedNode(t *testing.T) {
	detached := (&Node{kind: KindElement, id: "loose"})
	if _, err := NewGuard(detached); err == nil {
		t.Error("expected error for node without a window")
	}
}
