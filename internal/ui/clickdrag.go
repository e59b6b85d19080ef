package ui

import (
	"io"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// Draggable is a drag source that also reports plain clicks. gesture.Drag
// only grabs the pointer after a few dp of movement, so a press that never
// moves is still a click.
type Draggable struct {
	// Type is the MIME type offered to drop targets
	Type string

	click gesture.Click
	drag  gesture.Drag

	clickPos f32.Point
	dragPos  f32.Point // relative to clickPos

	pid         pointer.ID
	dragStarted bool
}

// Dragging reports whether a drag is in progress
func (d *Draggable) Dragging() bool {
	return d.drag.Dragging()
}

// Pressed reports whether a pointer is pressing the source
func (d *Draggable) Pressed() bool {
	return d.drag.Pressed()
}

// Requested reports whether a drop target asked for the payload.
// Call it after Layout and answer with Offer.
func (d *Draggable) Requested(gtx layout.Context) (mime string, ok bool) {
	for {
		ev, ok := gtx.Event(transfer.SourceFilter{Target: d, Type: d.Type})
		if !ok {
			break
		}
		if e, ok := ev.(transfer.RequestEvent); ok {
			return e.Type, true
		}
	}
	return "", false
}

// Offer hands data to the target that requested it
func (d *Draggable) Offer(gtx layout.Context, mime string, data io.ReadCloser) {
	gtx.Execute(transfer.OfferCmd{Tag: d, Type: mime, Data: data})
}

// Layout draws w and, while dragging, the shadow widget under the pointer.
// It reports whether the source was clicked without being dragged.
func (d *Draggable) Layout(gtx layout.Context, w, shadow layout.Widget) (layout.Dimensions, bool) {
	if !gtx.Enabled() {
		return w(gtx), false
	}

	clicked := false
	for {
		e, ok := d.click.Update(gtx.Source)
		if !ok {
			break
		}
		switch e.Kind {
		case gesture.KindClick:
			if !d.dragStarted {
				clicked = true
			}
		case gesture.KindCancel:
			d.dragStarted = false
		}
	}

	for {
		e, ok := d.drag.Update(gtx.Metric, gtx.Source, gesture.Both)
		if !ok {
			break
		}
		switch e.Kind {
		case pointer.Press:
			d.clickPos = e.Position
			d.dragPos = f32.Point{}
			d.pid = e.PointerID
			d.dragStarted = false
		case pointer.Drag:
			if e.PointerID == d.pid {
				d.dragStarted = true
				d.dragPos = e.Position.Sub(d.clickPos)
			}
		case pointer.Release, pointer.Cancel:
			d.dragStarted = false
		}
	}

	dims := w(gtx)

	defer clip.Rect{Max: dims.Size}.Push(gtx.Ops).Pop()
	d.click.Add(gtx.Ops)
	d.drag.Add(gtx.Ops)
	event.Op(gtx.Ops, d)

	if shadow != nil && d.drag.Pressed() && d.dragStarted {
		rec := op.Record(gtx.Ops)
		op.Offset(d.dragPos.Round()).Add(gtx.Ops)
		shadow(gtx)
		op.Defer(gtx.Ops, rec.Stop())
	}

	return dims, clicked
}
