package ui

import (
	"io"
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
)

// acceptPresets are the patterns offered in the header
var acceptPresets = []struct {
	Label   string
	Pattern string
}{
	{"Anything", ""},
	{"Images", "image/*"},
	{"Text", "text/*,.md"},
	{"PDF", "application/pdf,.pdf"},
}

type Renderer struct {
	Theme   *material.Theme
	Bridge  *Bridge
	Sources []*Source
	Debug   bool

	geom     Geometry
	areaTags [numAreas]int

	presetBtns  []widget.Clickable
	visibleBtn  widget.Clickable
	clearBtn    widget.Clickable
	dismissBtn  widget.Clickable
	journalList layout.List
	rowClicks   map[string]*widget.Clickable

	toast Toast
}

// NewRenderer creates a renderer that feeds drag signals into bridge
func NewRenderer(bridge *Bridge, sources []*Source) *Renderer {
	r := &Renderer{
		Theme:      material.NewTheme(),
		Bridge:     bridge,
		Sources:    sources,
		presetBtns: make([]widget.Clickable, len(acceptPresets)),
		rowClicks:  make(map[string]*widget.Clickable),
	}
	r.journalList.Axis = layout.Vertical
	for _, s := range sources {
		s.drag.Type = DragMIME
	}
	return r
}

// Geometry returns the regions computed for the last frame
func (r *Renderer) Geometry() Geometry {
	return r.geom
}

func (r *Renderer) tag(a Area) event.Tag {
	return &r.areaTags[a]
}

func (r *Renderer) Layout(gtx layout.Context, state *State) UIEvent {
	size := gtx.Constraints.Max
	r.geom = computeGeometry(size, gtx.Dp(unit.Dp(8)))
	r.Bridge.SetBounds(AreaWindow, r.geom.Window)
	r.Bridge.SetBounds(AreaFrame, r.geom.Frame)
	// Native drops arrive without hover, so the target keeps its bounds
	// even while it is not drawn
	r.Bridge.SetBounds(AreaTarget, r.geom.Target)

	// Events are delivered against the previous frame's areas
	r.processAreaEvents(gtx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, colBackground)
	event.Op(gtx.Ops, r.tag(AreaWindow))

	var out UIEvent
	r.layoutHeader(gtx, state, &out)
	r.layoutFrame(gtx, state)
	r.layoutJournal(gtx, state, &out)
	r.layoutSources(gtx)
	r.layoutToast(gtx)

	if r.Debug && out.Action != ActionNone {
		debug.Log(debug.UI, "Layout: action=%d path=%q accept=%q", out.Action, out.Path, out.Accept)
	}
	return out
}

type areaEvent struct {
	area Area
	ev   event.Event
}

// processAreaEvents drains pointer and transfer events for the three areas.
// Gio cancels every candidate target right after delivering data to one of
// them, so cancels are applied after all drops in the batch.
func (r *Renderer) processAreaEvents(gtx layout.Context) {
	var batch []areaEvent
	for a := AreaWindow; a < numAreas; a++ {
		tag := r.tag(a)
		for {
			ev, ok := gtx.Event(
				pointer.Filter{Target: tag, Kinds: pointer.Enter | pointer.Leave | pointer.Move | pointer.Drag},
				transfer.TargetFilter{Target: tag, Type: DragMIME},
			)
			if !ok {
				break
			}
			batch = append(batch, areaEvent{area: a, ev: ev})
		}
	}

	cancelled := false
	for _, ae := range batch {
		switch e := ae.ev.(type) {
		case pointer.Event:
			switch e.Kind {
			case pointer.Enter:
				r.Bridge.Hover(ae.area, true)
			case pointer.Leave:
				r.Bridge.Hover(ae.area, false)
			case pointer.Move, pointer.Drag:
				r.Bridge.Move(ae.area)
			}
		case transfer.InitiateEvent:
			effect, items := r.dragPayload()
			r.Bridge.Initiate(effect, items)
		case transfer.DataEvent:
			r.Bridge.Drop(ae.area, r.readDrop(e))
		case transfer.CancelEvent:
			cancelled = true
		}
	}
	if cancelled {
		r.Bridge.Cancel()
	}
}

// dragPayload describes the source being dragged
func (r *Renderer) dragPayload() (string, []accept.Item) {
	for _, s := range r.Sources {
		if s.drag.Pressed() {
			return s.EffectAllowed, []accept.Item{s.Item()}
		}
	}
	return dnd.EffectUninitialized, nil
}

func (r *Renderer) readDrop(e transfer.DataEvent) dnd.FileList {
	rc := e.Open()
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		debug.Log(debug.UI, "readDrop: %v", err)
		return nil
	}

	var files dnd.FileList
	for _, p := range strings.Split(string(data), "\n") {
		if p == "" {
			continue
		}
		if s := r.source(p); s != nil {
			files = append(files, s.File())
			continue
		}
		it := accept.ItemForPath(p)
		files = append(files, dnd.File{Path: p, Name: it.Name, Type: it.Type})
	}
	return files
}

func (r *Renderer) source(path string) *Source {
	for _, s := range r.Sources {
		if s.Path == path {
			return s
		}
	}
	return nil
}
