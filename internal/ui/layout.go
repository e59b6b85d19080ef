package ui

import (
	"fmt"
	"image"
	"io"
	"strings"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/filedrop/internal/dnd"
)

// region lays out w with exact constraints at rect, in window coordinates
func region(gtx layout.Context, rect image.Rectangle, w layout.Widget) {
	if rect.Empty() {
		return
	}
	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(rect.Size())
	w(gtx)
}

func (r *Renderer) layoutHeader(gtx layout.Context, state *State, out *UIEvent) {
	for i := range r.presetBtns {
		if r.presetBtns[i].Clicked(gtx) {
			*out = UIEvent{Action: ActionSetAccept, Accept: acceptPresets[i].Pattern}
		}
	}
	if r.visibleBtn.Clicked(gtx) {
		*out = UIEvent{Action: ActionToggleTargetVisible}
	}
	if r.dismissBtn.Clicked(gtx) {
		*out = UIEvent{Action: ActionDismissError}
	}

	region(gtx, r.geom.Header, func(gtx layout.Context) layout.Dimensions {
		bg := colHeader
		if state.ConfigError != "" {
			bg = colTargetNotOK
		}
		paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

		return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			if state.ConfigError != "" {
				return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						lbl := material.Body2(r.Theme, "Config error: "+state.ConfigError)
						lbl.Color = colDanger
						lbl.MaxLines = 2
						return lbl.Layout(gtx)
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return material.Button(r.Theme, &r.dismissBtn, "Dismiss").Layout(gtx)
					}),
				)
			}

			children := []layout.FlexChild{
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body2(r.Theme, "Accept:")
					lbl.Font.Weight = font.Bold
					return layout.Inset{Right: unit.Dp(6)}.Layout(gtx, lbl.Layout)
				}),
			}
			for i := range acceptPresets {
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						btn := material.Button(r.Theme, &r.presetBtns[i], acceptPresets[i].Label)
						btn.TextSize = unit.Sp(12)
						btn.Inset = layout.UniformInset(unit.Dp(6))
						if acceptPresets[i].Pattern != state.AcceptType {
							btn.Background = colGray
						}
						return btn.Layout(gtx)
					})
				}))
			}
			children = append(children,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layout.Dimensions{Size: image.Pt(gtx.Constraints.Min.X, 0)}
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					label := "Target: on hover"
					if state.AlwaysVisible {
						label = "Target: always"
					}
					btn := material.Button(r.Theme, &r.visibleBtn, label)
					btn.TextSize = unit.Sp(12)
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
			)
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
		})
	})
}

// layoutFrame draws the frame and, nested inside it, the target. The target
// area is registered inside the frame's clip so Gio reports both as hovered.
func (r *Renderer) layoutFrame(gtx layout.Context, state *State) {
	fr := r.geom.Frame
	if fr.Empty() {
		return
	}
	off := op.Offset(fr.Min).Push(gtx.Ops)
	cl := clip.Rect{Max: fr.Size()}.Push(gtx.Ops)
	paint.Fill(gtx.Ops, frameFill(state.Phase))
	event.Op(gtx.Ops, r.tag(AreaFrame))

	fgtx := gtx
	fgtx.Constraints = layout.Exact(fr.Size())
	layout.UniformInset(unit.Dp(8)).Layout(fgtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(r.Theme, fmt.Sprintf("frame %s  ·  %s  ·  balance %d", state.FrameLabel, state.Phase, state.Balance))
		lbl.Color = colGray
		return lbl.Layout(gtx)
	})

	if tg := r.geom.Target; state.TargetVisible && !tg.Empty() {
		r.layoutTarget(gtx, state, tg.Sub(fr.Min))
	}

	cl.Pop()
	off.Pop()
}

func (r *Renderer) layoutTarget(gtx layout.Context, state *State, rect image.Rectangle) {
	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()
	size := rect.Size()
	radius := gtx.Dp(unit.Dp(8))
	fill, border := targetFill(state.Phase)

	outline := clip.UniformRRect(image.Rectangle{Max: size}, radius)
	paint.FillShape(gtx.Ops, fill, outline.Op(gtx.Ops))
	paint.FillShape(gtx.Ops, border, clip.Stroke{
		Path:  outline.Path(gtx.Ops),
		Width: float32(gtx.Dp(unit.Dp(2))),
	}.Op())

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, r.tag(AreaTarget))

	msg := "Drop files here"
	switch state.Phase {
	case dnd.OverFrameAccept:
		msg = "Release to drop"
	case dnd.OverFrameReject:
		msg = "These files are not accepted"
	}
	gtx.Constraints = layout.Exact(size)
	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.H6(r.Theme, msg)
				lbl.Color = border
				lbl.Alignment = text.Middle
				return lbl.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				pattern := state.AcceptType
				if pattern == "" {
					pattern = "any type"
				}
				lbl := material.Caption(r.Theme, pattern+"  ·  "+state.DropEffect)
				lbl.Color = colGray
				return lbl.Layout(gtx)
			}),
		)
	})
}

func (r *Renderer) layoutJournal(gtx layout.Context, state *State, out *UIEvent) {
	if r.clearBtn.Clicked(gtx) {
		*out = UIEvent{Action: ActionClearJournal}
	}
	for _, row := range state.Journal {
		if c, ok := r.rowClicks[row.ID]; ok && c.Clicked(gtx) && row.Path != "" {
			*out = UIEvent{Action: ActionOpen, Path: row.Path}
		}
	}

	region(gtx, r.geom.Journal, func(gtx layout.Context) layout.Dimensions {
		paint.FillShape(gtx.Ops, colSidebar, clip.Rect{Max: gtx.Constraints.Max}.Op())
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
						layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
							lbl := material.Body1(r.Theme, "Recent drops")
							lbl.Font.Weight = font.Bold
							return lbl.Layout(gtx)
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							btn := material.Button(r.Theme, &r.clearBtn, "Clear")
							btn.TextSize = unit.Sp(12)
							btn.Inset = layout.UniformInset(unit.Dp(4))
							return btn.Layout(gtx)
						}),
					)
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					if len(state.Journal) == 0 {
						lbl := material.Caption(r.Theme, "Nothing dropped yet")
						lbl.Color = colGray
						return layout.Inset{Top: unit.Dp(8)}.Layout(gtx, lbl.Layout)
					}
					return r.journalList.Layout(gtx, len(state.Journal), func(gtx layout.Context, i int) layout.Dimensions {
						return r.layoutJournalRow(gtx, state.Journal[i])
					})
				}),
			)
		})
	})
}

func (r *Renderer) layoutJournalRow(gtx layout.Context, row JournalRow) layout.Dimensions {
	c, ok := r.rowClicks[row.ID]
	if !ok {
		c = new(widget.Clickable)
		r.rowClicks[row.ID] = c
	}
	return c.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					lbl := material.Caption(r.Theme, row.When+"  "+row.Outcome)
					switch row.Outcome {
					case "delivered":
						lbl.Color = colSuccess
					case "suppressed":
						lbl.Color = colDanger
					default:
						lbl.Color = colGray
					}
					return lbl.Layout(gtx)
				}),
				layout.Rigid(material.Body2(r.Theme, row.Summary).Layout),
			)
		})
	})
}

func (r *Renderer) layoutSources(gtx layout.Context) {
	for _, s := range r.Sources {
		if mime, ok := s.drag.Requested(gtx); ok && mime == DragMIME {
			s.drag.Offer(gtx, mime, io.NopCloser(strings.NewReader(s.Path)))
		}
	}

	region(gtx, r.geom.Sources, func(gtx layout.Context) layout.Dimensions {
		paint.FillShape(gtx.Ops, colHeader, clip.Rect{Max: gtx.Constraints.Max}.Op())
		children := make([]layout.FlexChild, 0, len(r.Sources))
		for _, s := range r.Sources {
			children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					gtx.Constraints.Min = image.Point{}
					chip := func(gtx layout.Context) layout.Dimensions { return r.layoutChip(gtx, s) }
					dims, clicked := s.drag.Layout(gtx, chip, chip)
					if clicked {
						r.ShowToast(fmt.Sprintf("%s  ·  %s  ·  effect %s", s.Name, s.Type, s.EffectAllowed), ToastInfo)
					}
					return dims
				})
			}))
		}
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

func (r *Renderer) layoutChip(gtx layout.Context, s *Source) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.Body2(r.Theme, s.Name).Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Caption(r.Theme, s.Type)
				lbl.Color = colGray
				return lbl.Layout(gtx)
			}),
		)
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(6))
	paint.FillShape(gtx.Ops, colChip, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
	call.Add(gtx.Ops)
	return dims
}
