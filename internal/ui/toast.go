package ui

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// ToastType is the severity of a toast
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a short-lived message about the last drop. Workers post toasts
// from their own goroutines, so it carries a mutex.
type Toast struct {
	mu        sync.Mutex
	message   string
	kind      ToastType
	expiresAt time.Time
}

const toastDuration = 3 * time.Second

// ShowToast displays a message until it expires
func (r *Renderer) ShowToast(message string, kind ToastType) {
	r.toast.mu.Lock()
	defer r.toast.mu.Unlock()
	r.toast.message = message
	r.toast.kind = kind
	r.toast.expiresAt = time.Now().Add(toastDuration)
}

// ShowError shows an error toast
func (r *Renderer) ShowError(message string) {
	r.ShowToast(message, ToastError)
}

func (t *Toast) current(now time.Time) (string, ToastType, time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.message == "" || now.After(t.expiresAt) {
		return "", 0, time.Time{}, false
	}
	return t.message, t.kind, t.expiresAt, true
}

func toastColors(kind ToastType) (bg, fg color.NRGBA) {
	switch kind {
	case ToastError:
		return color.NRGBA{R: 200, G: 50, B: 50, A: 240}, colWhite
	case ToastWarning:
		return color.NRGBA{R: 220, G: 160, B: 40, A: 240}, color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	case ToastSuccess:
		return color.NRGBA{R: 50, G: 160, B: 80, A: 240}, colWhite
	}
	return color.NRGBA{R: 60, G: 60, B: 60, A: 240}, colWhite
}

// layoutToast draws the toast above the source strip
func (r *Renderer) layoutToast(gtx layout.Context) layout.Dimensions {
	message, kind, expiresAt, ok := r.toast.current(time.Now())
	if !ok {
		return layout.Dimensions{}
	}
	gtx.Execute(op.InvalidateCmd{At: expiresAt})
	bg, fg := toastColors(kind)

	bottom := unit.Dp(20)
	if r.geom.Sources.Dy() > 0 {
		bottom = unit.Dp(float32(r.geom.Sources.Dy())/gtx.Metric.PxPerDp) + 12
	}
	return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Bottom: bottom, Left: unit.Dp(20), Right: unit.Dp(20)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(unit.Dp(500)))

			macro := op.Record(gtx.Ops)
			dims := layout.Inset{Top: 12, Bottom: 12, Left: 16, Right: 16}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				label := material.Body1(r.Theme, message)
				label.Color = fg
				return label.Layout(gtx)
			})
			call := macro.Stop()

			rr := gtx.Dp(unit.Dp(8))
			paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
			call.Add(gtx.Ops)
			return dims
		})
	})
}
