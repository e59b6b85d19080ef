package ui

import "image"

// Geometry holds the window regions in window coordinates. Layout draws
// from it and native drops hit-test against it, so both agree on where the
// frame and target are.
type Geometry struct {
	Window  image.Rectangle
	Header  image.Rectangle
	Frame   image.Rectangle
	Target  image.Rectangle
	Journal image.Rectangle
	Sources image.Rectangle
}

// computeGeometry splits a window of size into regions. u is the layout unit
// in pixels (8dp at the current scale).
func computeGeometry(size image.Point, u int) Geometry {
	if u < 1 {
		u = 1
	}
	win := image.Rectangle{Max: size}
	g := Geometry{Window: win}

	g.Header = image.Rect(0, 0, size.X, 6*u).Intersect(win)
	g.Sources = image.Rect(0, size.Y-8*u, size.X, size.Y).Intersect(win)

	journalX := size.X * 2 / 3
	g.Journal = image.Rectangle{
		Min: image.Pt(journalX, g.Header.Max.Y),
		Max: image.Pt(size.X, g.Sources.Min.Y),
	}
	if g.Journal.Empty() {
		g.Journal = image.Rectangle{}
	}

	// image.Rect would swap inverted corners; a window too small for a
	// frame must leave it empty
	g.Frame = image.Rectangle{
		Min: image.Pt(u, g.Header.Max.Y+u),
		Max: image.Pt(journalX-u, g.Sources.Min.Y-u),
	}
	if g.Frame.Empty() {
		g.Frame = image.Rectangle{}
		return g
	}

	// target is centred at half the frame size
	w, h := g.Frame.Dx()/2, g.Frame.Dy()/2
	c := g.Frame.Min.Add(image.Pt(g.Frame.Dx()/2, g.Frame.Dy()/2))
	g.Target = image.Rect(c.X-w/2, c.Y-h/2, c.X-w/2+w, c.Y-h/2+h)
	return g
}
