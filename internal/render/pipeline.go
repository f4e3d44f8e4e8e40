package render

import (
	"bytes"
	"image/color"
	"image/png"

	"SketchDeck/internal/geometry"
	"SketchDeck/internal/state"
)

// ShapePreview is the live geometry of an in-progress line/shape drag.
type ShapePreview struct {
	Line  bool
	Kind  state.ShapeKind
	Start geometry.Point
	End   geometry.Point
	Style Style
}

// Overlay is the ephemeral interaction state painted on top of the
// committed log. Nothing here ever enters the history; the interaction
// controller owns one Overlay per board and the pipeline reads it on
// every repaint.
type Overlay struct {
	// In-progress freehand stroke.
	StrokePoints []geometry.Point
	StrokeColor  color.Color
	StrokeWidth  float64

	// In-progress eraser swipe.
	ErasePoints []geometry.Point
	EraseSize   float64

	// In-progress line/shape drag.
	Shape *ShapePreview

	// Identity being dragged and its live anchor; substituted for the
	// committed coordinates during deferred paint only.
	DragID  string
	DragPos geometry.Point

	// Eraser hover cue, shown only while no gesture is in progress.
	Hover     *geometry.Point
	HoverSize float64

	// Identity to decorate with a dashed highlight box.
	SelectionID string
}

// ResetGesture drops every in-flight gesture field, keeping the
// selection indicator.
func (o *Overlay) ResetGesture() {
	o.StrokePoints = nil
	o.ErasePoints = nil
	o.Shape = nil
	o.DragID = ""
	o.DragPos = geometry.Point{}
	o.Hover = nil
}

var highlightColor = color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}

// Pipeline repaints a surface deterministically from a history log, its
// cursor and the current overlay. It owns the image decode cache.
type Pipeline struct {
	surface Surface
	cache   *ImageCache
}

// NewPipeline wires a pipeline to its surface and decode cache.
func NewPipeline(surface Surface, cache *ImageCache) *Pipeline {
	return &Pipeline{surface: surface, cache: cache}
}

// Surface returns the injected surface.
func (p *Pipeline) Surface() Surface { return p.surface }

// Cache returns the image decode cache.
func (p *Pipeline) Cache() *ImageCache { return p.cache }

// Paint clears the surface and replays the log up to the cursor:
// freehand/line/eraser entries sequentially in log order (earlier
// erasures can be painted back over by later strokes), then one deferred
// paint per surviving Text/Shape/Image identity in first-introduction
// order, then the selection highlight and the overlay.
func (p *Pipeline) Paint(h *state.History, ov *Overlay) {
	p.surface.Clear()

	for i := 0; i <= h.Index(); i++ {
		a := h.At(i)
		if !a.IsVisible() {
			continue
		}
		switch v := a.(type) {
		case *state.Freehand:
			p.surface.Polyline(v.Points, v.StrokeColor, v.StrokeWidth)
		case *state.Line:
			p.surface.Line(v.Start, v.End, v.StrokeColor, v.StrokeWidth)
		case *state.Eraser:
			for _, pt := range v.Points {
				p.surface.Erase(pt, v.Size)
			}
		}
	}

	resolved := h.ResolveLatest(h.Index())
	for _, a := range resolved {
		p.paintEntity(a, ov)
	}

	if ov == nil {
		return
	}

	if ov.SelectionID != "" {
		for _, a := range resolved {
			if a.ActionID() == ov.SelectionID {
				if lo, hi, ok := p.bounds(a, ov); ok {
					pad := geometry.Pt(4, 4)
					p.surface.DashedRect(lo.Sub(pad), hi.Add(pad), highlightColor)
				}
				break
			}
		}
	}

	if len(ov.StrokePoints) > 0 {
		p.surface.Polyline(ov.StrokePoints, ov.StrokeColor, ov.StrokeWidth)
	}
	for _, pt := range ov.ErasePoints {
		p.surface.Erase(pt, ov.EraseSize)
	}
	if sp := ov.Shape; sp != nil {
		if sp.Line {
			p.surface.Line(sp.Start, sp.End, sp.Style.StrokeColor, sp.Style.StrokeWidth)
		} else {
			p.paintShapeGeometry(sp.Kind, sp.Start, sp.End, sp.Style)
		}
	}
	if ov.Hover != nil && len(ov.ErasePoints) == 0 {
		p.surface.OutlineRect(*ov.Hover, ov.HoverSize, color.Black)
	}
}

func (p *Pipeline) paintEntity(a state.Action, ov *Overlay) {
	switch v := a.(type) {
	case *state.Shape:
		style := Style{
			StrokeColor: v.StrokeColor,
			StrokeWidth: v.StrokeWidth,
			FillColor:   v.FillColor,
			Filled:      v.Filled,
		}
		p.paintShapeGeometry(v.Kind, v.Start, v.End, style)
	case *state.Text:
		el := v.Data
		if ov != nil && ov.DragID == v.ActionID() {
			el.X, el.Y = ov.DragPos.X, ov.DragPos.Y
		}
		w, _ := p.surface.MeasureText(el.Text, fontSpec(el))
		x := el.X + geometry.AlignOffset(string(el.Align), w)
		p.surface.Text(el.Text, x, el.Y, fontSpec(el), el.Color, el.Underline)
	case *state.Image:
		el := v.Data
		img, ok := p.cache.Get(el.Src)
		if !ok {
			// Pending or failed: schedule the decode (a no-op if one
			// was already issued) and skip this entry for now.
			p.cache.Request(el.Src)
			return
		}
		p.surface.Image(img, el.X, el.Y, el.Width, el.Height)
	}
}

func (p *Pipeline) paintShapeGeometry(kind state.ShapeKind, start, end geometry.Point, style Style) {
	switch kind {
	case state.ShapeRectangle:
		p.surface.Rect(start, end, style)
	case state.ShapeCircle:
		p.surface.Circle(start, start.Distance(end), style)
	case state.ShapeTriangle:
		v1, v2, v3 := geometry.TriangleFromDrag(start, end)
		p.surface.Triangle(v1, v2, v3, style)
	}
}

// bounds computes the axis-aligned box of a resolved entity, applying
// the same drag substitution and text alignment offsets as painting.
func (p *Pipeline) bounds(a state.Action, ov *Overlay) (lo, hi geometry.Point, ok bool) {
	switch v := a.(type) {
	case *state.Shape:
		switch v.Kind {
		case state.ShapeRectangle:
			return boxOf(v.Start, v.End), maxOf(v.Start, v.End), true
		case state.ShapeCircle:
			r := v.Start.Distance(v.End)
			return geometry.Pt(v.Start.X-r, v.Start.Y-r), geometry.Pt(v.Start.X+r, v.Start.Y+r), true
		case state.ShapeTriangle:
			v1, v2, v3 := geometry.TriangleFromDrag(v.Start, v.End)
			lo = boxOf(boxOf(v1, v2), v3)
			hi = maxOf(maxOf(v1, v2), v3)
			return lo, hi, true
		}
	case *state.Text:
		el := v.Data
		if ov != nil && ov.DragID == v.ActionID() {
			el.X, el.Y = ov.DragPos.X, ov.DragPos.Y
		}
		w, h := p.surface.MeasureText(el.Text, fontSpec(el))
		x := el.X + geometry.AlignOffset(string(el.Align), w)
		return geometry.Pt(x, el.Y-h), geometry.Pt(x+w, el.Y), true
	case *state.Image:
		el := v.Data
		return geometry.Pt(el.X, el.Y), geometry.Pt(el.X+el.Width, el.Y+el.Height), true
	}
	return geometry.Point{}, geometry.Point{}, false
}

// HitTestText returns the topmost text entity containing p, topmost
// meaning the most recently resolved identity. The hit box is recomputed
// from current font metrics with the same alignment offset used to
// paint, anchored at the baseline with the nominal size as height.
func (p *Pipeline) HitTestText(h *state.History, pt geometry.Point) *state.Text {
	resolved := h.ResolveLatest(h.Index())
	for i := len(resolved) - 1; i >= 0; i-- {
		t, ok := resolved[i].(*state.Text)
		if !ok {
			continue
		}
		el := t.Data
		w, hh := p.surface.MeasureText(el.Text, fontSpec(el))
		x := el.X + geometry.AlignOffset(string(el.Align), w)
		if geometry.PointInRect(pt, geometry.Pt(x, el.Y-hh), geometry.Pt(x+w, el.Y)) {
			return t
		}
	}
	return nil
}

// HitTestShape returns the topmost shape entity containing p, testing in
// reverse insertion order.
func (p *Pipeline) HitTestShape(h *state.History, pt geometry.Point) *state.Shape {
	resolved := h.ResolveLatest(h.Index())
	for i := len(resolved) - 1; i >= 0; i-- {
		s, ok := resolved[i].(*state.Shape)
		if !ok {
			continue
		}
		hit := false
		switch s.Kind {
		case state.ShapeRectangle:
			hit = geometry.PointInRect(pt, s.Start, s.End)
		case state.ShapeCircle:
			hit = geometry.PointInCircle(pt, s.Start, s.End)
		case state.ShapeTriangle:
			v1, v2, v3 := geometry.TriangleFromDrag(s.Start, s.End)
			hit = geometry.PointInTriangle(pt, v1, v2, v3)
		}
		if hit {
			return s
		}
	}
	return nil
}

// MeasureElement fills a text element's derived Width/Height from the
// surface's current font metrics; called on every commit.
func (p *Pipeline) MeasureElement(el *state.TextElement) {
	el.Width, el.Height = p.surface.MeasureText(el.Text, fontSpec(*el))
}

// Export flattens the committed visible state (no overlays) onto the
// opaque background and PNG-encodes it at the backing store's physical
// dimensions (logical size times device pixel ratio).
func (p *Pipeline) Export(h *state.History) ([]byte, error) {
	p.Paint(h, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.surface.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fontSpec(el state.TextElement) FontSpec {
	return FontSpec{Family: el.FontFamily, Size: el.FontSize, Bold: el.Bold, Italic: el.Italic}
}

func boxOf(a, b geometry.Point) geometry.Point {
	p := a
	if b.X < p.X {
		p.X = b.X
	}
	if b.Y < p.Y {
		p.Y = b.Y
	}
	return p
}

func maxOf(a, b geometry.Point) geometry.Point {
	p := a
	if b.X > p.X {
		p.X = b.X
	}
	if b.Y > p.Y {
		p.Y = b.Y
	}
	return p
}
