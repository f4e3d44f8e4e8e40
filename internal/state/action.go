package state

import (
	"image/color"

	"SketchDeck/internal/geometry"
)

// ShapeKind selects the parametric shape drawn between a drag's start and
// end points.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
)

// Align is the horizontal text alignment relative to the anchor x.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Action is one committed drawing operation in a sheet's history log.
// Every variant carries a stable identity and a visibility flag; hiding
// an identity is the soft-delete used by the UI so undo history survives.
type Action interface {
	ActionID() string
	IsVisible() bool
	Clone() Action

	setID(id string)
	setVisible(visible bool)
}

// meta is the shared identity/visibility header embedded in every variant.
type meta struct {
	ID      string
	Visible bool
}

func (m *meta) ActionID() string        { return m.ID }
func (m *meta) IsVisible() bool         { return m.Visible }
func (m *meta) setID(id string)         { m.ID = id }
func (m *meta) setVisible(visible bool) { m.Visible = visible }

// Freehand is a sampled pen stroke. Strokes are additive: they are
// painted once per log entry, in log order, and never deduplicated.
type Freehand struct {
	meta
	Points      []geometry.Point
	StrokeColor color.Color
	StrokeWidth float64
}

// Line is a single straight segment.
type Line struct {
	meta
	Start       geometry.Point
	End         geometry.Point
	StrokeColor color.Color
	StrokeWidth float64
}

// Shape is a parametric rectangle, circle or triangle. Start/End are the
// drag's anchor points: the diagonal for a rectangle, center plus radius
// point for a circle, apex plus base corner for a triangle.
type Shape struct {
	meta
	Kind        ShapeKind
	Start       geometry.Point
	End         geometry.Point
	StrokeColor color.Color
	StrokeWidth float64
	FillColor   color.Color
	Filled      bool
}

// Eraser is a destructive swipe clearing a square footprint along its
// sampled points. Eraser entries only make sense replayed in log order.
type Eraser struct {
	meta
	Points []geometry.Point
	Size   float64
}

// TextElement is the payload of a Text action. (X, Y) anchor the text
// baseline; Width/Height are derived from the render surface's metrics
// and recomputed on every commit and hit-test rather than trusted.
type TextElement struct {
	Text       string
	X, Y       float64
	FontFamily string
	FontSize   float64
	Color      color.Color
	Align      Align
	Bold       bool
	Italic     bool
	Underline  bool
	Width      float64
	Height     float64
}

// Text is an editable text element. Re-committing the same id with new
// data represents an in-place edit; rendering resolves the latest
// visible revision per identity.
type Text struct {
	meta
	Data TextElement
}

// ImageElement is the payload of an Image action. Src identifies the
// raster source; decoding happens once per unique source in the render
// pipeline's cache.
type ImageElement struct {
	Src    string
	X, Y   float64
	Width  float64
	Height float64
}

// Image is a placed raster image. Like Text, it supports latest-revision
// identity resolution.
type Image struct {
	meta
	Data ImageElement
}

// NewFreehand builds a visible freehand action and copies the point slice
// so the caller's gesture buffer can be reused.
func NewFreehand(points []geometry.Point, strokeColor color.Color, strokeWidth float64) *Freehand {
	return &Freehand{
		meta:        meta{Visible: true},
		Points:      append([]geometry.Point(nil), points...),
		StrokeColor: strokeColor,
		StrokeWidth: strokeWidth,
	}
}

// NewLine builds a visible line action.
func NewLine(start, end geometry.Point, strokeColor color.Color, strokeWidth float64) *Line {
	return &Line{
		meta:        meta{Visible: true},
		Start:       start,
		End:         end,
		StrokeColor: strokeColor,
		StrokeWidth: strokeWidth,
	}
}

// NewShape builds a visible shape action. Pass the existing id to
// re-commit an in-place edit of the same identity, or "" for a fresh
// shape.
func NewShape(id string, kind ShapeKind, start, end geometry.Point, strokeColor color.Color, strokeWidth float64, fillColor color.Color, filled bool) *Shape {
	return &Shape{
		meta:        meta{ID: id, Visible: true},
		Kind:        kind,
		Start:       start,
		End:         end,
		StrokeColor: strokeColor,
		StrokeWidth: strokeWidth,
		FillColor:   fillColor,
		Filled:      filled,
	}
}

// NewEraser builds an eraser action from the swipe's sampled points.
func NewEraser(points []geometry.Point, size float64) *Eraser {
	return &Eraser{
		meta:   meta{Visible: true},
		Points: append([]geometry.Point(nil), points...),
		Size:   size,
	}
}

// NewText builds a visible text action. Pass the existing id to re-commit
// an edit of the same identity, or "" for a fresh element.
func NewText(id string, data TextElement) *Text {
	return &Text{meta: meta{ID: id, Visible: true}, Data: data}
}

// NewImage builds a visible image action. Pass the existing id to
// re-commit an edit, or "" for a fresh element.
func NewImage(id string, data ImageElement) *Image {
	return &Image{meta: meta{ID: id, Visible: true}, Data: data}
}

func (f *Freehand) Clone() Action {
	c := *f
	c.Points = append([]geometry.Point(nil), f.Points...)
	return &c
}

func (l *Line) Clone() Action {
	c := *l
	return &c
}

func (s *Shape) Clone() Action {
	c := *s
	return &c
}

func (e *Eraser) Clone() Action {
	c := *e
	c.Points = append([]geometry.Point(nil), e.Points...)
	return &c
}

func (t *Text) Clone() Action {
	c := *t
	return &c
}

func (i *Image) Clone() Action {
	c := *i
	return &c
}

// resolvable reports whether the action kind participates in
// latest-revision identity resolution. Freehand, Line and Eraser entries
// are irreversible marks painted per log entry instead.
func resolvable(a Action) bool {
	switch a.(type) {
	case *Text, *Shape, *Image:
		return true
	}
	return false
}
