// Package render turns a sheet's history log plus ephemeral interaction
// state into pixels. The pipeline only talks to the Surface interface;
// the concrete backend (Raster, backed by fogleman/gg) is injected at
// construction so tests and alternative backends stay decoupled.
package render

import (
	"image"
	"image/color"

	"SketchDeck/internal/geometry"
)

// Style bundles the stroke/fill attributes of a shape paint call.
type Style struct {
	StrokeColor color.Color
	StrokeWidth float64
	FillColor   color.Color
	Filled      bool
}

// FontSpec selects a text face. Family is recorded but faces come from
// the embedded Go fonts; Bold/Italic pick among the four style variants.
type FontSpec struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// Surface is the drawing capability the pipeline paints through. All
// coordinates are logical; implementations own the device-pixel-ratio
// scaling of their physical backing store.
type Surface interface {
	// Size returns the logical dimensions.
	Size() (w, h float64)
	// Resize rebuilds the backing store at new logical dimensions.
	// Existing content is discarded; the caller repaints.
	Resize(w, h float64)
	// Clear fills the whole surface with its background color.
	Clear()

	// Polyline strokes a sampled path with round caps and joins. A
	// single point paints a dot of the stroke width.
	Polyline(points []geometry.Point, c color.Color, width float64)
	// Line strokes one straight segment.
	Line(a, b geometry.Point, c color.Color, width float64)
	// Rect paints the axis-aligned box spanned by two opposite corners.
	Rect(a, b geometry.Point, s Style)
	// Circle paints a circle by center and radius.
	Circle(center geometry.Point, radius float64, s Style)
	// Triangle paints the triangle v1,v2,v3.
	Triangle(v1, v2, v3 geometry.Point, s Style)

	// Erase clears a square footprint of the given size centered on p
	// back to the background color.
	Erase(p geometry.Point, size float64)
	// OutlineRect strokes a thin square outline (eraser hover cue).
	OutlineRect(center geometry.Point, size float64, c color.Color)
	// DashedRect strokes a dashed box between two corners (selection
	// highlight).
	DashedRect(a, b geometry.Point, c color.Color)

	// Text paints a run anchored at its baseline (x, y). Alignment
	// offsets are applied by the caller before this call.
	Text(text string, x, y float64, f FontSpec, c color.Color, underline bool)
	// MeasureText returns the run's advance width and nominal height
	// (the font size; no ascent/descent metrics).
	MeasureText(text string, f FontSpec) (w, h float64)

	// Image paints a decoded raster scaled into the logical box.
	Image(img image.Image, x, y, w, h float64)

	// Snapshot returns the current physical backing image.
	Snapshot() image.Image
}
