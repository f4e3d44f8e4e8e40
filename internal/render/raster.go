package render

import (
	"image"
	"image/color"
	"log"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"SketchDeck/internal/geometry"
)

// Raster is the software Surface. Its backing store is sized at the
// device pixel ratio once per init/resize; a single scale transform maps
// all later drawing math to logical units.
type Raster struct {
	dc     *gg.Context
	w, h   float64
	dpr    float64
	bg     color.Color
	styles map[styleKey]*truetype.Font
	faces  map[faceKey]font.Face
}

type styleKey struct{ bold, italic bool }

type faceKey struct {
	bold, italic bool
	size         float64
}

// NewRaster allocates a surface of w x h logical units at the given
// device pixel ratio, cleared to the background color (white when nil).
func NewRaster(w, h, dpr float64, bg color.Color) *Raster {
	if dpr <= 0 {
		dpr = 1
	}
	if bg == nil {
		bg = color.White
	}
	r := &Raster{
		dpr:    dpr,
		bg:     bg,
		styles: make(map[styleKey]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
	r.Resize(w, h)
	return r
}

func (r *Raster) Size() (w, h float64) { return r.w, r.h }

func (r *Raster) Resize(w, h float64) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	r.w, r.h = w, h
	r.dc = gg.NewContext(int(w*r.dpr+0.5), int(h*r.dpr+0.5))
	r.dc.Scale(r.dpr, r.dpr)
	r.Clear()
}

func (r *Raster) Clear() {
	r.dc.SetColor(r.bg)
	r.dc.Clear()
}

func (r *Raster) Polyline(points []geometry.Point, c color.Color, width float64) {
	if len(points) == 0 {
		return
	}
	r.dc.SetColor(ink(c))
	if len(points) == 1 {
		r.dc.DrawCircle(points[0].X, points[0].Y, width/2)
		r.dc.Fill()
		return
	}
	r.dc.SetLineWidth(width)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.Stroke()
}

func (r *Raster) Line(a, b geometry.Point, c color.Color, width float64) {
	r.dc.SetColor(ink(c))
	r.dc.SetLineWidth(width)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	r.dc.Stroke()
}

func (r *Raster) Rect(a, b geometry.Point, s Style) {
	x, y := min(a.X, b.X), min(a.Y, b.Y)
	r.dc.DrawRectangle(x, y, abs(b.X-a.X), abs(b.Y-a.Y))
	r.paintPath(s)
}

func (r *Raster) Circle(center geometry.Point, radius float64, s Style) {
	r.dc.DrawCircle(center.X, center.Y, radius)
	r.paintPath(s)
}

func (r *Raster) Triangle(v1, v2, v3 geometry.Point, s Style) {
	r.dc.MoveTo(v1.X, v1.Y)
	r.dc.LineTo(v2.X, v2.Y)
	r.dc.LineTo(v3.X, v3.Y)
	r.dc.ClosePath()
	r.paintPath(s)
}

func (r *Raster) paintPath(s Style) {
	if s.Filled && s.FillColor != nil {
		r.dc.SetColor(s.FillColor)
		r.dc.FillPreserve()
	}
	r.dc.SetColor(ink(s.StrokeColor))
	r.dc.SetLineWidth(s.StrokeWidth)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.dc.Stroke()
}

func (r *Raster) Erase(p geometry.Point, size float64) {
	r.dc.SetColor(r.bg)
	r.dc.DrawRectangle(p.X-size/2, p.Y-size/2, size, size)
	r.dc.Fill()
}

func (r *Raster) OutlineRect(center geometry.Point, size float64, c color.Color) {
	r.dc.SetColor(ink(c))
	r.dc.SetLineWidth(1)
	r.dc.DrawRectangle(center.X-size/2, center.Y-size/2, size, size)
	r.dc.Stroke()
}

func (r *Raster) DashedRect(a, b geometry.Point, c color.Color) {
	x, y := min(a.X, b.X), min(a.Y, b.Y)
	r.dc.SetDash(4, 4)
	r.dc.SetColor(ink(c))
	r.dc.SetLineWidth(1)
	r.dc.DrawRectangle(x, y, abs(b.X-a.X), abs(b.Y-a.Y))
	r.dc.Stroke()
	r.dc.SetDash()
}

func (r *Raster) Text(text string, x, y float64, f FontSpec, c color.Color, underline bool) {
	face := r.face(f)
	if face == nil {
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(ink(c))
	r.dc.DrawString(text, x, y)
	if underline {
		w, _ := r.dc.MeasureString(text)
		r.dc.SetLineWidth(max(1, f.Size/14))
		r.dc.DrawLine(x, y+2, x+w, y+2)
		r.dc.Stroke()
	}
}

func (r *Raster) MeasureText(text string, f FontSpec) (w, h float64) {
	face := r.face(f)
	if face == nil {
		return 0, f.Size
	}
	r.dc.SetFontFace(face)
	w, _ = r.dc.MeasureString(text)
	// Height is approximated by the nominal size, matching hit-testing.
	return w, f.Size
}

func (r *Raster) Image(img image.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 || w <= 0 || h <= 0 {
		return
	}
	r.dc.Push()
	r.dc.Translate(x, y)
	r.dc.Scale(w/iw, h/ih)
	r.dc.DrawImage(img, 0, 0)
	r.dc.Pop()
}

func (r *Raster) Snapshot() image.Image {
	return r.dc.Image()
}

// face returns (and caches) the truetype face for the font settings. The
// family name is recorded on text elements but faces always come from
// the embedded Go fonts; Bold/Italic select among the four variants.
func (r *Raster) face(f FontSpec) font.Face {
	size := f.Size
	if size <= 0 {
		size = 16
	}
	fk := faceKey{bold: f.Bold, italic: f.Italic, size: size}
	if face, ok := r.faces[fk]; ok {
		return face
	}
	ft := r.font(styleKey{bold: f.Bold, italic: f.Italic})
	if ft == nil {
		return nil
	}
	face := truetype.NewFace(ft, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[fk] = face
	return face
}

func (r *Raster) font(sk styleKey) *truetype.Font {
	if ft, ok := r.styles[sk]; ok {
		return ft
	}
	var ttf []byte
	switch sk {
	case styleKey{bold: true, italic: true}:
		ttf = gobolditalic.TTF
	case styleKey{bold: true}:
		ttf = gobold.TTF
	case styleKey{italic: true}:
		ttf = goitalic.TTF
	default:
		ttf = goregular.TTF
	}
	ft, err := truetype.Parse(ttf)
	if err != nil {
		log.Printf("[render] failed to parse embedded font: %v", err)
		return nil
	}
	r.styles[sk] = ft
	return ft
}

// ink guards the rasterizer against nil colors; an unset color paints
// black.
func ink(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
