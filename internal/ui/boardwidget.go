package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchDeck/internal/board"
	"SketchDeck/internal/geometry"
)

// BoardWidget displays the engine's raster and forwards pointer input to
// the interaction controller. Mouse and touch both arrive here (via
// desktop.Mouseable/Hoverable and fyne.Draggable) and are normalized to
// the same logical-coordinate engine calls.
type BoardWidget struct {
	widget.BaseWidget
	engine *board.Board
	view   *canvas.Image

	dragging bool
}

func NewBoardWidget(engine *board.Board) *BoardWidget {
	w := &BoardWidget{engine: engine}
	w.view = canvas.NewImageFromImage(engine.Snapshot())
	w.view.FillMode = canvas.ImageFillStretch
	w.view.ScaleMode = canvas.ImageScaleFastest
	w.ExtendBaseWidget(w)

	engine.RegisterRepaint(func() {
		w.view.Image = engine.Snapshot()
		w.view.Refresh()
	})
	// Decode completions arrive on their own goroutine; hop onto the
	// event thread before repainting.
	engine.RegisterInvalidate(func() {
		fyne.Do(engine.Repaint)
	})
	return w
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.view)
}

// Resize keeps the engine's logical surface matched to the widget.
func (w *BoardWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	ew, eh := float64(size.Width), float64(size.Height)
	cw, ch := w.engine.Size()
	if ew >= 1 && eh >= 1 && (ew != cw || eh != ch) {
		w.engine.Resize(ew, eh)
	}
}

func (w *BoardWidget) point(pos fyne.Position) geometry.Point {
	return geometry.Pt(float64(pos.X), float64(pos.Y))
}

// --- desktop.Mouseable ---

func (w *BoardWidget) MouseDown(ev *desktop.MouseEvent) {
	w.dragging = true
	w.engine.Controller().PointerDown(w.point(ev.Position))
}

func (w *BoardWidget) MouseUp(ev *desktop.MouseEvent) {
	w.dragging = false
	w.engine.Controller().PointerUp(w.point(ev.Position))
}

// --- desktop.Hoverable ---

func (w *BoardWidget) MouseIn(ev *desktop.MouseEvent) {}

func (w *BoardWidget) MouseMoved(ev *desktop.MouseEvent) {
	w.engine.Controller().PointerMove(w.point(ev.Position))
}

// MouseOut synthesizes a release so a drag leaving the surface still
// finalizes its shape instead of staying uncommitted.
func (w *BoardWidget) MouseOut() {
	w.dragging = false
	w.engine.Controller().PointerLeave()
}

// --- fyne.Draggable (touch input path) ---

func (w *BoardWidget) Dragged(ev *fyne.DragEvent) {
	if !w.dragging {
		w.dragging = true
		w.engine.Controller().PointerDown(w.point(ev.Position))
		return
	}
	w.engine.Controller().PointerMove(w.point(ev.Position))
}

func (w *BoardWidget) DragEnd() {
	if w.dragging {
		w.dragging = false
		w.engine.Controller().PointerLeave()
	}
}
