// Package board is the engine facade consumed by UI collaborators: one
// type owning the sheet manager, render pipeline, interaction controller
// and surface, exposing commits, undo/redo, visibility, hit-testing,
// raster export and sheet management. All mutation happens synchronously
// on the caller's event thread; the only asynchrony is image decoding
// inside the pipeline's cache.
package board

import (
	"fmt"
	"image"
	"image/color"

	"SketchDeck/internal/geometry"
	"SketchDeck/internal/input"
	"SketchDeck/internal/render"
	"SketchDeck/internal/state"
)

// Options configures a new board.
type Options struct {
	// Logical canvas size.
	Width, Height float64
	// DPR scales the physical backing store; 0 means 1.
	DPR float64
	// Background fills cleared pixels and is what the eraser restores;
	// nil means opaque white.
	Background color.Color
	// ImageLoader decodes image action sources; nil means file paths.
	ImageLoader render.Loader
	// Surface overrides the default raster backend, mainly for tests.
	Surface render.Surface
}

// Board is an action-sourced drawing engine instance.
type Board struct {
	sheets     *state.SheetManager
	surface    render.Surface
	pipeline   *render.Pipeline
	controller *input.Controller
	overlay    render.Overlay

	onRepaint    func()
	onInvalidate func()
}

// New builds a board with a single empty sheet.
func New(opts Options) *Board {
	b := &Board{sheets: state.NewSheetManager()}

	b.surface = opts.Surface
	if b.surface == nil {
		b.surface = render.NewRaster(opts.Width, opts.Height, opts.DPR, opts.Background)
	}
	cache := render.NewImageCache(opts.ImageLoader, func(string) { b.invalidate() })
	b.pipeline = render.NewPipeline(b.surface, cache)

	b.controller = input.NewController(&b.overlay)
	b.controller.Commit = b.Commit
	b.controller.HitText = func(p geometry.Point) *state.Text {
		return b.pipeline.HitTestText(b.history(), p)
	}
	b.controller.HitShape = func(p geometry.Point) *state.Shape {
		return b.pipeline.HitTestShape(b.history(), p)
	}
	b.controller.Repaint = b.Repaint
	return b
}

// Controller exposes the interaction controller for pointer wiring and
// toolbar style mutation.
func (b *Board) Controller() *input.Controller { return b.controller }

// RegisterRepaint sets the hook the shell uses to refresh its display
// after each engine repaint.
func (b *Board) RegisterRepaint(fn func()) { b.onRepaint = fn }

// RegisterInvalidate sets the hook fired when the committed state
// becomes stale off-thread (an image finished decoding). The hook runs
// on the decode goroutine and must marshal back onto the event thread
// before calling Repaint; the engine itself never paints off-thread.
// Without a hook the new pixels appear on the next event-driven repaint.
func (b *Board) RegisterInvalidate(fn func()) { b.onInvalidate = fn }

func (b *Board) invalidate() {
	if b.onInvalidate != nil {
		b.onInvalidate()
	}
}

// Repaint replays the active sheet plus the overlay onto the surface and
// notifies the shell. All surface access is confined to the event
// thread; async completions reach it through RegisterInvalidate.
func (b *Board) Repaint() {
	b.pipeline.Paint(b.history(), &b.overlay)
	if b.onRepaint != nil {
		b.onRepaint()
	}
}

// Snapshot returns the surface's current physical image for display.
func (b *Board) Snapshot() image.Image { return b.surface.Snapshot() }

// Size returns the surface's logical dimensions.
func (b *Board) Size() (w, h float64) { return b.surface.Size() }

// Resize rebuilds the backing store at new logical dimensions and
// repaints.
func (b *Board) Resize(w, h float64) {
	b.surface.Resize(w, h)
	b.Repaint()
}

// Commit appends one action to the active sheet's log, truncating any
// redo tail, and returns its id. Commits with missing required geometry
// are rejected as silent no-ops.
func (b *Board) Commit(a state.Action) string {
	if !wellFormed(a) {
		return ""
	}
	if t, ok := a.(*state.Text); ok {
		b.pipeline.MeasureElement(&t.Data)
	}
	id := b.history().Append(a)
	b.Repaint()
	return id
}

// CommitText builds and commits a text action; id "" creates a fresh
// identity, a previous id re-commits an in-place edit. Derived measures
// are recomputed against current font metrics before the append.
func (b *Board) CommitText(id string, el state.TextElement) string {
	return b.Commit(state.NewText(id, el))
}

// CommitImage builds and commits an image action; id semantics as in
// CommitText.
func (b *Board) CommitImage(id string, el state.ImageElement) string {
	return b.Commit(state.NewImage(id, el))
}

// Undo steps the active sheet's cursor back; no-op at the bound.
func (b *Board) Undo() {
	b.history().Undo()
	b.Repaint()
}

// Redo steps the active sheet's cursor forward; no-op at the bound.
func (b *Board) Redo() {
	b.history().Redo()
	b.Repaint()
}

// Clear resets the active sheet's log and the decode cache.
func (b *Board) Clear() {
	b.history().Clear()
	b.pipeline.Cache().Clear()
	b.overlay.ResetGesture()
	b.overlay.SelectionID = ""
	b.Repaint()
}

// SetVisibility toggles soft-delete on an identity; this mutates the
// logged occurrences in place instead of appending a revision.
func (b *Board) SetVisibility(id string, visible bool) {
	b.history().SetVisibility(id, visible)
	b.Repaint()
}

// ResolveByID returns the most recent revision of id at or before the
// cursor, hidden or not, or nil.
func (b *Board) ResolveByID(id string) state.Action {
	return b.history().ResolveByID(id)
}

// HitTestTextAt returns the topmost text identity containing p, or "".
func (b *Board) HitTestTextAt(p geometry.Point) string {
	if t := b.pipeline.HitTestText(b.history(), p); t != nil {
		return t.ActionID()
	}
	return ""
}

// HitTestShapeAt returns the topmost shape containing p, or nil.
func (b *Board) HitTestShapeAt(p geometry.Point) *state.Shape {
	return b.pipeline.HitTestShape(b.history(), p)
}

// SetSelection decorates the identity with a dashed highlight box on the
// next repaints.
func (b *Board) SetSelection(id string) {
	b.overlay.SelectionID = id
	b.Repaint()
}

// ClearSelection removes the highlight.
func (b *Board) ClearSelection() {
	b.overlay.SelectionID = ""
	b.Repaint()
}

// ExportRaster flattens the committed visible state onto the opaque
// background and returns it PNG-encoded at physical pixel dimensions.
// The display is repainted afterwards so overlays reappear.
func (b *Board) ExportRaster() ([]byte, error) {
	data, err := b.pipeline.Export(b.history())
	b.Repaint()
	if err != nil {
		return nil, fmt.Errorf("export raster: %w", err)
	}
	return data, nil
}

// AddSheet creates a fresh sheet and switches to it.
func (b *Board) AddSheet(name string) *state.Sheet {
	s := b.sheets.Add(name)
	b.resetInteraction()
	b.Repaint()
	return s
}

// DuplicateSheet deep-copies a sheet's history into a new independent
// sheet and switches to it.
func (b *Board) DuplicateSheet(id string) *state.Sheet {
	s := b.sheets.Duplicate(id)
	if s != nil {
		b.resetInteraction()
		b.Repaint()
	}
	return s
}

// RenameSheet sets a sheet's display name.
func (b *Board) RenameSheet(id, name string) { b.sheets.Rename(id, name) }

// DeleteSheet removes a sheet; deleting the last one is refused. The
// decode cache is dropped with the sheet; surviving sheets re-request
// their sources lazily on the repaint.
func (b *Board) DeleteSheet(id string) bool {
	ok := b.sheets.Delete(id)
	if ok {
		b.pipeline.Cache().Clear()
		b.resetInteraction()
		b.Repaint()
	}
	return ok
}

// SwitchActive makes another sheet live, dropping any in-flight
// interaction state: ephemeral gestures are meaningless across sheets.
func (b *Board) SwitchActive(id string) bool {
	ok := b.sheets.SwitchActive(id)
	if ok {
		b.resetInteraction()
		b.Repaint()
	}
	return ok
}

// Sheets lists sheets in creation order.
func (b *Board) Sheets() []*state.Sheet { return b.sheets.Sheets() }

// ActiveSheet returns the live sheet.
func (b *Board) ActiveSheet() *state.Sheet { return b.sheets.Active() }

func (b *Board) history() *state.History { return b.sheets.Active().History }

func (b *Board) resetInteraction() {
	b.controller.Cancel()
	b.overlay.SelectionID = ""
}

// wellFormed rejects commits missing required geometry. Zero-length
// geometry is legal (it renders as a no-op); nil geometry is not.
func wellFormed(a state.Action) bool {
	switch v := a.(type) {
	case nil:
		return false
	case *state.Freehand:
		return len(v.Points) > 0
	case *state.Eraser:
		return len(v.Points) > 0
	case *state.Text:
		return v.Data.Text != ""
	case *state.Image:
		return v.Data.Src != ""
	}
	return true
}
