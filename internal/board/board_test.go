package board

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"SketchDeck/internal/geometry"
	"SketchDeck/internal/state"
)

func newTestBoard() *Board {
	return New(Options{Width: 120, Height: 80, DPR: 1})
}

// exportBytes flattens committed state to PNG bytes, the cheapest
// raster identity check available to these tests.
func exportBytes(t *testing.T, b *Board) []byte {
	t.Helper()
	data, err := b.ExportRaster()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return data
}

func rect(start, end geometry.Point) *state.Shape {
	return state.NewShape("", state.ShapeRectangle, start, end, color.Black, 2, nil, false)
}

func TestCommitUndoRedoRoundTrip(t *testing.T) {
	b := newTestBoard()
	blank := exportBytes(t, b)

	id := b.Commit(rect(geometry.Pt(0, 0), geometry.Pt(100, 50)))
	if id == "" {
		t.Fatal("commit returned no id")
	}
	if got := b.ActiveSheet().History.Index(); got != 0 {
		t.Fatalf("cursor after commit = %d, want 0", got)
	}
	drawn := exportBytes(t, b)
	if bytes.Equal(drawn, blank) {
		t.Fatal("rectangle left the canvas blank")
	}

	b.Undo()
	if got := b.ActiveSheet().History.Index(); got != -1 {
		t.Fatalf("cursor after undo = %d, want -1", got)
	}
	if !bytes.Equal(exportBytes(t, b), blank) {
		t.Fatal("undo did not restore the blank canvas")
	}

	b.Redo()
	if got := b.ActiveSheet().History.Index(); got != 0 {
		t.Fatalf("cursor after redo = %d, want 0", got)
	}
	if !bytes.Equal(exportBytes(t, b), drawn) {
		t.Fatal("redo did not reproduce the identical raster")
	}
}

func TestUndoRedoAtBoundsAreNoOps(t *testing.T) {
	b := newTestBoard()
	b.Undo()
	if got := b.ActiveSheet().History.Index(); got != -1 {
		t.Errorf("undo on empty log moved the cursor to %d", got)
	}
	b.Commit(rect(geometry.Pt(1, 1), geometry.Pt(5, 5)))
	b.Redo()
	if got := b.ActiveSheet().History.Index(); got != 0 {
		t.Errorf("redo at tip moved the cursor to %d", got)
	}
}

func TestMalformedCommitsRejected(t *testing.T) {
	b := newTestBoard()
	cases := []struct {
		name string
		a    state.Action
	}{
		{"freehand without points", state.NewFreehand(nil, color.Black, 2)},
		{"eraser without points", state.NewEraser(nil, 20)},
		{"text without content", state.NewText("", state.TextElement{X: 10, Y: 10})},
		{"image without source", state.NewImage("", state.ImageElement{X: 10, Y: 10, Width: 5, Height: 5})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if id := b.Commit(tc.a); id != "" {
				t.Errorf("got id %q, want rejection", id)
			}
		})
	}
	if n := b.ActiveSheet().History.Len(); n != 0 {
		t.Errorf("log holds %d entries after rejected commits", n)
	}
}

func TestClearOnDuplicateLeavesOriginalIntact(t *testing.T) {
	b := newTestBoard()
	b.Commit(rect(geometry.Pt(0, 0), geometry.Pt(10, 10)))
	b.Commit(state.NewFreehand([]geometry.Point{geometry.Pt(20, 20), geometry.Pt(30, 30)}, color.Black, 2))
	original := b.ActiveSheet()

	dup := b.DuplicateSheet(original.ID)
	if dup == nil || b.ActiveSheet() != dup {
		t.Fatal("duplicate did not become the active sheet")
	}
	if dup.History.Len() != 2 {
		t.Fatalf("duplicate log has %d entries, want 2", dup.History.Len())
	}

	b.Clear()
	if dup.History.Len() != 0 {
		t.Errorf("clear left %d entries on the duplicate", dup.History.Len())
	}
	if original.History.Len() != 2 {
		t.Errorf("clearing the duplicate touched the original log: %d entries, want 2", original.History.Len())
	}
}

func TestSheetSwitchDropsInFlightGesture(t *testing.T) {
	b := newTestBoard()
	first := b.ActiveSheet()
	ctl := b.Controller()

	ctl.PointerDown(geometry.Pt(5, 5))
	ctl.PointerMove(geometry.Pt(6, 6))
	second := b.AddSheet("")
	ctl.PointerUp(geometry.Pt(7, 7)) // stale release on the new sheet

	if n := first.History.Len(); n != 0 {
		t.Errorf("abandoned gesture landed %d entries on the first sheet", n)
	}
	if n := second.History.Len(); n != 0 {
		t.Errorf("stale release landed %d entries on the new sheet", n)
	}
}

func TestSetVisibilitySoftDeletes(t *testing.T) {
	b := newTestBoard()
	blank := exportBytes(t, b)
	id := b.Commit(rect(geometry.Pt(10, 10), geometry.Pt(60, 40)))

	b.SetVisibility(id, false)
	if !bytes.Equal(exportBytes(t, b), blank) {
		t.Error("hidden shape still paints")
	}
	got := b.ResolveByID(id)
	if got == nil {
		t.Fatal("hidden identity should still resolve by id")
	}
	if got.IsVisible() {
		t.Error("resolved revision still reports visible")
	}
	if b.ActiveSheet().History.Len() != 1 {
		t.Error("visibility toggle appended to the log")
	}

	b.SetVisibility(id, true)
	if bytes.Equal(exportBytes(t, b), blank) {
		t.Error("re-shown shape does not paint")
	}
}

func TestCommitTextMeasuresElement(t *testing.T) {
	b := newTestBoard()
	id := b.CommitText("", state.TextElement{
		Text: "hello", X: 40, Y: 40,
		FontFamily: "Go", FontSize: 18,
		Color: color.Black, Align: state.AlignLeft,
	})
	if id == "" {
		t.Fatal("text commit rejected")
	}
	txt, ok := b.ResolveByID(id).(*state.Text)
	if !ok {
		t.Fatalf("resolved %T, want *state.Text", b.ResolveByID(id))
	}
	if txt.Data.Width <= 0 || txt.Data.Height <= 0 {
		t.Errorf("measures not derived on commit: %vx%v", txt.Data.Width, txt.Data.Height)
	}
}

func TestHitTestTextRespectsAlignment(t *testing.T) {
	b := newTestBoard()
	id := b.CommitText("", state.TextElement{
		Text: "anchored", X: 100, Y: 40,
		FontFamily: "Go", FontSize: 18,
		Color: color.Black, Align: state.AlignRight,
	})

	// Right alignment puts the box entirely left of the anchor x.
	if got := b.HitTestTextAt(geometry.Pt(98, 32)); got != id {
		t.Errorf("point inside the right-aligned box resolved %q, want %q", got, id)
	}
	if got := b.HitTestTextAt(geometry.Pt(104, 32)); got != "" {
		t.Errorf("point right of the anchor resolved %q, want a miss", got)
	}
	if got := b.HitTestTextAt(geometry.Pt(98, 70)); got != "" {
		t.Errorf("point below the box resolved %q, want a miss", got)
	}
}

func TestExportRasterUsesPhysicalDimensions(t *testing.T) {
	b := New(Options{Width: 60, Height: 40, DPR: 2})
	b.Commit(rect(geometry.Pt(5, 5), geometry.Pt(30, 20)))

	data, err := b.ExportRaster()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not decodable PNG: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 120 || h != 80 {
		t.Errorf("export dimensions %dx%d, want physical 120x80", w, h)
	}
}

// Decode completion must never repaint on the decode goroutine: the
// engine only fires the invalidate hook, and pixels change when the
// shell re-enters Repaint on its own thread.
func TestDecodeCompletionDefersRepaintToShell(t *testing.T) {
	decoded := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			decoded.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	release := make(chan struct{})
	notified := make(chan struct{}, 1)
	b := New(Options{Width: 120, Height: 80, DPR: 1, ImageLoader: func(string) (image.Image, error) {
		<-release
		return decoded, nil
	}})
	b.RegisterInvalidate(func() { notified <- struct{}{} })

	b.CommitImage("", state.ImageElement{Src: "box.png", X: 10, Y: 10, Width: 40, Height: 40})
	close(release)
	<-notified

	r, g, _, _ := b.Snapshot().At(30, 30).RGBA()
	if g > r {
		t.Fatal("decode completion painted without the shell's repaint")
	}
	b.Repaint()
	r, g, _, _ = b.Snapshot().At(30, 30).RGBA()
	if g <= r {
		t.Error("ready image missing from the shell-driven repaint")
	}
}

func TestDeleteSheetDropsDecodedImages(t *testing.T) {
	var decodes atomic.Int32
	notified := make(chan struct{}, 2)
	b := New(Options{Width: 120, Height: 80, DPR: 1, ImageLoader: func(string) (image.Image, error) {
		decodes.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	}})
	b.RegisterInvalidate(func() { notified <- struct{}{} })

	scratch := b.AddSheet("scratch")
	b.CommitImage("", state.ImageElement{Src: "shared.png", X: 0, Y: 0, Width: 10, Height: 10})
	<-notified

	b.DeleteSheet(scratch.ID)
	b.CommitImage("", state.ImageElement{Src: "shared.png", X: 0, Y: 0, Width: 10, Height: 10})
	<-notified
	if n := decodes.Load(); n != 2 {
		t.Errorf("loader ran %d times, want a fresh decode after the sheet delete", n)
	}
}

func TestDeleteLastSheetRefused(t *testing.T) {
	b := newTestBoard()
	if b.DeleteSheet(b.ActiveSheet().ID) {
		t.Fatal("deleting the only sheet must be refused")
	}
	second := b.AddSheet("scratch")
	if !b.DeleteSheet(second.ID) {
		t.Fatal("deleting a non-last sheet should succeed")
	}
	if len(b.Sheets()) != 1 {
		t.Errorf("%d sheets remain, want 1", len(b.Sheets()))
	}
}

func TestSheetLogsAreIndependent(t *testing.T) {
	b := newTestBoard()
	first := b.ActiveSheet()
	b.Commit(rect(geometry.Pt(0, 0), geometry.Pt(10, 10)))

	b.AddSheet("second")
	b.Commit(rect(geometry.Pt(50, 50), geometry.Pt(70, 70)))
	b.Commit(rect(geometry.Pt(20, 20), geometry.Pt(40, 40)))

	if n := first.History.Len(); n != 1 {
		t.Errorf("first sheet log grew to %d while another sheet was active", n)
	}
	b.SwitchActive(first.ID)
	if n := b.ActiveSheet().History.Len(); n != 1 {
		t.Errorf("switching back found %d entries, want 1", n)
	}
}
