package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"SketchDeck/internal/board"
	"SketchDeck/internal/geometry"
	"SketchDeck/internal/state"
)

// RunApp launches the desktop shell around one drawing engine. The shell
// is the engine's "collaborator": it chooses tools and styles, opens the
// text entry affordance, and manages sheets — always through the board's
// public operations.
func RunApp() {
	myApp := app.New()
	myWindow := myApp.NewWindow("SketchDeck")
	myWindow.Resize(fyne.NewSize(1024, 720))

	engine := board.New(board.Options{Width: 1024, Height: 640, DPR: 1})
	boardWidget := NewBoardWidget(engine)
	toolbar := NewToolbar(engine, myWindow)
	sheetBar := newSheetBar(engine)

	ctl := engine.Controller()
	ctl.OnTextMiss = func(p geometry.Point) {
		el := state.TextElement{
			X: p.X, Y: p.Y,
			FontFamily: "Go", FontSize: 18,
			Color: color.Black, Align: state.AlignLeft,
		}
		showTextEditor(myWindow, engine, "", el)
	}
	ctl.OnTextSelected = func(id string, _ state.TextElement) {
		engine.SetSelection(id)
	}
	ctl.OnTextMoved = func(id string, _ state.TextElement) {
		// Resume editing at the drop position with the latest revision.
		if t, ok := engine.ResolveByID(id).(*state.Text); ok {
			showTextEditor(myWindow, engine, id, t.Data)
		}
	}
	ctl.OnShapeSelected = func(id string, _ *state.Shape) {
		engine.SetSelection(id)
	}

	top := container.NewVBox(toolbar, sheetBar.container)
	content := container.NewBorder(top, nil, nil, nil, boardWidget)

	myWindow.SetContent(content)
	engine.Repaint()
	myWindow.ShowAndRun()
}

// showTextEditor opens the authoring form for a new or existing text
// element and commits through the board API on confirm.
func showTextEditor(win fyne.Window, engine *board.Board, id string, el state.TextElement) {
	textEntry := widget.NewEntry()
	textEntry.SetText(el.Text)
	sizeEntry := widget.NewEntry()
	sizeEntry.SetText(strconv.FormatFloat(el.FontSize, 'f', -1, 64))
	bold := widget.NewCheck("Bold", nil)
	bold.SetChecked(el.Bold)
	italic := widget.NewCheck("Italic", nil)
	italic.SetChecked(el.Italic)
	underline := widget.NewCheck("Underline", nil)
	underline.SetChecked(el.Underline)
	align := widget.NewSelect([]string{"left", "center", "right"}, nil)
	align.SetSelected(string(el.Align))

	items := []*widget.FormItem{
		widget.NewFormItem("Text", textEntry),
		widget.NewFormItem("Size", sizeEntry),
		widget.NewFormItem("", container.NewHBox(bold, italic, underline)),
		widget.NewFormItem("Align", align),
	}

	dialog.ShowForm("Text", "OK", "Cancel", items, func(ok bool) {
		if !ok || textEntry.Text == "" {
			return
		}
		el.Text = textEntry.Text
		if size, err := strconv.ParseFloat(sizeEntry.Text, 64); err == nil && size > 0 {
			el.FontSize = size
		}
		el.Bold = bold.Checked
		el.Italic = italic.Checked
		el.Underline = underline.Checked
		el.Align = state.Align(align.Selected)
		engine.CommitText(id, el)
	}, win)
}

// sheetBar is the sheet-tab management strip: switch, add, duplicate,
// rename, delete.
type sheetBar struct {
	container *fyne.Container
	engine    *board.Board
	selector  *widget.Select
}

func newSheetBar(engine *board.Board) *sheetBar {
	sb := &sheetBar{engine: engine}
	sb.selector = widget.NewSelect(nil, func(string) {
		idx := sb.selector.SelectedIndex()
		sheets := engine.Sheets()
		if idx >= 0 && idx < len(sheets) {
			engine.SwitchActive(sheets[idx].ID)
		}
	})

	add := widget.NewButton("New", func() {
		engine.AddSheet("")
		sb.refresh()
	})
	duplicate := widget.NewButton("Duplicate", func() {
		engine.DuplicateSheet(engine.ActiveSheet().ID)
		sb.refresh()
	})
	rename := widget.NewButton("Rename", func() {
		entry := widget.NewEntry()
		entry.SetText(engine.ActiveSheet().Name)
		items := []*widget.FormItem{widget.NewFormItem("Name", entry)}
		dialog.ShowForm("Rename sheet", "OK", "Cancel", items, func(ok bool) {
			if ok {
				engine.RenameSheet(engine.ActiveSheet().ID, entry.Text)
				sb.refresh()
			}
		}, fyne.CurrentApp().Driver().AllWindows()[0])
	})
	del := widget.NewButton("Delete", func() {
		if engine.DeleteSheet(engine.ActiveSheet().ID) {
			sb.refresh()
		}
	})

	sb.container = container.NewHBox(
		widget.NewLabel("Sheet:"), sb.selector, add, duplicate, rename, del,
	)
	sb.refresh()
	return sb
}

func (sb *sheetBar) refresh() {
	sheets := sb.engine.Sheets()
	names := make([]string, len(sheets))
	activeIdx := 0
	activeID := sb.engine.ActiveSheet().ID
	for i, s := range sheets {
		names[i] = s.Name
		if s.ID == activeID {
			activeIdx = i
		}
	}
	sb.selector.Options = names
	sb.selector.SetSelectedIndex(activeIdx)
	sb.selector.Refresh()
}
