package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchDeck/internal/board"
	"SketchDeck/internal/export"
	"SketchDeck/internal/input"
	"SketchDeck/internal/state"
)

// Remember the pen color when switching back from the eraser.
var lastSelectedColor color.Color = color.Black

// --- Custom widget for color swatches ---

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var toolNames = []string{"Pen", "Eraser", "Line", "Rectangle", "Circle", "Triangle", "Text", "Select"}

var toolByName = map[string]input.Tool{
	"Pen":       input.ToolPen,
	"Eraser":    input.ToolEraser,
	"Line":      input.ToolLine,
	"Rectangle": input.ToolRectangle,
	"Circle":    input.ToolCircle,
	"Triangle":  input.ToolTriangle,
	"Text":      input.ToolText,
	"Select":    input.ToolSelect,
}

// NewToolbar assembles the tool picker, history actions, color palette
// and stroke slider. Everything here talks to the engine only through
// the controller's style fields and the board's public operations.
func NewToolbar(engine *board.Board, win fyne.Window) fyne.CanvasObject {
	ctl := engine.Controller()

	toolSelect := widget.NewSelect(toolNames, func(name string) {
		engine.ClearSelection()
		ctl.SetTool(toolByName[name])
		if ctl.Tool() != input.ToolEraser {
			ctl.StrokeColor = lastSelectedColor
		}
	})
	toolSelect.SetSelected("Pen")

	filled := widget.NewCheck("Fill", func(on bool) {
		ctl.Filled = on
	})

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), engine.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), engine.Redo),
		widget.NewToolbarAction(theme.DeleteIcon(), engine.Clear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
				if err != nil || wc == nil {
					return
				}
				defer wc.Close()
				if err := export.PNG(wc, engine); err != nil {
					log.Printf("[ui] export failed: %v", err)
					dialog.ShowError(err, win)
				}
			}, win)
		}),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), func() {
			dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
				if err != nil || rc == nil {
					return
				}
				src := rc.URI().Path()
				rc.Close()
				engine.CommitImage("", state.ImageElement{
					Src: src, X: 40, Y: 40, Width: 200, Height: 150,
				})
			}, win)
		}),
	)

	onColorTapped := func(c color.Color) {
		lastSelectedColor = c
		ctl.StrokeColor = c
	}
	colorBox := container.NewHBox(
		newColorSwatch(color.Black, onColorTapped),
		newColorSwatch(color.NRGBA{R: 255, A: 255}, onColorTapped),         // Red
		newColorSwatch(color.NRGBA{G: 255, A: 255}, onColorTapped),         // Green
		newColorSwatch(color.NRGBA{B: 255, A: 255}, onColorTapped),         // Blue
		newColorSwatch(color.NRGBA{R: 255, G: 255, A: 255}, onColorTapped), // Yellow
	)

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(2.0)
	strokeSlider.OnChanged = func(val float64) {
		if ctl.Tool() == input.ToolEraser {
			ctl.EraserSize = val
		} else {
			ctl.StrokeWidth = val
		}
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		filled,
		widget.NewSeparator(),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
