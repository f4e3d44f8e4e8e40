// Package input contains the interaction controller: the state machine
// that turns normalized pointer events into either live preview overlay
// updates or committed actions. It never touches a surface directly and
// never mutates the history mid-gesture; a gesture only becomes an
// action on an explicit release.
package input

import (
	"image/color"

	"SketchDeck/internal/geometry"
	"SketchDeck/internal/render"
	"SketchDeck/internal/state"
)

// Tool is the active drawing mode, chosen by the toolbar collaborator.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
	ToolLine
	ToolRectangle
	ToolCircle
	ToolTriangle
	ToolText
	ToolImage
	ToolSelect
)

type phase int

const (
	phaseIdle phase = iota
	phaseStroking
	phaseErasing
	phaseShaping
	phaseDraggingText
)

// Controller consumes pointer input for the active sheet. The embedding
// board wires Commit/HitText/HitShape/Repaint; UI collaborators register
// the On* callbacks to hear about commits and selections.
type Controller struct {
	// Wiring to the owning board.
	Commit   func(a state.Action) string
	HitText  func(p geometry.Point) *state.Text
	HitShape func(p geometry.Point) *state.Shape
	Repaint  func()

	// Collaborator notifications.
	OnCommit        func(id string)
	OnTextSelected  func(id string, el state.TextElement)
	OnTextMoved     func(id string, prev state.TextElement)
	OnTextMiss      func(p geometry.Point)
	OnShapeSelected func(id string, sh *state.Shape)

	// Current style settings, mutated by the toolbar.
	StrokeColor color.Color
	StrokeWidth float64
	FillColor   color.Color
	Filled      bool
	EraserSize  float64

	overlay *render.Overlay

	tool       Tool
	phase      phase
	points     []geometry.Point
	start      *geometry.Point
	last       geometry.Point
	dragText   *state.Text
	dragOffset geometry.Point
}

// NewController builds a controller sharing the board's overlay record.
func NewController(overlay *render.Overlay) *Controller {
	return &Controller{
		StrokeColor: color.Black,
		StrokeWidth: 2,
		FillColor:   color.White,
		EraserSize:  20,
		overlay:     overlay,
	}
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches tools, abandoning any gesture in flight.
func (c *Controller) SetTool(t Tool) {
	if c.phase != phaseIdle {
		c.Cancel()
	}
	c.tool = t
	if t != ToolEraser && c.overlay.Hover != nil {
		c.overlay.Hover = nil
		c.repaint()
	}
}

// PointerDown begins a gesture at p (logical coordinates).
func (c *Controller) PointerDown(p geometry.Point) {
	c.last = p
	switch c.tool {
	case ToolPen:
		c.phase = phaseStroking
		c.points = []geometry.Point{p}
		c.overlay.StrokePoints = c.points
		c.overlay.StrokeColor = c.StrokeColor
		c.overlay.StrokeWidth = c.StrokeWidth
		c.repaint()
	case ToolEraser:
		c.phase = phaseErasing
		c.points = []geometry.Point{p}
		c.overlay.ErasePoints = c.points
		c.overlay.EraseSize = c.EraserSize
		c.overlay.Hover = nil
		c.repaint()
	case ToolLine, ToolRectangle, ToolCircle, ToolTriangle:
		c.phase = phaseShaping
		start := p
		c.start = &start
		c.overlay.Shape = &render.ShapePreview{
			Line:  c.tool == ToolLine,
			Kind:  c.shapeKind(),
			Start: p,
			End:   p,
			Style: c.style(),
		}
		c.repaint()
	case ToolText:
		if c.HitText == nil {
			return
		}
		if t := c.HitText(p); t != nil {
			c.phase = phaseDraggingText
			c.dragText = t
			anchor := geometry.Pt(t.Data.X, t.Data.Y)
			c.dragOffset = anchor.Sub(p)
			c.overlay.DragID = t.ActionID()
			c.overlay.DragPos = anchor
			if c.OnTextSelected != nil {
				c.OnTextSelected(t.ActionID(), t.Data)
			}
			c.repaint()
		} else if c.OnTextMiss != nil {
			// The collaborator opens its text entry affordance and
			// later commits through the board API.
			c.OnTextMiss(p)
		}
	case ToolSelect:
		if c.HitShape == nil {
			return
		}
		if sh := c.HitShape(p); sh != nil && c.OnShapeSelected != nil {
			c.OnShapeSelected(sh.ActionID(), sh)
		}
	case ToolImage:
		// Image placement is driven entirely by the collaborator's own
		// preview; normal draw gestures are suppressed for this tool.
	}
}

// PointerMove extends the gesture, or updates the eraser hover cue when
// idle.
func (c *Controller) PointerMove(p geometry.Point) {
	c.last = p
	switch c.phase {
	case phaseStroking:
		c.points = append(c.points, p)
		c.overlay.StrokePoints = c.points
		c.repaint()
	case phaseErasing:
		c.points = append(c.points, p)
		c.overlay.ErasePoints = c.points
		c.repaint()
	case phaseShaping:
		if c.overlay.Shape != nil {
			c.overlay.Shape.End = p
			c.repaint()
		}
	case phaseDraggingText:
		c.overlay.DragPos = p.Add(c.dragOffset)
		c.repaint()
	default:
		if c.tool == ToolEraser {
			hover := p
			c.overlay.Hover = &hover
			c.overlay.HoverSize = c.EraserSize
			c.repaint()
		}
	}
}

// PointerUp ends the gesture at p, committing its action. Gestures with
// missing geometry (no recorded start) end as silent no-ops. Zero-length
// gestures are committed: a one-point stroke or zero-area shape is a
// legal entry that renders as (nearly) nothing.
func (c *Controller) PointerUp(p geometry.Point) {
	switch c.phase {
	case phaseStroking:
		c.commit(state.NewFreehand(c.points, c.StrokeColor, c.StrokeWidth))
	case phaseErasing:
		c.commit(state.NewEraser(c.points, c.EraserSize))
	case phaseShaping:
		if c.start == nil {
			break
		}
		if c.tool == ToolLine {
			c.commit(state.NewLine(*c.start, p, c.StrokeColor, c.StrokeWidth))
		} else {
			c.commit(state.NewShape("", c.shapeKind(), *c.start, p, c.StrokeColor, c.StrokeWidth, c.FillColor, c.Filled))
		}
	case phaseDraggingText:
		if c.dragText == nil {
			break
		}
		anchor := p.Add(c.dragOffset)
		prev := c.dragText.Data
		moved := prev
		moved.X, moved.Y = anchor.X, anchor.Y
		id := c.dragText.ActionID()
		c.reset()
		if c.Commit != nil {
			c.Commit(state.NewText(id, moved))
		}
		if c.OnTextMoved != nil {
			c.OnTextMoved(id, prev)
		}
		c.repaint()
		return
	}
	c.reset()
	c.repaint()
}

// PointerLeave synthesizes a release at the last known position so a
// drag that exits the surface still finalizes instead of dangling.
func (c *Controller) PointerLeave() {
	if c.phase != phaseIdle {
		c.PointerUp(c.last)
		return
	}
	if c.overlay.Hover != nil {
		c.overlay.Hover = nil
		c.repaint()
	}
}

// Cancel abandons the in-progress gesture without committing anything,
// for escape-key or tool-switch interruptions signaled by the
// collaborator.
func (c *Controller) Cancel() {
	c.reset()
	c.repaint()
}

func (c *Controller) commit(a state.Action) {
	if c.Commit == nil {
		return
	}
	id := c.Commit(a)
	if c.OnCommit != nil {
		c.OnCommit(id)
	}
}

func (c *Controller) reset() {
	c.phase = phaseIdle
	c.points = nil
	c.start = nil
	c.dragText = nil
	c.overlay.ResetGesture()
}

func (c *Controller) repaint() {
	if c.Repaint != nil {
		c.Repaint()
	}
}

func (c *Controller) style() render.Style {
	return render.Style{
		StrokeColor: c.StrokeColor,
		StrokeWidth: c.StrokeWidth,
		FillColor:   c.FillColor,
		Filled:      c.Filled,
	}
}

func (c *Controller) shapeKind() state.ShapeKind {
	switch c.tool {
	case ToolCircle:
		return state.ShapeCircle
	case ToolTriangle:
		return state.ShapeTriangle
	default:
		return state.ShapeRectangle
	}
}
