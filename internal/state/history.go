package state

// History is one sheet's ordered log of committed actions plus the
// undo/redo cursor. The log is append-only with a single documented
// exception: SetVisibility mutates existing occurrences in place, because
// the hide/show toggle must not disturb the undo position.
//
// Index ranges over [-1, len(log)); -1 means nothing is applied (empty
// canvas). Entries above the index are the redo tail and are excluded
// from rendering and resolution.
type History struct {
	log   []Action
	index int
}

// NewHistory returns an empty history with the cursor at -1.
func NewHistory() *History {
	return &History{index: -1}
}

// Append truncates any redo tail, pushes the action and moves the cursor
// onto it. A fresh id is allocated when the action has none; edits that
// re-commit an existing identity keep theirs. Returns the action's id.
func (h *History) Append(a Action) string {
	if a == nil {
		return ""
	}
	if a.ActionID() == "" {
		a.setID(NewID())
	}
	h.log = h.log[:h.index+1]
	h.log = append(h.log, a)
	h.index = len(h.log) - 1
	return a.ActionID()
}

// Undo moves the cursor back one action; no-op at the lower bound.
func (h *History) Undo() {
	if h.index >= 0 {
		h.index--
	}
}

// Redo moves the cursor forward one action; no-op at the upper bound.
func (h *History) Redo() {
	if h.index < len(h.log)-1 {
		h.index++
	}
}

// Clear resets the log to empty and the cursor to -1.
func (h *History) Clear() {
	h.log = nil
	h.index = -1
}

// Len returns the total log length including any redo tail.
func (h *History) Len() int { return len(h.log) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// At returns the i-th logged action.
func (h *History) At(i int) Action { return h.log[i] }

// SetVisibility flips the visibility flag on every logged occurrence of
// id, applied or not. This mutates the log in place rather than appending
// a revision, by contract with the UI's hide/show toggle.
func (h *History) SetVisibility(id string, visible bool) {
	for _, a := range h.log {
		if a.ActionID() == id {
			a.setVisible(visible)
		}
	}
}

// ResolveLatest computes the current revision of every Text, Shape and
// Image identity at or before upto: the last visible occurrence wins, and
// an occurrence with visible=false removes the identity outright. The
// result is ordered by each identity's first introduction in the log,
// which is the deferred paint order. Freehand, Line and Eraser entries
// never appear here; they are replayed sequentially by the pipeline.
func (h *History) ResolveLatest(upto int) []Action {
	if upto > h.index {
		upto = h.index
	}
	var order []string
	current := make(map[string]Action)
	for i := 0; i <= upto; i++ {
		a := h.log[i]
		if !resolvable(a) {
			continue
		}
		id := a.ActionID()
		if _, seen := current[id]; !seen {
			introduced := false
			for _, prev := range order {
				if prev == id {
					introduced = true
					break
				}
			}
			if !introduced {
				order = append(order, id)
			}
		}
		if a.IsVisible() {
			current[id] = a
		} else {
			delete(current, id)
		}
	}
	out := make([]Action, 0, len(current))
	for _, id := range order {
		if a, ok := current[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// ResolveByID returns the most recent occurrence of id at or before the
// cursor regardless of visibility, or nil. Callers that need "is it on
// screen" should check IsVisible on the result.
func (h *History) ResolveByID(id string) Action {
	for i := h.index; i >= 0; i-- {
		if h.log[i].ActionID() == id {
			return h.log[i]
		}
	}
	return nil
}

// Clone deep-copies the log and cursor so the copy's future mutations
// (including in-place visibility toggles) never leak back.
func (h *History) Clone() *History {
	c := &History{index: h.index}
	if h.log != nil {
		c.log = make([]Action, len(h.log))
		for i, a := range h.log {
			c.log[i] = a.Clone()
		}
	}
	return c
}
