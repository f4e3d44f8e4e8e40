package state

import (
	"fmt"
	"log"
)

// Sheet is one independently versioned canvas: a name plus its own
// history log and cursor.
type Sheet struct {
	ID      string
	Name    string
	History *History
}

// SheetManager owns every sheet and the active-sheet selector. Exactly
// one sheet exists at minimum and exactly one is active; only the active
// sheet's history feeds the render pipeline. All access happens on the
// single interaction thread, so there is no locking here.
type SheetManager struct {
	sheets []*Sheet
	active int
	serial int // monotonic counter for default names
}

// NewSheetManager starts with a single empty sheet.
func NewSheetManager() *SheetManager {
	sm := &SheetManager{}
	sm.Add("")
	return sm
}

// Add creates a fresh empty sheet, makes it active and returns it. An
// empty name gets a generated "Sheet N" default.
func (sm *SheetManager) Add(name string) *Sheet {
	sm.serial++
	if name == "" {
		name = fmt.Sprintf("Sheet %d", sm.serial)
	}
	s := &Sheet{ID: NewID(), Name: name, History: NewHistory()}
	sm.sheets = append(sm.sheets, s)
	sm.active = len(sm.sheets) - 1
	return s
}

// Duplicate deep-copies the sheet's log and cursor into a new sheet,
// independent from then on, and makes it active. Returns nil for an
// unknown id.
func (sm *SheetManager) Duplicate(id string) *Sheet {
	src := sm.byID(id)
	if src == nil {
		return nil
	}
	sm.serial++
	c := &Sheet{ID: NewID(), Name: src.Name + " copy", History: src.History.Clone()}
	sm.sheets = append(sm.sheets, c)
	sm.active = len(sm.sheets) - 1
	return c
}

// Rename sets the sheet's display name. Unknown ids are ignored.
func (sm *SheetManager) Rename(id, name string) {
	if s := sm.byID(id); s != nil && name != "" {
		s.Name = name
	}
}

// Delete removes the sheet. Deleting the last remaining sheet is refused:
// exactly one sheet must always exist. Returns whether a sheet was
// removed.
func (sm *SheetManager) Delete(id string) bool {
	if len(sm.sheets) <= 1 {
		log.Printf("[sheet] refusing to delete the only sheet")
		return false
	}
	for i, s := range sm.sheets {
		if s.ID == id {
			sm.sheets = append(sm.sheets[:i], sm.sheets[i+1:]...)
			if sm.active >= len(sm.sheets) {
				sm.active = len(sm.sheets) - 1
			} else if sm.active > i {
				sm.active--
			}
			return true
		}
	}
	return false
}

// SwitchActive makes the sheet with id the active one. Returns whether
// the switch happened; callers reset any in-flight interaction state on
// success, since ephemeral gestures are meaningless across sheets.
func (sm *SheetManager) SwitchActive(id string) bool {
	for i, s := range sm.sheets {
		if s.ID == id {
			sm.active = i
			return true
		}
	}
	return false
}

// Active returns the active sheet.
func (sm *SheetManager) Active() *Sheet {
	return sm.sheets[sm.active]
}

// Sheets returns the sheets in creation order.
func (sm *SheetManager) Sheets() []*Sheet {
	out := make([]*Sheet, len(sm.sheets))
	copy(out, sm.sheets)
	return out
}

func (sm *SheetManager) byID(id string) *Sheet {
	for _, s := range sm.sheets {
		if s.ID == id {
			return s
		}
	}
	return nil
}
