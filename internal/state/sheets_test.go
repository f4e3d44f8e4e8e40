package state

import (
	"image/color"
	"testing"

	"SketchDeck/internal/geometry"
)

func TestSheetManagerStartsWithOneSheet(t *testing.T) {
	sm := NewSheetManager()
	if len(sm.Sheets()) != 1 {
		t.Fatalf("new manager has %d sheets, want 1", len(sm.Sheets()))
	}
	if sm.Active() == nil || sm.Active().History.Index() != -1 {
		t.Error("initial sheet should be empty")
	}
}

func TestSheetManagerAddAndSwitch(t *testing.T) {
	sm := NewSheetManager()
	first := sm.Active()
	second := sm.Add("notes")
	if sm.Active() != second {
		t.Error("Add should activate the new sheet")
	}
	if second.Name != "notes" {
		t.Errorf("name = %q, want %q", second.Name, "notes")
	}
	if !sm.SwitchActive(first.ID) {
		t.Fatal("SwitchActive to known id failed")
	}
	if sm.Active() != first {
		t.Error("active sheet did not switch")
	}
	if sm.SwitchActive("missing") {
		t.Error("SwitchActive accepted an unknown id")
	}
}

func TestSheetManagerDefaultNames(t *testing.T) {
	sm := NewSheetManager()
	s2 := sm.Add("")
	if s2.Name != "Sheet 2" {
		t.Errorf("default name = %q, want %q", s2.Name, "Sheet 2")
	}
}

func TestSheetManagerDuplicateIsDeepCopy(t *testing.T) {
	sm := NewSheetManager()
	orig := sm.Active()
	id := orig.History.Append(NewFreehand([]geometry.Point{geometry.Pt(1, 1)}, color.Black, 2))

	dup := sm.Duplicate(orig.ID)
	if dup == nil {
		t.Fatal("Duplicate returned nil for a known id")
	}
	if dup.History.Len() != 1 || dup.History.Index() != 0 {
		t.Fatalf("duplicate log len=%d index=%d, want 1/0", dup.History.Len(), dup.History.Index())
	}

	// Mutations on the duplicate must not reach the original.
	dup.History.Clear()
	if orig.History.Len() != 1 {
		t.Error("clearing the duplicate emptied the original's log")
	}
	dup2 := sm.Duplicate(orig.ID)
	dup2.History.SetVisibility(id, false)
	if !orig.History.At(0).IsVisible() {
		t.Error("visibility toggle on duplicate leaked into the original")
	}

	if sm.Duplicate("missing") != nil {
		t.Error("Duplicate of unknown id should return nil")
	}
}

func TestSheetManagerDeleteKeepsAtLeastOne(t *testing.T) {
	sm := NewSheetManager()
	only := sm.Active()
	if sm.Delete(only.ID) {
		t.Fatal("deleted the only sheet")
	}

	second := sm.Add("")
	if !sm.Delete(second.ID) {
		t.Fatal("failed to delete a deletable sheet")
	}
	if len(sm.Sheets()) != 1 || sm.Active() != only {
		t.Error("active selection wrong after delete")
	}
}

func TestSheetManagerDeleteAdjustsActiveIndex(t *testing.T) {
	sm := NewSheetManager()
	first := sm.Active()
	second := sm.Add("")
	third := sm.Add("")
	sm.SwitchActive(third.ID)

	if !sm.Delete(first.ID) {
		t.Fatal("delete failed")
	}
	if sm.Active() != third {
		t.Errorf("active = %q, want the previously active sheet", sm.Active().Name)
	}
	if !sm.Delete(third.ID) {
		t.Fatal("delete of active sheet failed")
	}
	if sm.Active() != second {
		t.Error("active did not fall back to a remaining sheet")
	}
}

func TestSheetManagerRename(t *testing.T) {
	sm := NewSheetManager()
	s := sm.Active()
	sm.Rename(s.ID, "plans")
	if s.Name != "plans" {
		t.Errorf("name = %q, want %q", s.Name, "plans")
	}
	sm.Rename(s.ID, "")
	if s.Name != "plans" {
		t.Error("empty rename should be ignored")
	}
}
