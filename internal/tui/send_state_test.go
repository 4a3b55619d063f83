package tui

import (
	"reflect"
	"sync"
	"testing"

	"tgboard/internal/types"
)

func testGroups() []types.Group {
	return []types.Group{
		{ID: 3, ChatID: "-100333", Name: "Ops", Active: true},
		{ID: 1, ChatID: "-100111", Name: "Sales", Active: true},
		{ID: 2, ChatID: "-100222", Name: "Announcements", Active: false},
	}
}

func testTemplates() []types.Template {
	return []types.Template{
		{ID: 10, Name: "greeting", Content: "Hello everyone"},
		{ID: 11, Name: "maintenance", Content: "Downtime tonight"},
	}
}

func TestSendStateDefaults(t *testing.T) {
	s := NewSendState()

	if got := s.SelectedIDs(); len(got) != 0 {
		t.Errorf("expected no selections, got %v", got)
	}
	if s.Draft() != "" {
		t.Errorf("expected empty draft, got %q", s.Draft())
	}
	if s.Result() != nil {
		t.Error("expected nil result")
	}
	if s.Focus() != sendFocusGroups {
		t.Errorf("expected groups focus, got %d", s.Focus())
	}
	if s.CurrentTemplate() != nil {
		t.Error("expected nil current template on empty state")
	}
}

func TestToggleGroupAndSelectedOrder(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), nil)

	// Cursor starts on ID 3; toggle it, then move and toggle ID 1.
	s.ToggleGroup()
	s.MoveGroupCursor(1)
	s.ToggleGroup()

	if !s.IsSelected(3) || !s.IsSelected(1) {
		t.Fatal("expected groups 3 and 1 selected")
	}
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("expected ascending ids [1 3], got %v", got)
	}

	// Toggling again deselects.
	s.ToggleGroup()
	if s.IsSelected(1) {
		t.Error("expected group 1 deselected after second toggle")
	}
}

func TestCursorWrapsAround(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), testTemplates())

	s.MoveGroupCursor(-1)
	if got := s.GroupCursor(); got != 2 {
		t.Errorf("expected cursor to wrap to 2, got %d", got)
	}
	s.MoveGroupCursor(1)
	if got := s.GroupCursor(); got != 0 {
		t.Errorf("expected cursor to wrap to 0, got %d", got)
	}

	s.MoveTemplateCursor(-1)
	if got := s.TemplateCursor(); got != 1 {
		t.Errorf("expected template cursor 1, got %d", got)
	}
}

func TestApplyTemplateIsOneShotCopy(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), testTemplates())

	if !s.ApplyTemplate() {
		t.Fatal("expected ApplyTemplate to succeed")
	}
	if s.Draft() != "Hello everyone" {
		t.Fatalf("expected template content in draft, got %q", s.Draft())
	}

	// Replacing the template list must not touch the already-copied draft.
	s.SetData(testGroups(), []types.Template{
		{ID: 10, Name: "greeting", Content: "CHANGED"},
	})
	if s.Draft() != "Hello everyone" {
		t.Errorf("draft changed after template update: %q", s.Draft())
	}

	// Editing the draft does not propagate back either.
	s.SetDraft("Hello everyone, edited")
	if s.Templates()[0].Content != "CHANGED" {
		t.Error("template content mutated by draft edit")
	}
}

func TestApplyTemplateEmptyList(t *testing.T) {
	s := NewSendState()
	if s.ApplyTemplate() {
		t.Error("expected ApplyTemplate to fail with no templates")
	}
}

func TestSetDataPrunesStaleSelections(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), nil)
	s.ToggleGroup() // selects ID 3

	// New fetch no longer contains group 3.
	s.SetData([]types.Group{
		{ID: 1, ChatID: "-100111", Name: "Sales", Active: true},
	}, nil)

	if s.IsSelected(3) {
		t.Error("selection for removed group survived SetData")
	}
	if got := s.GroupCursor(); got != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", got)
	}
}

func TestClearDraftKeepsResult(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), nil)
	s.ToggleGroup()
	s.SetDraft("hello")
	s.SetResult(&types.SendResult{TotalSent: 2, SentGroups: []string{"Ops", "Sales"}})

	s.ClearDraft()

	if s.Draft() != "" {
		t.Errorf("expected empty draft, got %q", s.Draft())
	}
	if len(s.SelectedIDs()) != 0 {
		t.Error("expected selections cleared")
	}
	if s.Result() == nil {
		t.Error("result should survive ClearDraft")
	}
}

func TestResetWipesEverything(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), testTemplates())
	s.ToggleGroup()
	s.SetDraft("hello")
	s.SetResult(&types.SendResult{TotalSent: 1})
	s.SetFocus(sendFocusMessage)

	s.Reset()

	if len(s.Groups()) != 0 || len(s.Templates()) != 0 {
		t.Error("expected empty lists after reset")
	}
	if s.Draft() != "" || s.Result() != nil || len(s.SelectedIDs()) != 0 {
		t.Error("expected draft, result and selections wiped")
	}
	if s.Focus() != sendFocusGroups {
		t.Errorf("expected focus reset to groups, got %d", s.Focus())
	}
}

func TestGroupsReturnsCopy(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), nil)

	got := s.Groups()
	got[0].Name = "mutated"

	if s.Groups()[0].Name == "mutated" {
		t.Error("Groups() leaked internal slice")
	}
}

func TestSendStateConcurrentAccess(t *testing.T) {
	s := NewSendState()
	s.SetData(testGroups(), testTemplates())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.MoveGroupCursor(1)
			s.ToggleGroup()
		}()
		go func() {
			defer wg.Done()
			s.SetDraft("concurrent")
			_ = s.Draft()
		}()
		go func() {
			defer wg.Done()
			_ = s.SelectedIDs()
			_ = s.Groups()
		}()
	}
	wg.Wait()

	if got := s.GroupCursor(); got < 0 || got >= len(testGroups()) {
		t.Errorf("cursor out of range after concurrent access: %d", got)
	}
}
