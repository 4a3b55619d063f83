package tui

import (
	"sort"
	"sync"

	"tgboard/internal/types"
)

// Focus areas inside the send section.
const (
	sendFocusGroups = iota
	sendFocusTemplates
	sendFocusMessage
	sendFocusCount
)

// SendState encapsulates the send-section state: the group checklist,
// the template picker and the message draft. Selection lives here, not
// in the rendered output, so a re-render never loses it.
type SendState struct {
	mu sync.RWMutex

	groups    []types.Group
	templates []types.Template

	selected       map[int]bool
	groupCursor    int
	templateCursor int

	draft  string
	result *types.SendResult
	focus  int
}

// NewSendState creates an empty send state.
func NewSendState() *SendState {
	return &SendState{
		selected: make(map[int]bool),
	}
}

// SetData replaces both lists wholesale (each fetch is authoritative).
// Selections pointing at groups that no longer exist are pruned.
func (s *SendState) SetData(groups []types.Group, templates []types.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = groups
	s.templates = templates

	known := make(map[int]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}
	for id := range s.selected {
		if !known[id] {
			delete(s.selected, id)
		}
	}

	s.groupCursor = clampIndex(s.groupCursor, len(s.groups))
	s.templateCursor = clampIndex(s.templateCursor, len(s.templates))
}

// Groups returns a copy of the group list.
func (s *SendState) Groups() []types.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.Group, len(s.groups))
	copy(result, s.groups)
	return result
}

// Templates returns a copy of the template list.
func (s *SendState) Templates() []types.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.Template, len(s.templates))
	copy(result, s.templates)
	return result
}

// MoveGroupCursor moves the checklist cursor, wrapping around.
func (s *SendState) MoveGroupCursor(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupCursor = wrapIndex(s.groupCursor+delta, len(s.groups))
}

// MoveTemplateCursor moves the template picker cursor, wrapping around.
func (s *SendState) MoveTemplateCursor(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templateCursor = wrapIndex(s.templateCursor+delta, len(s.templates))
}

// GroupCursor returns the checklist cursor position.
func (s *SendState) GroupCursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupCursor
}

// TemplateCursor returns the template picker cursor position.
func (s *SendState) TemplateCursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templateCursor
}

// ToggleGroup flips the checkbox under the cursor.
func (s *SendState) ToggleGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.groups) == 0 {
		return
	}
	id := s.groups[s.groupCursor].ID
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
}

// IsSelected reports whether a group id is checked.
func (s *SendState) IsSelected(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id]
}

// SelectedIDs returns the checked group ids in ascending order.
func (s *SendState) SelectedIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CurrentTemplate returns the template under the picker cursor.
func (s *SendState) CurrentTemplate() *types.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.templates) == 0 || s.templateCursor < 0 || s.templateCursor >= len(s.templates) {
		return nil
	}
	t := s.templates[s.templateCursor]
	return &t
}

// ApplyTemplate copies the selected template's content into the draft.
// One-shot copy: later edits to either side do not propagate.
func (s *SendState) ApplyTemplate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.templates) == 0 || s.templateCursor < 0 || s.templateCursor >= len(s.templates) {
		return false
	}
	s.draft = s.templates[s.templateCursor].Content
	return true
}

// Draft returns the message draft.
func (s *SendState) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the message draft.
func (s *SendState) SetDraft(draft string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

// ClearDraft empties the draft and unchecks every group, the post-send
// form reset. The last result stays visible.
func (s *SendState) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = ""
	s.selected = make(map[int]bool)
}

// SetResult stores the outcome of the last broadcast.
func (s *SendState) SetResult(result *types.SendResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

// Result returns the outcome of the last broadcast, nil if none.
func (s *SendState) Result() *types.SendResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Focus returns the active focus area.
func (s *SendState) Focus() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// NextFocus cycles through groups, templates and message areas.
func (s *SendState) NextFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = (s.focus + 1) % sendFocusCount
}

// SetFocus sets the active focus area.
func (s *SendState) SetFocus(focus int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if focus >= 0 && focus < sendFocusCount {
		s.focus = focus
	}
}

// Reset wipes everything back to the initial state.
func (s *SendState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = nil
	s.templates = nil
	s.selected = make(map[int]bool)
	s.groupCursor = 0
	s.templateCursor = 0
	s.draft = ""
	s.result = nil
	s.focus = sendFocusGroups
}

func wrapIndex(idx, length int) int {
	if length == 0 {
		return 0
	}
	if idx < 0 {
		return length - 1
	}
	if idx >= length {
		return 0
	}
	return idx
}
