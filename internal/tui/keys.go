package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes a key press to the active mode.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeLogin:
		return m.handleLoginKey(msg)
	case ModeNormal:
		return m.handleNormalKey(msg)
	case ModeTemplateCreate:
		return m.handleTemplateFormKey(msg)
	case ModeGroupAdd:
		return m.handleGroupFormKey(msg)
	case ModeUserCreate:
		return m.handleUserFormKey(msg)
	case ModeTemplateDeleteConfirm:
		return m.handleConfirmKey(msg, SectionTemplates)
	case ModeUserDeleteConfirm:
		return m.handleConfirmKey(msg, SectionAdmin)
	}
	return nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.loginForm.focus = cycleFocus(m.loginForm.focus, 2, false)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.loginForm.focus = cycleFocus(m.loginForm.focus, 2, true)
		return nil
	case tea.KeyEnter:
		if m.loginForm.focus == 0 {
			m.loginForm.focus = 1
			return nil
		}
		return m.submitLogin()
	}

	var consumed bool
	if m.loginForm.focus == 0 {
		m.loginForm.email, consumed = editField(m.loginForm.email, msg)
	} else {
		m.loginForm.password, consumed = editField(m.loginForm.password, msg)
	}
	if consumed {
		m.loginForm.errText = ""
	}
	return nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	// Text-entry contexts swallow most keys before global navigation.
	if m.section == SectionSend && m.send.Focus() == sendFocusMessage {
		return m.handleMessageEditKey(msg)
	}
	if m.section == SectionProfile && m.profileForm.editing {
		return m.handleProfileEditKey(msg)
	}

	switch msg.String() {
	case "q":
		m.Cleanup()
		return tea.Quit
	case "L":
		return m.logout()
	case "r":
		return m.loadSection(m.section)
	case "tab":
		return m.cycleSection(1)
	case "shift+tab":
		return m.cycleSection(-1)
	case "1", "2", "3", "4", "5", "6", "7":
		idx := int(msg.String()[0] - '1')
		sections := m.visibleSections()
		if idx < len(sections) {
			return m.switchSection(sections[idx])
		}
		return nil
	}

	switch m.section {
	case SectionProfile:
		if msg.String() == "e" {
			m.profileForm.editing = true
		}
	case SectionSend:
		return m.handleSendKey(msg)
	case SectionTemplates:
		return m.handleTemplatesKey(msg)
	case SectionGroups:
		return m.handleGroupsKey(msg)
	case SectionHistory:
		return m.handleHistoryKey(msg)
	case SectionAdmin:
		return m.handleAdminKey(msg)
	}
	return nil
}

// cycleSection moves to the next or previous visible section.
func (m *Model) cycleSection(delta int) tea.Cmd {
	sections := m.visibleSections()
	cur := 0
	for i, s := range sections {
		if s == m.section {
			cur = i
			break
		}
	}
	next := (cur + delta + len(sections)) % len(sections)
	return m.switchSection(sections[next])
}

func (m *Model) handleSendKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlS {
		return m.submitSend()
	}

	switch msg.String() {
	case "left", "h", "right", "l":
		if m.send.Focus() == sendFocusGroups {
			m.send.SetFocus(sendFocusTemplates)
		} else {
			m.send.SetFocus(sendFocusGroups)
		}
	case "up", "k":
		if m.send.Focus() == sendFocusGroups {
			m.send.MoveGroupCursor(-1)
		} else {
			m.send.MoveTemplateCursor(-1)
		}
	case "down", "j":
		if m.send.Focus() == sendFocusGroups {
			m.send.MoveGroupCursor(1)
		} else {
			m.send.MoveTemplateCursor(1)
		}
	case " ", "enter":
		if m.send.Focus() == sendFocusGroups {
			m.send.ToggleGroup()
			return nil
		}
		if m.send.ApplyTemplate() {
			return m.setToast("Template copied into message", toastInfo)
		}
	case "e":
		m.send.SetFocus(sendFocusMessage)
	}
	return nil
}

// handleMessageEditKey edits the broadcast draft. Esc returns to the
// group checklist; ctrl+s submits from inside the editor.
func (m *Model) handleMessageEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.send.SetFocus(sendFocusGroups)
		return nil
	case tea.KeyCtrlS:
		return m.submitSend()
	case tea.KeyEnter:
		m.send.SetDraft(m.send.Draft() + "\n")
		return nil
	}
	if next, ok := editField(m.send.Draft(), msg); ok {
		m.send.SetDraft(next)
	}
	return nil
}

func (m *Model) handleProfileEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.profileForm.editing = false
		return nil
	case tea.KeyCtrlS:
		m.profileForm.editing = false
		return m.submitProfileUpdate()
	case tea.KeyTab, tea.KeyDown:
		m.profileForm.focus = cycleFocus(m.profileForm.focus, 2, false)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.profileForm.focus = cycleFocus(m.profileForm.focus, 2, true)
		return nil
	case tea.KeyEnter:
		if m.profileForm.focus == 0 {
			m.profileForm.focus = 1
			return nil
		}
		m.profileForm.editing = false
		return m.submitProfileUpdate()
	}

	if m.profileForm.focus == 0 {
		m.profileForm.name, _ = editField(m.profileForm.name, msg)
	} else {
		m.profileForm.password, _ = editField(m.profileForm.password, msg)
	}
	return nil
}

func (m *Model) handleTemplatesKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.templateIndex = wrapIndex(m.templateIndex-1, len(m.templates))
		m.updatePreviewView()
	case "down", "j":
		m.templateIndex = wrapIndex(m.templateIndex+1, len(m.templates))
		m.updatePreviewView()
	case "pgup":
		m.previewView.HalfViewUp()
	case "pgdown":
		m.previewView.HalfViewDown()
	case "n":
		m.templateForm = templateForm{}
		m.mode = ModeTemplateCreate
	case "d":
		if len(m.templates) > 0 {
			m.pendingDeleteID = m.templates[m.templateIndex].ID
			m.mode = ModeTemplateDeleteConfirm
		}
	case "y":
		if len(m.templates) > 0 {
			return m.copyToClipboard(m.templates[m.templateIndex].Content)
		}
	}
	return nil
}

func (m *Model) handleGroupsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.groupIndex = wrapIndex(m.groupIndex-1, len(m.groups))
	case "down", "j":
		m.groupIndex = wrapIndex(m.groupIndex+1, len(m.groups))
	case "n":
		m.groupForm = groupForm{}
		m.mode = ModeGroupAdd
	}
	return nil
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.historyIndex = wrapIndex(m.historyIndex-1, len(m.history))
	case "down", "j":
		m.historyIndex = wrapIndex(m.historyIndex+1, len(m.history))
	case "y":
		if len(m.history) > 0 {
			return m.copyToClipboard(m.history[m.historyIndex].MessageText)
		}
	}
	return nil
}

func (m *Model) handleAdminKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.userIndex = wrapIndex(m.userIndex-1, len(m.users))
	case "down", "j":
		m.userIndex = wrapIndex(m.userIndex+1, len(m.users))
	case "n":
		m.userForm = userForm{}
		m.mode = ModeUserCreate
	case "d":
		if len(m.users) == 0 {
			return nil
		}
		// Admin accounts cannot be removed from here.
		if m.users[m.userIndex].IsAdmin {
			return m.setToast("Admin accounts cannot be deleted", toastInfo)
		}
		m.pendingDeleteID = m.users[m.userIndex].ID
		m.mode = ModeUserDeleteConfirm
	}
	return nil
}

// handleTemplateFormKey drives the create-template modal. Enter in the
// content field inserts a newline; ctrl+s submits.
func (m *Model) handleTemplateFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.templateForm = templateForm{}
		return nil
	case tea.KeyCtrlS:
		return m.submitTemplateCreate()
	case tea.KeyTab:
		m.templateForm.focus = cycleFocus(m.templateForm.focus, 2, false)
		return nil
	case tea.KeyShiftTab:
		m.templateForm.focus = cycleFocus(m.templateForm.focus, 2, true)
		return nil
	case tea.KeyEnter:
		if m.templateForm.focus == 0 {
			m.templateForm.focus = 1
			return nil
		}
		m.templateForm.content += "\n"
		return nil
	}

	if m.templateForm.focus == 0 {
		m.templateForm.name, _ = editField(m.templateForm.name, msg)
	} else {
		m.templateForm.content, _ = editField(m.templateForm.content, msg)
	}
	return nil
}

func (m *Model) handleGroupFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.groupForm = groupForm{}
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.groupForm.focus = cycleFocus(m.groupForm.focus, 2, false)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.groupForm.focus = cycleFocus(m.groupForm.focus, 2, true)
		return nil
	case tea.KeyEnter:
		if m.groupForm.focus == 0 {
			m.groupForm.focus = 1
			return nil
		}
		return m.submitGroupAdd()
	}

	if m.groupForm.focus == 0 {
		m.groupForm.chatID, _ = editField(m.groupForm.chatID, msg)
	} else {
		m.groupForm.name, _ = editField(m.groupForm.name, msg)
	}
	return nil
}

func (m *Model) handleUserFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.userForm = userForm{}
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.userForm.focus = cycleFocus(m.userForm.focus, 3, false)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.userForm.focus = cycleFocus(m.userForm.focus, 3, true)
		return nil
	case tea.KeyEnter:
		if m.userForm.focus < 2 {
			m.userForm.focus++
			return nil
		}
		return m.submitUserCreate()
	}

	switch m.userForm.focus {
	case 0:
		m.userForm.name, _ = editField(m.userForm.name, msg)
	case 1:
		m.userForm.email, _ = editField(m.userForm.email, msg)
	case 2:
		m.userForm.password, _ = editField(m.userForm.password, msg)
	}
	return nil
}

// handleConfirmKey resolves a pending delete confirmation.
func (m *Model) handleConfirmKey(msg tea.KeyMsg, section Section) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		id := m.pendingDeleteID
		m.pendingDeleteID = 0
		m.mode = ModeNormal
		if section == SectionTemplates {
			return m.deleteTemplate(id)
		}
		return m.deleteUser(id)
	case "n", "esc":
		m.pendingDeleteID = 0
		m.mode = ModeNormal
	}
	return nil
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	if err := clipboard.WriteAll(text); err != nil {
		return m.setToast("Failed to copy: "+err.Error(), toastError)
	}
	return m.setToast("Copied to clipboard", toastSuccess)
}
