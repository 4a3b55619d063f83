package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tgboard/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Underline(true)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(1, 2)
)

// View renders the whole screen for the current mode.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	switch m.mode {
	case ModeLogin:
		return m.renderLogin()
	case ModeTemplateCreate:
		return m.renderModal("New Template", m.renderTemplateForm())
	case ModeGroupAdd:
		return m.renderModal("Add Group", m.renderGroupForm())
	case ModeUserCreate:
		return m.renderModal("New Client", m.renderUserForm())
	case ModeTemplateDeleteConfirm:
		return m.renderModal("Delete Template", "Delete this template? (y/n)")
	case ModeUserDeleteConfirm:
		return m.renderModal("Delete Client", "Delete this client? (y/n)")
	}

	var body string
	switch m.section {
	case SectionDashboard:
		body = m.renderDashboard()
	case SectionProfile:
		body = m.renderProfile()
	case SectionSend:
		body = m.renderSend()
	case SectionTemplates:
		body = m.renderTemplates()
	case SectionGroups:
		body = m.renderGroups()
	case SectionHistory:
		body = m.renderHistory()
	case SectionAdmin:
		body = m.renderAdmin()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m *Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("tgboard"))
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("Telegram broadcast dashboard"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Email", m.loginForm.email, m.loginForm.focus == 0, false))
	b.WriteString("\n")
	b.WriteString(renderField("Password", m.loginForm.password, m.loginForm.focus == 1, true))
	b.WriteString("\n")

	if m.loginForm.errText != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render(m.loginForm.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("tab: switch field • enter: log in • ctrl+c: quit"))

	box := styleBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderModal(title, content string) string {
	box := styleBox.Render(styleTitle.Render(title) + "\n\n" + content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderTemplateForm() string {
	var b strings.Builder
	b.WriteString(renderField("Name", m.templateForm.name, m.templateForm.focus == 0, false))
	b.WriteString("\n")
	b.WriteString(renderMultilineField("Content", m.templateForm.content, m.templateForm.focus == 1))
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("tab: switch field • ctrl+s: save • esc: cancel"))
	return b.String()
}

func (m *Model) renderGroupForm() string {
	var b strings.Builder
	b.WriteString(renderField("Chat ID", m.groupForm.chatID, m.groupForm.focus == 0, false))
	b.WriteString("\n")
	b.WriteString(renderField("Name", m.groupForm.name, m.groupForm.focus == 1, false))
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("tab: switch field • enter: save • esc: cancel"))
	return b.String()
}

func (m *Model) renderUserForm() string {
	var b strings.Builder
	b.WriteString(renderField("Name", m.userForm.name, m.userForm.focus == 0, false))
	b.WriteString("\n")
	b.WriteString(renderField("Email", m.userForm.email, m.userForm.focus == 1, false))
	b.WriteString("\n")
	b.WriteString(renderField("Password", m.userForm.password, m.userForm.focus == 2, true))
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("tab: switch field • enter: save • esc: cancel"))
	return b.String()
}

// renderField draws a single-line labeled input with a focus cursor.
func renderField(label, value string, focused, masked bool) string {
	shown := value
	if masked {
		shown = strings.Repeat("*", len([]rune(value)))
	}
	if focused {
		shown += "_"
		return styleSelected.Render(fmt.Sprintf("%-9s %s", label+":", shown))
	}
	return fmt.Sprintf("%-9s %s", label+":", shown)
}

func renderMultilineField(label, value string, focused bool) string {
	header := label + ":"
	if focused {
		header = styleSelected.Render(header)
		value += "_"
	}
	if value == "" {
		value = styleSubtle.Render("(empty)")
	}
	return header + "\n" + value
}

func (m *Model) renderHeader() string {
	var tabs []string
	for i, s := range m.visibleSections() {
		label := fmt.Sprintf("%d:%s", i+1, s.Title())
		if s == m.section {
			tabs = append(tabs, styleActiveTab.Render(label))
		} else {
			tabs = append(tabs, styleSubtle.Render(label))
		}
	}

	left := strings.Join(tabs, "  ")
	right := styleSubtle.Render(m.sessionMgr.CurrentUser())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (m *Model) renderFooter() string {
	health := ""
	if m.healthKnown {
		if m.healthOK {
			health = styleSuccess.Render("● api up")
		} else {
			health = styleError.Render("● api down")
		}
	}

	toast := ""
	if m.toastMsg != "" {
		switch m.toastKind {
		case toastSuccess:
			toast = styleSuccess.Render(m.toastMsg)
		case toastError:
			toast = styleError.Render(m.toastMsg)
		default:
			toast = styleWarning.Render(m.toastMsg)
		}
	} else {
		toast = styleSubtle.Render("tab: section • r: reload • L: logout • q: quit")
	}

	if health == "" {
		return "\n" + toast
	}
	return "\n" + toast + "  " + health
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Dashboard"))
	b.WriteString("\n\n")

	if m.stats == nil {
		b.WriteString(styleSubtle.Render("Loading stats..."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Active groups:    %d\n", m.stats.ActiveGroups))
	b.WriteString(fmt.Sprintf("Templates:        %d\n", m.stats.TotalTemplates))
	b.WriteString(fmt.Sprintf("Messages today:   %d\n", m.stats.MessagesToday))
	b.WriteString(fmt.Sprintf("Messages total:   %d\n", m.stats.TotalMessages))
	return b.String()
}

func (m *Model) renderProfile() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Profile"))
	b.WriteString("\n\n")

	if m.me == nil {
		b.WriteString(styleSubtle.Render("Loading profile..."))
		return b.String()
	}

	role := "user"
	if m.me.IsAdmin {
		role = "admin"
	}
	b.WriteString(fmt.Sprintf("Email:    %s\n", m.me.Email))
	b.WriteString(fmt.Sprintf("Role:     %s\n", role))
	b.WriteString(fmt.Sprintf("Since:    %s\n", m.me.CreatedAt))
	b.WriteString("\n")

	if m.profileForm.editing {
		b.WriteString(renderField("Name", m.profileForm.name, m.profileForm.focus == 0, false))
		b.WriteString("\n")
		b.WriteString(renderField("Password", m.profileForm.password, m.profileForm.focus == 1, true))
		b.WriteString("\n\n")
		b.WriteString(styleSubtle.Render("empty fields are left unchanged • ctrl+s: save • esc: cancel"))
	} else {
		b.WriteString(fmt.Sprintf("Name:     %s\n", m.me.Name))
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render("e: edit name/password"))
	}
	return b.String()
}

func (m *Model) renderSend() string {
	focus := m.send.Focus()

	var groups strings.Builder
	groupsTitle := "Groups"
	if focus == sendFocusGroups {
		groupsTitle = styleActiveTab.Render(groupsTitle)
	} else {
		groupsTitle = styleTitle.Render(groupsTitle)
	}
	groups.WriteString(groupsTitle)
	groups.WriteString("\n")
	gs := m.send.Groups()
	if len(gs) == 0 {
		groups.WriteString(styleSubtle.Render("No groups registered"))
	}
	for i, g := range gs {
		check := "[ ]"
		if m.send.IsSelected(g.ID) {
			check = styleSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s %s (ID: %s)", check, g.Name, g.ChatID)
		if focus == sendFocusGroups && i == m.send.GroupCursor() {
			line = styleSelected.Render(line)
		}
		groups.WriteString(line)
		groups.WriteString("\n")
	}

	var templates strings.Builder
	templatesTitle := "Templates"
	if focus == sendFocusTemplates {
		templatesTitle = styleActiveTab.Render(templatesTitle)
	} else {
		templatesTitle = styleTitle.Render(templatesTitle)
	}
	templates.WriteString(templatesTitle)
	templates.WriteString("\n")
	ts := m.send.Templates()
	if len(ts) == 0 {
		templates.WriteString(styleSubtle.Render("No templates"))
	}
	for i, t := range ts {
		line := t.Name
		if focus == sendFocusTemplates && i == m.send.TemplateCursor() {
			line = styleSelected.Render(line)
		}
		templates.WriteString(line)
		templates.WriteString("\n")
	}

	colWidth := m.width/2 - 2
	if colWidth < 20 {
		colWidth = 20
	}
	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(groups.String()),
		lipgloss.NewStyle().Width(colWidth).Render(templates.String()),
	)

	var b strings.Builder
	b.WriteString(panes)
	b.WriteString("\n")

	msgTitle := "Message"
	if focus == sendFocusMessage {
		msgTitle = styleActiveTab.Render(msgTitle + " (editing, esc to leave)")
	} else {
		msgTitle = styleTitle.Render(msgTitle)
	}
	b.WriteString(msgTitle)
	b.WriteString("\n")
	draft := m.send.Draft()
	if focus == sendFocusMessage {
		draft += "_"
	}
	if draft == "" {
		draft = styleSubtle.Render("(empty, press e to type or enter on a template)")
	}
	b.WriteString(draft)
	b.WriteString("\n\n")

	if m.sending {
		b.WriteString(styleWarning.Render("Sending..."))
		b.WriteString("\n")
	} else if res := m.send.Result(); res != nil {
		b.WriteString(formatSendResult(res))
		b.WriteString("\n")
	}

	b.WriteString(styleSubtle.Render("h/l: switch pane • space: toggle group • enter: use template • e: edit message • ctrl+s: send"))
	return b.String()
}

// formatSendResult renders the broadcast outcome. The failures line only
// appears when something actually failed.
func formatSendResult(res *types.SendResult) string {
	var b strings.Builder
	b.WriteString(styleSuccess.Render(fmt.Sprintf("Sent to %d group(s)", res.TotalSent)))
	if len(res.SentGroups) > 0 {
		b.WriteString(styleSubtle.Render(" (" + strings.Join(res.SentGroups, ", ") + ")"))
	}
	if len(res.FailedGroups) > 0 {
		b.WriteString("\n")
		b.WriteString(styleError.Render(fmt.Sprintf("Failed for %d group(s): %s",
			res.TotalFailed, strings.Join(res.FailedGroups, ", "))))
	}
	return b.String()
}

func (m *Model) renderTemplates() string {
	var list strings.Builder
	list.WriteString(styleTitle.Render("Templates"))
	list.WriteString("\n")
	if len(m.templates) == 0 {
		list.WriteString(styleSubtle.Render("No templates yet, press n to create one"))
	}
	for i, t := range m.templates {
		line := fmt.Sprintf("%s  %s", t.Name, styleSubtle.Render(t.CreatedAt))
		if i == m.templateIndex {
			line = styleSelected.Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(styleSubtle.Render("n: new • d: delete • y: copy content"))

	preview := styleTitle.Render("Preview") + "\n" + m.previewView.View()

	colWidth := m.width/2 - 2
	if colWidth < 20 {
		colWidth = 20
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(list.String()),
		lipgloss.NewStyle().Width(colWidth).Render(preview),
	)
}

func (m *Model) renderGroups() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Groups"))
	b.WriteString("\n")
	if len(m.groups) == 0 {
		b.WriteString(styleSubtle.Render("No groups yet, press n to add one"))
	}
	for i, g := range m.groups {
		badge := styleSuccess.Render("active")
		if !g.Active {
			badge = styleSubtle.Render("inactive")
		}
		line := fmt.Sprintf("%-30s %-20s %s", g.Name, g.ChatID, badge)
		if i == m.groupIndex {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("n: add group"))
	return b.String()
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("History"))
	b.WriteString("\n")
	if len(m.history) == 0 {
		b.WriteString(styleSubtle.Render("No messages sent yet"))
	}
	for i, h := range m.history {
		badge := styleSuccess.Render("sent  ")
		if h.Status != "sent" {
			badge = styleError.Render("failed")
		}
		line := fmt.Sprintf("%s  %s  %s", h.SentAt, badge, truncate(h.MessageText, m.width-35))
		if i == m.historyIndex {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("y: copy message text"))
	return b.String()
}

func (m *Model) renderAdmin() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Clients"))
	b.WriteString("\n")
	for i, u := range m.users {
		role := "      "
		if u.IsAdmin {
			role = styleWarning.Render("admin ")
		}
		line := fmt.Sprintf("%-25s %-30s %s", u.Name, u.Email, role)
		if i == m.userIndex {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("n: new client • d: delete"))
	return b.String()
}

// truncate shortens a single-line rendering of s to max runes.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
