package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tgboard/internal/api"
	"tgboard/internal/sendlog"
	"tgboard/internal/session"
	"tgboard/internal/types"
)

// Section is one of the mutually-exclusive top-level views.
type Section int

const (
	SectionDashboard Section = iota
	SectionProfile
	SectionSend
	SectionTemplates
	SectionGroups
	SectionHistory
	SectionAdmin
	numSections
)

// Title returns the nav label for a section.
func (s Section) Title() string {
	switch s {
	case SectionDashboard:
		return "Dashboard"
	case SectionProfile:
		return "Profile"
	case SectionSend:
		return "Send"
	case SectionTemplates:
		return "Templates"
	case SectionGroups:
		return "Groups"
	case SectionHistory:
		return "History"
	case SectionAdmin:
		return "Clients"
	}
	return ""
}

// Mode represents the current TUI mode
type Mode int

const (
	ModeLogin Mode = iota
	ModeNormal
	ModeTemplateCreate
	ModeGroupAdd
	ModeUserCreate
	ModeTemplateDeleteConfirm
	ModeUserDeleteConfirm
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// toastTTL is how long a footer toast stays visible.
const toastTTL = 4 * time.Second

// Model holds all view-controller state. Nothing lives in package-level
// variables; section loaders report back through messages.
type Model struct {
	client     *api.Client
	sessionMgr *session.Manager
	sendLog    *sendlog.Manager

	mode    Mode
	section Section
	width   int
	height  int

	// loadSeq is bumped every time a section load starts. Responses
	// carrying an older seq are stale (the user navigated or reloaded
	// meanwhile) and are dropped instead of rendered.
	loadSeq [numSections]int

	// sending guards the broadcast flow against re-submission while a
	// call is in flight.
	sending bool

	toastMsg  string
	toastKind toastKind

	healthKnown bool
	healthOK    bool

	// Last-fetched data; each load fully replaces the previous list.
	stats     *types.Stats
	me        *types.User
	users     []types.User
	templates []types.Template
	groups    []types.Group
	history   []types.HistoryEntry

	send *SendState

	loginForm    loginForm
	profileForm  profileForm
	templateForm templateForm
	groupForm    groupForm
	userForm     userForm

	templateIndex int
	groupIndex    int
	userIndex     int
	historyIndex  int

	// previewView shows the full content of the selected template
	previewView viewport.Model

	// id captured when a delete confirmation opens
	pendingDeleteID int
}

// Init starts the health probe; when a valid session already exists the
// dashboard loads immediately.
func (m *Model) Init() tea.Cmd {
	if m.mode == ModeNormal {
		return tea.Batch(m.checkHealth(), m.loadSection(m.section))
	}
	return m.checkHealth()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePreviewView()

	case healthCheckMsg:
		m.healthKnown = true
		m.healthOK = msg.ok

	case loginResultMsg:
		if msg.err != nil {
			m.loginForm.errText = msg.err.Error()
			return m, nil
		}
		if err := m.sessionMgr.SetFromLogin(msg.resp); err != nil {
			m.loginForm.errText = err.Error()
			return m, nil
		}
		m.loginForm = loginForm{}
		m.mode = ModeNormal
		m.section = SectionDashboard
		return m, m.loadSection(SectionDashboard)

	case statsLoadedMsg:
		if msg.seq != m.loadSeq[SectionDashboard] {
			return m, nil
		}
		m.stats = msg.stats

	case profileLoadedMsg:
		if msg.seq != m.loadSeq[SectionProfile] {
			return m, nil
		}
		m.me = msg.user
		m.profileForm = profileForm{name: msg.user.Name}

	case sendDataLoadedMsg:
		if msg.seq != m.loadSeq[SectionSend] {
			return m, nil
		}
		m.send.SetData(msg.groups, msg.templates)

	case templatesLoadedMsg:
		if msg.seq != m.loadSeq[SectionTemplates] {
			return m, nil
		}
		m.templates = msg.templates
		m.templateIndex = clampIndex(m.templateIndex, len(m.templates))
		m.updatePreviewView()

	case groupsLoadedMsg:
		if msg.seq != m.loadSeq[SectionGroups] {
			return m, nil
		}
		m.groups = msg.groups
		m.groupIndex = clampIndex(m.groupIndex, len(m.groups))

	case historyLoadedMsg:
		if msg.seq != m.loadSeq[SectionHistory] {
			return m, nil
		}
		m.history = msg.entries
		m.historyIndex = clampIndex(m.historyIndex, len(m.history))

	case usersLoadedMsg:
		if msg.seq != m.loadSeq[SectionAdmin] {
			return m, nil
		}
		m.users = msg.users
		m.userIndex = clampIndex(m.userIndex, len(m.users))

	case sectionErrorMsg:
		if msg.seq != m.loadSeq[msg.section] {
			return m, nil
		}
		return m, m.setToast(msg.err.Error(), toastError)

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			return m, m.setToast("Failed to send message: "+msg.err.Error(), toastError)
		}
		m.send.SetResult(msg.result)
		m.send.ClearDraft()
		return m, m.setToast("Message sent", toastSuccess)

	case actionDoneMsg:
		if msg.err != nil {
			return m, m.setToast(msg.err.Error(), toastError)
		}
		// Reload the affected section so the list reflects the change
		return m, tea.Batch(m.setToast(msg.toast, toastSuccess), m.loadSection(msg.section))

	case clearToastMsg:
		m.toastMsg = ""
	}

	return m, nil
}

// setToast shows a transient footer message and schedules its removal.
func (m *Model) setToast(msg string, kind toastKind) tea.Cmd {
	m.toastMsg = msg
	m.toastKind = kind
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// visibleSections returns the nav entries for the current session. The
// admin tab is hidden for non-admins; this is cosmetic only, the server
// authorizes every admin call independently.
func (m *Model) visibleSections() []Section {
	sections := []Section{
		SectionDashboard, SectionProfile, SectionSend,
		SectionTemplates, SectionGroups, SectionHistory,
	}
	if m.sessionMgr.IsAdmin() {
		sections = append(sections, SectionAdmin)
	}
	return sections
}

// switchSection shows the requested section and triggers its loader.
func (m *Model) switchSection(s Section) tea.Cmd {
	m.section = s
	return m.loadSection(s)
}

// logout clears the persisted session and resets to the initial
// unauthenticated state, the TUI equivalent of a full page reload.
func (m *Model) logout() tea.Cmd {
	if err := m.sessionMgr.Clear(); err != nil {
		return m.setToast("Failed to clear session: "+err.Error(), toastError)
	}
	m.mode = ModeLogin
	m.section = SectionDashboard
	m.stats = nil
	m.me = nil
	m.users = nil
	m.templates = nil
	m.groups = nil
	m.history = nil
	m.send.Reset()
	m.loginForm = loginForm{}
	m.profileForm = profileForm{}
	return nil
}

func (m *Model) resizePreviewView() {
	w := m.width/2 - 4
	h := m.height - 10
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	m.previewView.Width = w
	m.previewView.Height = h
	m.updatePreviewView()
}

// updatePreviewView fills the preview pane with the selected template.
func (m *Model) updatePreviewView() {
	if len(m.templates) == 0 || m.templateIndex >= len(m.templates) {
		m.previewView.SetContent("")
		return
	}
	m.previewView.SetContent(m.templates[m.templateIndex].Content)
	m.previewView.GotoTop()
}

func clampIndex(idx, length int) int {
	if length == 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// Cleanup closes the local send log database.
func (m *Model) Cleanup() {
	if m.sendLog != nil {
		_ = m.sendLog.Close()
	}
}

// Custom message types
type healthCheckMsg struct {
	ok bool
}

type loginResultMsg struct {
	resp *types.LoginResponse
	err  error
}

type statsLoadedMsg struct {
	seq   int
	stats *types.Stats
}

type profileLoadedMsg struct {
	seq  int
	user *types.User
}

type sendDataLoadedMsg struct {
	seq       int
	groups    []types.Group
	templates []types.Template
}

type templatesLoadedMsg struct {
	seq       int
	templates []types.Template
}

type groupsLoadedMsg struct {
	seq    int
	groups []types.Group
}

type historyLoadedMsg struct {
	seq     int
	entries []types.HistoryEntry
}

type usersLoadedMsg struct {
	seq   int
	users []types.User
}

type sectionErrorMsg struct {
	section Section
	seq     int
	err     error
}

type sendResultMsg struct {
	result *types.SendResult
	err    error
}

// actionDoneMsg reports a create/delete outcome; on success the named
// section is reloaded.
type actionDoneMsg struct {
	section Section
	toast   string
	err     error
}

type clearToastMsg struct{}
