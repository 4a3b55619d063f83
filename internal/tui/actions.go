package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"tgboard/internal/sendlog"
	"tgboard/internal/types"
)

// loadSection starts the loader for a section. Bumping the sequence
// number first means any response still in flight for this section is
// recognized as stale and dropped when it arrives.
func (m *Model) loadSection(s Section) tea.Cmd {
	m.loadSeq[s]++
	seq := m.loadSeq[s]

	switch s {
	case SectionDashboard:
		return m.loadStats(seq)
	case SectionProfile:
		return m.loadProfile(seq)
	case SectionSend:
		return m.loadSendData(seq)
	case SectionTemplates:
		return m.loadTemplates(seq)
	case SectionGroups:
		return m.loadGroups(seq)
	case SectionHistory:
		return m.loadHistory(seq)
	case SectionAdmin:
		return m.loadUsers(seq)
	}
	return nil
}

func (m *Model) loadStats(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		stats, err := client.Stats(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionDashboard, seq, err}
		}
		return statsLoadedMsg{seq, stats}
	}
}

func (m *Model) loadProfile(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionProfile, seq, err}
		}
		return profileLoadedMsg{seq, user}
	}
}

// loadSendData fetches groups and templates in parallel; the send
// section needs both and neither depends on the other.
func (m *Model) loadSendData(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var (
			groups    []types.Group
			templates []types.Template
		)

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			groups, err = client.ListGroups(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			templates, err = client.ListTemplates(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			return sectionErrorMsg{SectionSend, seq, err}
		}
		return sendDataLoadedMsg{seq, groups, templates}
	}
}

func (m *Model) loadTemplates(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		templates, err := client.ListTemplates(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionTemplates, seq, err}
		}
		return templatesLoadedMsg{seq, templates}
	}
}

func (m *Model) loadGroups(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		groups, err := client.ListGroups(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionGroups, seq, err}
		}
		return groupsLoadedMsg{seq, groups}
	}
}

func (m *Model) loadHistory(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.History(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionHistory, seq, err}
		}
		return historyLoadedMsg{seq, entries}
	}
}

func (m *Model) loadUsers(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		if err != nil {
			return sectionErrorMsg{SectionAdmin, seq, err}
		}
		return usersLoadedMsg{seq, users}
	}
}

func (m *Model) checkHealth() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Health(context.Background())
		return healthCheckMsg{ok: err == nil}
	}
}

// submitLogin sends the login form.
func (m *Model) submitLogin() tea.Cmd {
	email := strings.TrimSpace(m.loginForm.email)
	password := m.loginForm.password
	client := m.client
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), email, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

// submitSend validates and posts the broadcast. The group guard runs
// before any network call; re-submission while sending is rejected.
func (m *Model) submitSend() tea.Cmd {
	if m.sending {
		return m.setToast("A send is already in progress", toastInfo)
	}

	ids := m.send.SelectedIDs()
	if len(ids) == 0 {
		return m.setToast("Select at least one group", toastError)
	}

	message := m.send.Draft()
	if strings.TrimSpace(message) == "" {
		return m.setToast("Message is empty", toastError)
	}

	m.sending = true
	client := m.client
	log := m.sendLog
	return func() tea.Msg {
		result, err := client.SendMessage(context.Background(), message, ids)
		if err != nil {
			return sendResultMsg{err: err}
		}
		recordSend(log, message, result)
		return sendResultMsg{result: result}
	}
}

// recordSend mirrors the broadcast into the local log. Best-effort: a
// logging failure never fails the send.
func recordSend(log *sendlog.Manager, message string, result *types.SendResult) {
	if log == nil {
		return
	}
	_ = log.Save(message, result)
}

// submitProfileUpdate sends the profile form; empty fields are omitted.
func (m *Model) submitProfileUpdate() tea.Cmd {
	name := strings.TrimSpace(m.profileForm.name)
	password := m.profileForm.password
	if name == "" && password == "" {
		return m.setToast("Nothing to update", toastInfo)
	}

	client := m.client
	return func() tea.Msg {
		if err := client.UpdateMe(context.Background(), name, password); err != nil {
			return actionDoneMsg{section: SectionProfile, err: err}
		}
		return actionDoneMsg{section: SectionProfile, toast: "Profile updated"}
	}
}

// submitTemplateCreate validates and posts the new template.
func (m *Model) submitTemplateCreate() tea.Cmd {
	name := strings.TrimSpace(m.templateForm.name)
	content := strings.TrimSpace(m.templateForm.content)
	if name == "" || content == "" {
		return m.setToast("Fill in name and content", toastError)
	}

	m.mode = ModeNormal
	m.templateForm = templateForm{}
	client := m.client
	return func() tea.Msg {
		if err := client.CreateTemplate(context.Background(), name, content); err != nil {
			return actionDoneMsg{section: SectionTemplates, err: err}
		}
		return actionDoneMsg{section: SectionTemplates, toast: "Template created"}
	}
}

// deleteTemplate fires after the confirmation prompt.
func (m *Model) deleteTemplate(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteTemplate(context.Background(), id); err != nil {
			return actionDoneMsg{section: SectionTemplates, err: err}
		}
		return actionDoneMsg{section: SectionTemplates, toast: "Template deleted"}
	}
}

// submitGroupAdd validates and posts the new group.
func (m *Model) submitGroupAdd() tea.Cmd {
	chatID := strings.TrimSpace(m.groupForm.chatID)
	name := strings.TrimSpace(m.groupForm.name)
	if chatID == "" || name == "" {
		return m.setToast("Fill in chat id and name", toastError)
	}

	m.mode = ModeNormal
	m.groupForm = groupForm{}
	client := m.client
	return func() tea.Msg {
		if err := client.AddGroup(context.Background(), chatID, name); err != nil {
			return actionDoneMsg{section: SectionGroups, err: err}
		}
		return actionDoneMsg{section: SectionGroups, toast: "Group added"}
	}
}

// submitUserCreate validates and posts the new account. Name is
// optional; email and password are required.
func (m *Model) submitUserCreate() tea.Cmd {
	name := strings.TrimSpace(m.userForm.name)
	email := strings.TrimSpace(m.userForm.email)
	password := m.userForm.password
	if email == "" || password == "" {
		return m.setToast("Fill in email and password", toastError)
	}

	m.mode = ModeNormal
	m.userForm = userForm{}
	client := m.client
	return func() tea.Msg {
		if err := client.Register(context.Background(), name, email, password); err != nil {
			return actionDoneMsg{section: SectionAdmin, err: err}
		}
		return actionDoneMsg{section: SectionAdmin, toast: "Client created"}
	}
}

// deleteUser fires after the confirmation prompt.
func (m *Model) deleteUser(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteUser(context.Background(), id); err != nil {
			return actionDoneMsg{section: SectionAdmin, err: err}
		}
		return actionDoneMsg{section: SectionAdmin, toast: "Client deleted"}
	}
}
