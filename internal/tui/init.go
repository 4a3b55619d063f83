package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tgboard/internal/api"
	"tgboard/internal/config"
	"tgboard/internal/sendlog"
	"tgboard/internal/session"
)

// New assembles a Model. The send log may be nil; broadcasts then go
// unmirrored but everything else works.
func New(client *api.Client, mgr *session.Manager, log *sendlog.Manager) *Model {
	m := &Model{
		client:     client,
		sessionMgr: mgr,
		sendLog:    log,
		mode:       ModeLogin,
		send:       NewSendState(),
	}

	if mgr.IsAuthenticated() {
		if mgr.TokenExpired() {
			m.loginForm.errText = "Session expired, please log in again"
		} else {
			m.mode = ModeNormal
		}
	}
	return m
}

// Run loads configuration and the persisted session, then starts the
// interactive program.
func Run() error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	client := api.New(cfg.EffectiveBaseURL(), cfg.Timeout(), mgr.Token)

	log, err := sendlog.NewManager(config.DatabasePath)
	if err != nil {
		// Run without the local mirror rather than refusing to start.
		fmt.Fprintf(os.Stderr, "warning: send log unavailable: %v\n", err)
		log = nil
	}

	m := New(client, mgr, log)
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
