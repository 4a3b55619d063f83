// Package sendlog keeps a local record of every broadcast attempted
// from this client, so history stays browsable when the API is down.
package sendlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tgboard/internal/types"
)

const timeLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

// NewManager opens (and if needed creates) the send log database.
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create send log directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open send log database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to send log database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sends (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sent_at DATETIME NOT NULL,
		message_text TEXT NOT NULL,
		groups_sent TEXT NOT NULL,
		failed_groups TEXT NOT NULL,
		total_sent INTEGER NOT NULL,
		total_failed INTEGER NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sends_sent_at ON sends(sent_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sends_status ON sends(status);
	`

	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize send log schema: %w", err)
	}

	return nil
}

// Save records one broadcast outcome. Status mirrors the server rule:
// "sent" when at least one group received the message, "failed" otherwise.
func (m *Manager) Save(message string, result *types.SendResult) error {
	status := "failed"
	if len(result.SentGroups) > 0 {
		status = "sent"
	}

	query := `
		INSERT INTO sends (
			sent_at, message_text, groups_sent, failed_groups,
			total_sent, total_failed, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		time.Now().Local().Format(timeLayout),
		message,
		strings.Join(result.SentGroups, ", "),
		strings.Join(result.FailedGroups, ", "),
		result.TotalSent,
		result.TotalFailed,
		status,
	)
	if err != nil {
		return fmt.Errorf("failed to save send log entry: %w", err)
	}

	return nil
}

// List returns the recorded sends, most recent first, shaped like the
// server's history entries so both render through the same path.
func (m *Manager) List(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, message_text, groups_sent, status, sent_at
		FROM sends
		ORDER BY sent_at DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load send log: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		if err := rows.Scan(&e.ID, &e.MessageText, &e.GroupsSent, &e.Status, &e.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan send log entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountToday returns how many successful sends were logged today.
func (m *Manager) CountToday() (int, error) {
	var count int
	err := m.db.QueryRow(
		`SELECT COUNT(*) FROM sends WHERE DATE(sent_at) = DATE('now', 'localtime') AND status = 'sent'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's sends: %w", err)
	}
	return count, nil
}

// Clear wipes the log.
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM sends"); err != nil {
		return fmt.Errorf("failed to clear send log: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
