package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Form state for the modal inputs. All editing is plain append/backspace
// on the focused field; tab moves focus, esc cancels, enter submits.

type loginForm struct {
	email    string
	password string
	focus    int // 0=email, 1=password
	errText  string
}

type profileForm struct {
	name     string
	password string
	focus    int // 0=name, 1=password
	editing  bool
}

type templateForm struct {
	name    string
	content string
	focus   int // 0=name, 1=content
}

type groupForm struct {
	chatID string
	name   string
	focus  int // 0=chat id, 1=name
}

type userForm struct {
	name     string
	email    string
	password string
	focus    int // 0=name, 1=email, 2=password
}

// editField applies a key press to a text field and reports whether the
// key was consumed.
func editField(value string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return value + string(msg.Runes), true
	case tea.KeySpace:
		return value + " ", true
	case tea.KeyBackspace:
		if len(value) > 0 {
			runes := []rune(value)
			return string(runes[:len(runes)-1]), true
		}
		return value, true
	}
	return value, false
}

// cycleFocus advances focus across n fields, wrapping around.
// Shift+tab moves backwards.
func cycleFocus(focus, n int, backwards bool) int {
	if backwards {
		focus--
		if focus < 0 {
			focus = n - 1
		}
		return focus
	}
	return (focus + 1) % n
}
