package types

// User is an account record as returned by the API.
// Name can be empty; the backend allows accounts created with email only.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DisplayName returns the name to show for a user, falling back to email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Group is a broadcast recipient (a chat the bot can post to).
type Group struct {
	ID        int    `json:"id"`
	ChatID    string `json:"chat_id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Template is a reusable message body.
type Template struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// HistoryEntry is one past broadcast. GroupsSent is the server's
// comma-joined group name list; Status is "sent" or "failed".
type HistoryEntry struct {
	ID          int    `json:"id,omitempty"`
	MessageText string `json:"message_text"`
	GroupsSent  string `json:"groups_sent"`
	Status      string `json:"status"`
	SentAt      string `json:"sent_at"`
}

// Stats are the dashboard counters.
type Stats struct {
	ActiveGroups   int `json:"active_groups"`
	TotalTemplates int `json:"total_templates"`
	MessagesToday  int `json:"messages_today"`
	TotalMessages  int `json:"total_messages"`
}

// SendResult is the per-group outcome of a broadcast.
type SendResult struct {
	SentGroups   []string `json:"sent_groups"`
	FailedGroups []string `json:"failed_groups"`
	TotalSent    int      `json:"total_sent"`
	TotalFailed  int      `json:"total_failed"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session is the persisted client session. IsAdmin is stored as "1"/"0"
// to match the keys the web dashboard keeps in local storage.
type Session struct {
	AuthToken   string `json:"authToken,omitempty"`
	CurrentUser string `json:"currentUser,omitempty"`
	IsAdmin     string `json:"isAdmin,omitempty"`
}

// Admin reports whether the session was created by an admin login.
// Display-only convenience; authorization is enforced server-side.
func (s Session) Admin() bool {
	return s.IsAdmin == "1"
}
