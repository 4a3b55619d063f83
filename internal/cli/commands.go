package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tgboard/internal/api"
	"tgboard/internal/config"
	"tgboard/internal/sendlog"
	"tgboard/internal/types"
)

// Login authenticates and persists the session. Missing credentials are
// prompted for interactively.
func Login(env *Env, email, password string) error {
	var err error
	if email == "" {
		if email, err = prompt("Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt("Password"); err != nil {
			return err
		}
	}

	resp, err := env.Client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}
	if err := env.Session.SetFromLogin(resp); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	success("Logged in as %s", env.Session.CurrentUser())
	if env.Session.IsAdmin() {
		subtle("admin account")
	}
	return nil
}

// Logout clears the persisted session.
func Logout(env *Env) error {
	if err := env.Session.Clear(); err != nil {
		return err
	}
	success("Logged out")
	return nil
}

// SendOptions are the broadcast inputs. Exactly one of Message or
// TemplateName supplies the text; groups come from IDs or AllGroups.
type SendOptions struct {
	Message      string
	TemplateName string
	GroupIDs     []int
	AllGroups    bool
	Output       OutputOptions
}

// Send posts a broadcast and mirrors it into the local send log.
func Send(env *Env, opts SendOptions) error {
	ctx := context.Background()

	message := opts.Message
	if opts.TemplateName != "" {
		templates, err := env.Client.ListTemplates(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, t := range templates {
			if t.Name == opts.TemplateName {
				message = t.Content
				found = true
				break
			}
		}
		if !found {
			return api.ValidationError(fmt.Sprintf("no template named %q", opts.TemplateName))
		}
	}
	if strings.TrimSpace(message) == "" {
		return api.ValidationError("message is empty, pass -m or --template")
	}

	ids := opts.GroupIDs
	if opts.AllGroups {
		groups, err := env.Client.ListGroups(ctx)
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, g := range groups {
			if g.Active {
				ids = append(ids, g.ID)
			}
		}
	}
	if len(ids) == 0 {
		return api.ValidationError("select at least one group (-g or --all-groups)")
	}

	subtle("Sending to %d group(s)...", len(ids))
	result, err := env.Client.SendMessage(ctx, message, ids)
	if err != nil {
		return err
	}

	if log, lerr := sendlog.NewManager(config.DatabasePath); lerr == nil {
		_ = log.Save(message, result)
		_ = log.Close()
	}

	if opts.Output.JSONWanted() {
		return printJSON(result, opts.Output.Query)
	}
	success("Sent to %d group(s): %s", result.TotalSent, strings.Join(result.SentGroups, ", "))
	if len(result.FailedGroups) > 0 {
		failure("Failed for %d group(s): %s", result.TotalFailed, strings.Join(result.FailedGroups, ", "))
	}
	return nil
}

// ListGroups prints the registered recipient groups.
func ListGroups(env *Env, out OutputOptions) error {
	groups, err := env.Client.ListGroups(context.Background())
	if err != nil {
		return err
	}
	if out.JSONWanted() {
		return printJSON(groups, out.Query)
	}

	if len(groups) == 0 {
		subtle("No groups registered")
		return nil
	}
	fmt.Printf("%-5s %-20s %-30s %s\n", "ID", "CHAT ID", "NAME", "STATUS")
	for _, g := range groups {
		status := "active"
		if !g.Active {
			status = "inactive"
		}
		fmt.Printf("%-5d %-20s %-30s %s\n", g.ID, g.ChatID, g.Name, status)
	}
	return nil
}

// AddGroup registers a new recipient group.
func AddGroup(env *Env, chatID, name string) error {
	if chatID == "" || name == "" {
		return api.ValidationError("chat id and name are required")
	}
	if err := env.Client.AddGroup(context.Background(), chatID, name); err != nil {
		return err
	}
	success("Group %q added", name)
	return nil
}

// ListTemplates prints the message templates.
func ListTemplates(env *Env, out OutputOptions) error {
	templates, err := env.Client.ListTemplates(context.Background())
	if err != nil {
		return err
	}
	if out.JSONWanted() {
		return printJSON(templates, out.Query)
	}

	if len(templates) == 0 {
		subtle("No templates")
		return nil
	}
	for _, t := range templates {
		fmt.Printf("%-5d %s\n", t.ID, t.Name)
		subtle("      %s", firstLine(t.Content))
	}
	return nil
}

// AddTemplate creates a message template.
func AddTemplate(env *Env, name, content string) error {
	if name == "" || content == "" {
		return api.ValidationError("name and content are required")
	}
	if err := env.Client.CreateTemplate(context.Background(), name, content); err != nil {
		return err
	}
	success("Template %q created", name)
	return nil
}

// RemoveTemplate deletes a template by id.
func RemoveTemplate(env *Env, id int) error {
	if err := env.Client.DeleteTemplate(context.Background(), id); err != nil {
		return err
	}
	success("Template %d deleted", id)
	return nil
}

// ListUsers prints all accounts (admin only, enforced server-side).
func ListUsers(env *Env, out OutputOptions) error {
	users, err := env.Client.ListUsers(context.Background())
	if err != nil {
		return err
	}
	if out.JSONWanted() {
		return printJSON(users, out.Query)
	}

	fmt.Printf("%-5s %-25s %-30s %s\n", "ID", "NAME", "EMAIL", "ROLE")
	for _, u := range users {
		role := ""
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Printf("%-5d %-25s %-30s %s\n", u.ID, u.Name, u.Email, role)
	}
	return nil
}

// AddUser registers a new account. Name is optional.
func AddUser(env *Env, name, email, password string) error {
	if email == "" || password == "" {
		return api.ValidationError("email and password are required")
	}
	if err := env.Client.Register(context.Background(), name, email, password); err != nil {
		return err
	}
	success("Account %q created", email)
	return nil
}

// RemoveUser deletes an account by id.
func RemoveUser(env *Env, id int) error {
	if err := env.Client.DeleteUser(context.Background(), id); err != nil {
		return err
	}
	success("Account %d deleted", id)
	return nil
}

// Stats prints the dashboard counters plus an API reachability line.
func Stats(env *Env, out OutputOptions) error {
	stats, err := env.Client.Stats(context.Background())
	if err != nil {
		return err
	}
	if out.JSONWanted() {
		return printJSON(stats, out.Query)
	}

	fmt.Printf("Active groups:   %d\n", stats.ActiveGroups)
	fmt.Printf("Templates:       %d\n", stats.TotalTemplates)
	fmt.Printf("Messages today:  %d\n", stats.MessagesToday)
	fmt.Printf("Messages total:  %d\n", stats.TotalMessages)

	if err := env.Client.Health(context.Background()); err != nil {
		failure("API: unreachable (%v)", err)
	} else {
		success("API: up")
	}
	return nil
}

// History prints past broadcasts, from the server or the local mirror.
func History(env *Env, local bool, out OutputOptions) error {
	var entries []types.HistoryEntry
	var err error

	if local {
		log, lerr := sendlog.NewManager(config.DatabasePath)
		if lerr != nil {
			return fmt.Errorf("local send log unavailable: %w", lerr)
		}
		defer log.Close()
		entries, err = log.List(50)
		if err == nil && !out.JSONWanted() {
			if today, cerr := log.CountToday(); cerr == nil {
				subtle("%d sent today", today)
			}
		}
	} else {
		entries, err = env.Client.History(context.Background())
	}
	if err != nil {
		return err
	}

	if out.JSONWanted() {
		return printJSON(entries, out.Query)
	}

	if len(entries) == 0 {
		subtle("No messages sent yet")
		return nil
	}
	for _, h := range entries {
		line := fmt.Sprintf("%-20s %-7s %s", h.SentAt, h.Status, firstLine(h.MessageText))
		if h.Status == "sent" {
			fmt.Fprintln(os.Stdout, line)
		} else {
			failure("%s", line)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
