package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jmespath/go-jmespath"

	"tgboard/internal/api"
	"tgboard/internal/config"
	"tgboard/internal/session"
)

// Env bundles the collaborators every CLI command needs.
type Env struct {
	Config  *config.Config
	Session *session.Manager
	Client  *api.Client
}

// Setup loads configuration and the persisted session and builds the
// API client. Every subcommand starts here.
func Setup() (*Env, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client := api.New(cfg.EffectiveBaseURL(), cfg.Timeout(), mgr.Token)
	return &Env{Config: cfg, Session: mgr, Client: client}, nil
}

// OutputOptions control how list/result data is printed.
type OutputOptions struct {
	Format string // "text" or "json"
	Query  string // JMESPath expression, implies json output
}

// JSONWanted reports whether structured output was requested.
func (o OutputOptions) JSONWanted() bool {
	return o.Format == "json" || o.Query != ""
}

// printJSON writes v as indented JSON, applying the JMESPath query
// first when one is set.
func printJSON(v any, query string) error {
	if query != "" {
		// Round-trip through encoding/json so the expression sees the
		// wire field names, not Go struct fields.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
		v, err = jmespath.Search(query, data)
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// prompt reads one line from stdin, with the label written to stderr so
// piped stdout stays clean.
func prompt(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

var (
	successLine = color.New(color.FgGreen).FprintfFunc()
	errorLine   = color.New(color.FgRed).FprintfFunc()
	subtleLine  = color.New(color.FgHiBlack).FprintfFunc()
)

func success(format string, args ...any) {
	successLine(os.Stdout, format+"\n", args...)
}

func failure(format string, args ...any) {
	errorLine(os.Stdout, format+"\n", args...)
}

func subtle(format string, args ...any) {
	subtleLine(os.Stdout, format+"\n", args...)
}
