package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tgboard/internal/cli"
	"tgboard/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tgboard",
	Short: "Telegram broadcast dashboard client",
	Long: `tgboard is a terminal client for the Telegram broadcast dashboard API.

Run without arguments to start the interactive TUI, or use the
subcommands for scripting.

Examples:
  tgboard                                  # Start interactive TUI
  tgboard login                            # Log in (prompts for credentials)
  tgboard send -m "Hello" -g 1 -g 2        # Broadcast to groups 1 and 2
  tgboard send --template promo --all-groups
  tgboard groups list --output json --query "[?active].name"
  tgboard history --local                  # Sends mirrored on this machine`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.Login(env, flagEmail, flagPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.Logout(env)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Broadcast a message to Telegram groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.Send(env, cli.SendOptions{
			Message:      flagMessage,
			TemplateName: flagTemplate,
			GroupIDs:     flagGroupIDs,
			AllGroups:    flagAllGroups,
			Output:       outputOptions(),
		})
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage recipient groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.ListGroups(env, outputOptions())
	},
}

var groupsAddCmd = &cobra.Command{
	Use:   "add <chat-id> <name>",
	Short: "Register a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.AddGroup(env, args[0], args[1])
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage message templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.ListTemplates(env, outputOptions())
	},
}

var templatesAddCmd = &cobra.Command{
	Use:   "add <name> <content>",
	Short: "Create a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.AddTemplate(env, args[0], args[1])
	},
}

var templatesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id %q", args[0])
		}
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.RemoveTemplate(env, id)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (admin only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.ListUsers(env, outputOptions())
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add <email> <password>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.AddUser(env, flagName, args[0], args[1])
	},
}

var usersRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid account id %q", args[0])
		}
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.RemoveUser(env, id)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard counters and API health",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.Stats(env, outputOptions())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past broadcasts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := cli.Setup()
		if err != nil {
			return err
		}
		return cli.History(env, flagLocal, outputOptions())
	},
}

var (
	flagEmail    string
	flagPassword string

	flagMessage   string
	flagTemplate  string
	flagGroupIDs  []int
	flagAllGroups bool

	flagName  string
	flagLocal bool

	flagOutput string
	flagQuery  string
)

func outputOptions() cli.OutputOptions {
	return cli.OutputOptions{Format: flagOutput, Query: flagQuery}
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")

	sendCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Message text to broadcast")
	sendCmd.Flags().StringVar(&flagTemplate, "template", "", "Use the named template as message text")
	sendCmd.Flags().IntSliceVarP(&flagGroupIDs, "group", "g", nil, "Group id to send to (repeatable)")
	sendCmd.Flags().BoolVar(&flagAllGroups, "all-groups", false, "Send to every active group")

	usersAddCmd.Flags().StringVar(&flagName, "name", "", "Display name for the new account")
	historyCmd.Flags().BoolVar(&flagLocal, "local", false, "Read the local send log instead of the server")

	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: text or json")
	rootCmd.PersistentFlags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to JSON output")

	groupsCmd.AddCommand(groupsListCmd, groupsAddCmd)
	templatesCmd.AddCommand(templatesListCmd, templatesAddCmd, templatesRmCmd)
	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersRmCmd)

	rootCmd.AddCommand(
		loginCmd, logoutCmd, sendCmd,
		groupsCmd, templatesCmd, usersCmd,
		statsCmd, historyCmd,
	)
}
