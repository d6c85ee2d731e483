package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ldenis/synctray/internal/adapters/render/tray"
	"github.com/ldenis/synctray/internal/domain"
)

func newAccountsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage connected accounts",
	}

	cmd.AddCommand(
		newAccountsListCmd(app),
		newAccountsAddCmd(app),
		newAccountsRemoveCmd(app),
		newAccountsSwitchCmd(app),
		newAccountsLoginCmd(app),
		newAccountsLogoutCmd(app),
	)

	return cmd
}

func newAccountsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			model := tray.NewModel(app.registry)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), model.View())
			return err
		},
	}
}

func newAccountsAddCmd(app *app) *cobra.Command {
	var (
		id          string
		login       string
		display     string
		server      string
		makeCurrent bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := domain.Account{
				ID:          domain.AccountID(id),
				LoginName:   login,
				DisplayName: display,
				ServerURL:   server,
			}

			// The directory addition notifies the registry, which builds
			// the session.
			if err := app.directory.Add(cmd.Context(), account); err != nil {
				return fmt.Errorf("add account: %w", err)
			}

			if makeCurrent {
				if index := app.registry.IndexOf(account.ID); index >= 0 {
					if err := app.registry.SwitchCurrent(index); err != nil {
						return err
					}
				}
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", account.PreferredName(), account.ID); err != nil {
				return err
			}
			if makeCurrent {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "current account: %s\n", app.registry.CurrentDisplayName()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "stable account identifier")
	cmd.Flags().StringVar(&login, "login", "", "login name on the server")
	cmd.Flags().StringVar(&display, "display-name", "", "preferred display name")
	cmd.Flags().StringVar(&server, "server", "", "server base URL")
	cmd.Flags().BoolVar(&makeCurrent, "current", false, "select the new account")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

func newAccountsRemoveCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <index>",
		Short: "Sign out an account and delete its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			name, err := app.registry.DisplayName(index)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirm(cmd, fmt.Sprintf("Remove the connection to account %q? This will not delete any files.", name))
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			if err := app.registry.RemoveSession(cmd.Context(), index); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", name)
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func newAccountsSwitchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <index>",
		Short: "Select the current account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := app.registry.SwitchCurrent(index); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "current account: %s\n", app.registry.CurrentDisplayName())
			return err
		},
	}
}

func newAccountsLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <index>",
		Short: "Sign an account in",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := app.registry.Login(cmd.Context(), index); err != nil {
				return err
			}

			connected, err := app.registry.IsConnected(index)
			if err != nil {
				return err
			}
			state := "offline"
			if connected {
				state = "online"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", state)
			return err
		},
		Args: cobra.ExactArgs(1),
	}
}

func newAccountsLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout <index>",
		Short: "Sign an account out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return app.registry.Logout(cmd.Context(), index)
		},
	}
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid session index %q", arg)
	}
	return index, nil
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt); err != nil {
		return false, err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
