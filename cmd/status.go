package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldenis/synctray/internal/adapters/render/tray"
)

type currentStatus struct {
	DisplayName   string `json:"display_name"`
	ServerURL     string `json:"server_url"`
	Connected     bool   `json:"connected"`
	HasTalk       bool   `json:"has_talk"`
	HasActivities bool   `json:"has_activities"`
	TalkURL       string `json:"talk_url,omitempty"`
	Sessions      int    `json:"sessions"`
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current account and the session list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := collectStatus(app)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", status.DisplayName, status.ServerURL); err != nil {
				return err
			}
			if status.HasTalk && status.TalkURL != "" {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "talk: %s\n", status.TalkURL); err != nil {
					return err
				}
			}

			model := tray.NewModel(app.registry)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), model.View())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine readable output")

	return cmd
}

func collectStatus(app *app) currentStatus {
	status := currentStatus{
		DisplayName:   app.registry.CurrentDisplayName(),
		ServerURL:     app.registry.CurrentServerURL(),
		HasTalk:       app.registry.CurrentHasTalk(),
		HasActivities: app.registry.CurrentHasActivities(),
		Sessions:      app.registry.Count(),
	}

	if index := app.registry.CurrentIndex(); index >= 0 {
		status.Connected, _ = app.registry.IsConnected(index)
		if status.HasTalk {
			status.TalkURL, _ = app.registry.TalkURL(index)
		}
	}

	return status
}
