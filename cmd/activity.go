package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ldenis/synctray/internal/adapters/render/tray"
	"github.com/ldenis/synctray/internal/application"
	"github.com/ldenis/synctray/internal/domain"
)

func newActivityCmd(app *app) *cobra.Command {
	var (
		index       int
		errorsOnly  bool
		ignoredOnly bool
		fetch       bool
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity feed for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feed, err := selectFeed(app, index)
			if err != nil {
				return err
			}
			if feed == nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No users")
				return err
			}

			if fetch {
				added, err := pullFeedPage(cmd.Context(), cmd.OutOrStdout(), feed)
				if err != nil {
					return fmt.Errorf("fetch activity: %w", err)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "fetched %d activity entries\n", added); err != nil {
					return err
				}
			}

			records := selectRecords(feed, errorsOnly, ignoredOnly)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tray.RenderFeed(records))
			return err
		},
	}

	cmd.Flags().IntVar(&index, "index", -1, "session index (default: current account)")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "show only sync errors")
	cmd.Flags().BoolVar(&ignoredOnly, "ignored", false, "show only ignored files")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "pull the next page of server activity first")

	return cmd
}

func selectFeed(app *app, index int) (*application.Feed, error) {
	if index < 0 {
		return app.registry.CurrentFeed(), nil
	}
	return app.registry.Feed(index)
}

func selectRecords(feed *application.Feed, errorsOnly, ignoredOnly bool) []domain.ActivityRecord {
	switch {
	case errorsOnly:
		return feed.Errors()
	case ignoredOnly:
		return feed.Ignored()
	default:
		return feed.All()
	}
}

// pullFeedPage runs the feed's next-page fetch behind a spinner and reports
// how many records the page appended. A disconnected feed appends nothing.
func pullFeedPage(ctx context.Context, output io.Writer, feed *application.Feed) (int, error) {
	pull := func() tea.Msg {
		before := feed.Len()
		err := feed.FetchMore(ctx)
		return feedPageMsg{added: feed.Len() - before, err: err}
	}

	p := tea.NewProgram(
		newFeedPullModel(pull),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return 0, err
	}

	model, ok := final.(feedPullModel)
	if !ok {
		return 0, fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return model.added, model.err
}

type feedPageMsg struct {
	added int
	err   error
}

type feedPullModel struct {
	spinner spinner.Model
	pull    tea.Cmd
	added   int
	err     error
	done    bool
}

func newFeedPullModel(pull tea.Cmd) feedPullModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Points),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)

	return feedPullModel{spinner: s, pull: pull}
}

func (m feedPullModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pull)
}

func (m feedPullModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedPageMsg:
		m.done = true
		m.added = msg.added
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m feedPullModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s pulling server activity", m.spinner.View())
}
