package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "synctray",
		Short:         "synctray: manage connected sync accounts and their activity",
		Long:          "synctray keeps the list of connected remote-storage accounts, tracks which one is current, and shows each account's sync activity and errors from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountsCmd(app),
		newStatusCmd(app),
		newActivityCmd(app),
	)

	return rootCmd
}
