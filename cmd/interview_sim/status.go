package main

import (
	"io"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the interview in progress",
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return statusRun(a, cmd.OutOrStdout())
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(a *app, out io.Writer) error {
	a.printer(out).PrintStatus(currentSetup(a), a.wizard.Status())
	return nil
}
