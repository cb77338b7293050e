package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-simulator/internal/feedback"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the feedback report",
	Long: `Show the feedback report of a completed interview. The report is generated
once, after the HR round, and read from the session afterwards.`,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return resultsRun(cmd.Context(), a, cmd.OutOrStdout())
	}),
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the feedback report as plain text",
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return exportRun(a, cmd.OutOrStdout(), exportOut)
	}),
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", feedback.ExportFilename, "Output file, or - for stdout")
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(exportCmd)
}

func resultsRun(ctx context.Context, a *app, out io.Writer) error {
	view, err := a.wizard.Results(ctx)
	if err != nil {
		return err
	}
	if view.Redirect != "" {
		return fmt.Errorf("%s (continue at /%s)", view.Notice, view.Redirect)
	}
	a.printer(out).PrintReport(view.Report, view.Warning)
	return nil
}

func exportRun(a *app, out io.Writer, path string) error {
	text, err := a.wizard.Export()
	if err != nil {
		return err
	}
	if path == "-" {
		_, err := io.WriteString(out, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}
