package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-simulator/internal/content"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Generate the content of every round ahead of time",
	Long: `Generate and cache the MCQ questions, coding problem, system design question
and HR questions for the current interview. Content already cached is kept.
Rounds whose generation fails get fallback content.`,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return prefetchRun(cmd.Context(), a, cmd.OutOrStdout())
	}),
}

func init() {
	rootCmd.AddCommand(prefetchCmd)
}

func prefetchRun(ctx context.Context, a *app, out io.Writer) error {
	results, err := a.wizard.Prefetch(ctx)
	if err != nil {
		return err
	}
	p := a.printer(out)
	for _, kind := range content.RoundKinds {
		if result, ok := results[kind]; ok {
			p.PrintContent(kind, result)
		}
	}
	return nil
}
