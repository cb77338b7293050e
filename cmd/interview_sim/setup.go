package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-simulator/internal/types"
)

var (
	setupTitle       string
	setupCompany     string
	setupExperience  string
	setupDescription string
	setupURL         string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Start a new interview",
	Long: `Start a new interview for a role. Any interview in progress is discarded; the
API key and theme are kept.

With --url the job posting is imported first and the other flags override what
was extracted from it.`,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		req := types.SetupRequest{
			JobTitle:       setupTitle,
			Company:        setupCompany,
			Experience:     setupExperience,
			JobDescription: setupDescription,
		}
		return setupRun(cmd.Context(), a, cmd.OutOrStdout(), req, setupURL)
	}),
}

func init() {
	setupCmd.Flags().StringVarP(&setupTitle, "title", "t", "", "Job title")
	setupCmd.Flags().StringVarP(&setupCompany, "company", "c", "", "Company name")
	setupCmd.Flags().StringVarP(&setupExperience, "experience", "e", "", "Experience level: entry-level, mid-level, senior or leadership")
	setupCmd.Flags().StringVarP(&setupDescription, "description", "d", "", "Job description (optional)")
	setupCmd.Flags().StringVar(&setupURL, "url", "", "Import the job posting at this URL")
	rootCmd.AddCommand(setupCmd)
}

// setupRun submits the setup form. Non-empty fields of req override an imported posting.
func setupRun(ctx context.Context, a *app, out io.Writer, req types.SetupRequest, url string) error {
	if url != "" {
		posting, err := a.importer().Import(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to import job posting: %w", err)
		}
		form := posting.SetupRequest()
		overlay(&form.JobTitle, req.JobTitle)
		overlay(&form.Company, req.Company)
		overlay(&form.Experience, req.Experience)
		overlay(&form.JobDescription, req.JobDescription)
		req = form
	}

	if _, err := a.wizard.SubmitSetup(req); err != nil {
		return err
	}
	a.printer(out).PrintStatus(currentSetup(a), a.wizard.Status())
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func currentSetup(a *app) *types.InterviewSetup {
	setup, _ := a.session.Setup()
	return setup
}
