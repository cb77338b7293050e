package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the interview in progress",
	Long:  `Discard the setup, answers, generated content and report. The API key and theme are kept.`,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return resetRun(a, cmd.OutOrStdout())
	}),
}

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage the stored Gemini API key",
}

var credentialSetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Store the API key",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		return credentialSetRun(a, cmd.OutOrStdout(), args[0])
	}),
}

var credentialClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return credentialClearRun(a, cmd.OutOrStdout())
	}),
}

var credentialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key, masked",
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		return credentialShowRun(a, cmd.OutOrStdout())
	}),
}

var themeCmd = &cobra.Command{
	Use:       "theme <dark|light>",
	Short:     "Set the color theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		return themeRun(a, cmd.OutOrStdout(), args[0])
	}),
}

func init() {
	credentialCmd.AddCommand(credentialSetCmd, credentialClearCmd, credentialShowCmd)
	rootCmd.AddCommand(resetCmd, credentialCmd, themeCmd)
}

func resetRun(a *app, out io.Writer) error {
	if err := a.wizard.Reset(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Interview reset.")
	return nil
}

func credentialSetRun(a *app, out io.Writer, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("please enter an API key")
	}
	if err := a.session.SetCredential(key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	_, _ = fmt.Fprintln(out, "API key saved.")
	return nil
}

func credentialClearRun(a *app, out io.Writer) error {
	if err := a.session.SetCredential(""); err != nil {
		return fmt.Errorf("failed to clear API key: %w", err)
	}
	_, _ = fmt.Fprintln(out, "API key removed.")
	return nil
}

func credentialShowRun(a *app, out io.Writer) error {
	key, ok := a.session.Credential()
	if !ok {
		_, _ = fmt.Fprintln(out, "No API key stored.")
		return nil
	}
	_, _ = fmt.Fprintln(out, maskKey(key))
	return nil
}

// maskKey keeps the last four characters.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func themeRun(a *app, out io.Writer, theme string) error {
	var dark bool
	switch strings.ToLower(theme) {
	case "dark":
		dark = true
	case "light":
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", theme)
	}
	if err := a.session.SetDarkMode(dark); err != nil {
		return fmt.Errorf("failed to store theme: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Theme set to %s.\n", strings.ToLower(theme))
	return nil
}
