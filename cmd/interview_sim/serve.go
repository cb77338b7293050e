package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/server"
)

var (
	serveAddr       string
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview HTTP server",
	Long: `Start an HTTP server that exposes the interview rounds as navigational routes
and a JSON API. The server stops on SIGINT or SIGTERM, cancelling running countdowns.`,
	RunE: withApp(runServe),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render job pages in headless Chrome when needed (requires Chrome)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, a *app, _ []string) error {
	if cmd.Flags().Changed("addr") {
		a.cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("use-browser") {
		a.cfg.UseBrowser = serveUseBrowser
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pruneJobPostings(ctx, a)

	srv := server.New(server.Config{Addr: a.cfg.Addr}, a.wizard, a.importer(), a.log)
	return srv.Start(ctx)
}

// pruneJobPostings drops expired imports from the postgres cache.
func pruneJobPostings(ctx context.Context, a *app) {
	if a.db == nil {
		return
	}
	n, err := a.db.DeleteExpiredJobPostings(ctx)
	if err != nil {
		a.log.Warn("failed to prune job postings", zap.Error(err))
		return
	}
	if n > 0 {
		a.log.Info("pruned expired job postings", zap.Int64("count", n))
	}
}
