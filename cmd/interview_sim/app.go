package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/config"
	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/fetch"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/logging"
	"github.com/jonathan/interview-simulator/internal/observability"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/store"
	"github.com/jonathan/interview-simulator/internal/wizard"
)

// app holds everything a command needs.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	db      *db.DB
	session *session.Session
	wizard  *wizard.Wizard
}

// loadConfig resolves the configuration: file, then environment, then flags
// that were explicitly set, then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Step 2: Environment
	cfg.ApplyEnv(nil)

	// Step 3: Apply CLI overrides, only for flags that were explicitly set
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = rootStore
	}
	if flags.Changed("profile") {
		cfg.ProfileDir = rootProfileDir
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = rootDatabaseURL
	}
	if flags.Changed("namespace") {
		cfg.Namespace = rootNamespace
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootLogLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = rootLogFile
	}
	if flags.Changed("api-key") {
		cfg.APIKey = rootAPIKey
	}

	// Step 4: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openApp loads the configuration for cmd and opens the app.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newApp(cmd.Context(), cfg, log, nil)
}

// newApp opens the session store and builds the wizard. A nil factory uses Gemini.
func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, factory content.ProviderFactory) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &app{cfg: cfg, log: log}

	var st store.Store
	switch cfg.Store {
	case config.StoreMemory:
		st = store.NewMemory()
	case config.StorePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		a.db = database
		st = store.NewPostgres(database, cfg.NamespaceUUID(), log)
	default:
		path := filepath.Join(cfg.ProfileDir, store.DefaultFileName)
		fileStore, err := store.OpenFile(path, log)
		if err != nil {
			return nil, err
		}
		st = fileStore
	}

	a.session = session.New(st, log)
	if cfg.APIKey != "" {
		if _, ok := a.session.Credential(); !ok {
			if err := a.session.SetCredential(cfg.APIKey); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to store API key: %w", err)
			}
		}
	}

	if factory == nil {
		factory = content.GeminiFactory(cfg.LLMConfig(), log)
	}
	svc := content.NewService(a.session, factory, log)
	a.wizard = wizard.New(a.session, svc, log, wizard.WithAutosaveInterval(cfg.Autosave()))

	log.Debug("session opened",
		zap.String("store", cfg.Store),
		zap.Bool("has_credential", a.hasCredential()))
	return a, nil
}

func (a *app) hasCredential() bool {
	_, ok := a.session.Credential()
	return ok
}

// Close stops the wizard's timers and releases the database.
func (a *app) Close() {
	if a.wizard != nil {
		a.wizard.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.log.Sync()
}

func (a *app) printer(out io.Writer) *observability.Printer {
	return observability.NewPrinter(out, a.session.DarkMode())
}

// importer builds the job posting importer. Postings are cached in postgres
// when that store is in use.
func (a *app) importer() *fetch.Importer {
	cfg := fetch.ImporterConfig{Extractor: a.extractor()}
	if a.db != nil {
		cfg.Cache = a.db
	}
	if a.cfg.UseBrowser {
		cfg.Renderer = fetch.NewChromeRenderer(time.Duration(a.cfg.RequestTimeout)*time.Second, a.log)
	}
	return fetch.NewImporter(cfg, a.log)
}

// extractor opens a provider client per call with the stored credential, so
// a key entered after startup is picked up.
func (a *app) extractor() fetch.Extractor {
	return func(ctx context.Context, text string) (*llm.JobPosting, error) {
		key, ok := a.session.Credential()
		if !ok {
			return nil, content.ErrMissingCredential
		}
		client, err := llm.NewClient(ctx, a.cfg.LLMConfig(), key)
		if err != nil {
			return nil, err
		}
		defer func() { _ = client.Close() }()
		return fetch.LLMExtractor(client)(ctx, text)
	}
}

// withApp wraps a command body with app setup and teardown.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}
