// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/logging"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvProfile     = "INTERVIEW_SIM_PROFILE"
	EnvAddr        = "INTERVIEW_SIM_ADDR"
	EnvLogLevel    = "INTERVIEW_SIM_LOG_LEVEL"
	EnvNamespace   = "INTERVIEW_SIM_NAMESPACE"
)

// DefaultProfileDir is where the file store keeps its session document.
const DefaultProfileDir = ".interview-sim"

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Provider
	APIKey         string            `json:"api_key,omitempty" yaml:"api_key,omitempty"`                 // Gemini API key, seeded into the session when none is stored
	Models         map[string]string `json:"models,omitempty" yaml:"models,omitempty"`                   // Model name per tier (lite, standard, advanced)
	RequestTimeout int               `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`

	// Storage
	Store       string `json:"store,omitempty" yaml:"store,omitempty"`             // memory, file or postgres
	ProfileDir  string `json:"profile_dir,omitempty" yaml:"profile_dir,omitempty"` // Directory of the file store
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	Namespace   string `json:"namespace,omitempty" yaml:"namespace,omitempty"` // Session namespace UUID for postgres

	// Server
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Rounds
	AutosaveInterval int  `json:"autosave_interval_seconds,omitempty" yaml:"autosave_interval_seconds,omitempty"`
	UseBrowser       bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Render job pages in headless Chrome when needed

	// Logging
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:            StoreFile,
		ProfileDir:       DefaultProfileDir,
		Addr:             "127.0.0.1:8080",
		RequestTimeout:   int(llm.DefaultRequestTimeout / time.Second),
		AutosaveInterval: 10,
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are parsed as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overwrites fields with any of the supported environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.APIKey, EnvAPIKey)
	set(&c.DatabaseURL, EnvDatabaseURL)
	set(&c.ProfileDir, EnvProfile)
	set(&c.Addr, EnvAddr)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Namespace, EnvNamespace)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case "", StoreMemory, StoreFile:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q (want memory, file or postgres)", c.Store)
	}

	if c.Namespace != "" {
		if _, err := uuid.Parse(c.Namespace); err != nil {
			return fmt.Errorf("config error: 'namespace' must be a UUID: %w", err)
		}
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("config error: 'autosave_interval_seconds' must be non-negative")
	}

	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Store, defaults.Store)
	fill(&result.ProfileDir, defaults.ProfileDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.Namespace, defaults.Namespace)
	fill(&result.Addr, defaults.Addr)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFile, defaults.LogFile)

	// Int fields: use default if zero
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.AutosaveInterval == 0 {
		result.AutosaveInterval = defaults.AutosaveInterval
	}

	// Models merge per tier
	if len(defaults.Models) > 0 {
		models := make(map[string]string, len(defaults.Models)+len(result.Models))
		for tier, model := range defaults.Models {
			models[tier] = model
		}
		for tier, model := range result.Models {
			if model != "" {
				models[tier] = model
			}
		}
		result.Models = models
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the provider configuration with any model overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range c.Models {
		if model != "" {
			cfg = cfg.WithModel(llm.ModelTier(tier), model)
		}
	}
	if c.RequestTimeout > 0 {
		cfg.Timeout = time.Duration(c.RequestTimeout) * time.Second
	}
	return cfg
}

// Autosave returns the autosave interval as a duration.
func (c *Config) Autosave() time.Duration {
	return time.Duration(c.AutosaveInterval) * time.Second
}

// NamespaceUUID returns the configured namespace, or the nil UUID when unset.
func (c *Config) NamespaceUUID() uuid.UUID {
	id, err := uuid.Parse(c.Namespace)
	if err != nil {
		return uuid.Nil
	}
	return id
}
