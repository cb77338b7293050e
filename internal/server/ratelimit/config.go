package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window, zero or less is unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Environment variables read by LoadConfig.
const (
	EnvEnabled   = "INTERVIEW_SIM_RATE_LIMIT_ENABLED"
	EnvLimit     = "INTERVIEW_SIM_RATE_LIMIT_DEFAULT_LIMIT"
	EnvWindow    = "INTERVIEW_SIM_RATE_LIMIT_DEFAULT_WINDOW"
	EnvCleanup   = "INTERVIEW_SIM_RATE_LIMIT_CLEANUP_INTERVAL"
	EnvAllowList = "INTERVIEW_SIM_RATE_LIMIT_ALLOW"
	EnvDenyList  = "INTERVIEW_SIM_RATE_LIMIT_DENY"
)

// LoadConfig loads rate limiting configuration from the environment.
// A nil getenv reads the process environment.
func LoadConfig(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := envReader(getenv)

	if !env.boolean(EnvEnabled, true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer(EnvLimit, 600),
		DefaultWindow:   env.duration(EnvWindow, time.Minute),
		CleanupInterval: env.duration(EnvCleanup, 5*time.Minute),
		Allow:           parseClientList(getenv(EnvAllowList)),
		Deny:            parseClientList(getenv(EnvDenyList)),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the endpoints that reach the content provider.
// Everything else is covered by the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	provider := func(path, method string, limit, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: limit, Window: time.Minute, Burst: burst}
	}
	return []EndpointConfig{
		// Batch generation and page imports
		provider("/api/prefetch", "POST", 6, 2),
		provider("/api/setup/import", "POST", 10, 3),

		// Retries and evaluations
		provider("/api/rounds/mcq/retry", "POST", 20, 5),
		provider("/api/rounds/coding/retry", "POST", 20, 5),
		provider("/api/rounds/system-design/retry", "POST", 20, 5),
		provider("/api/rounds/hr/retry", "POST", 20, 5),
		provider("/api/rounds/coding/submit", "POST", 20, 5),
		provider("/api/rounds/system-design/submit", "POST", 20, 5),

		// Report generation
		provider("/api/results", "GET", 30, 10),

		// Countdown streams stay open; they are not counted
		{Path: "/api/rounds/mcq/countdown", Method: "GET", Limit: 0},
		{Path: "/api/rounds/system-design/countdown", Method: "GET", Limit: 0},
	}
}

type envReader func(string) string

func (e envReader) integer(key string, def int) int {
	if v := e(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if v := e(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v := e(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseClientList parses a comma-separated list of client IDs into a set.
func parseClientList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			result[id] = true
		}
	}
	return result
}
