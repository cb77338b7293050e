package ratelimit

import (
	"strings"
)

var unlimited = &EndpointConfig{Limit: 0}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. Exact paths win over prefix entries, and among
// prefix entries the longest prefix wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return unlimited
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			if best == nil || len(config.Path) > len(best.Path) {
				best = config
			}
		}
	}
	return best
}
