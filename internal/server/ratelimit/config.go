package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule is the rate limit for one route. A Path ending in "/" matches by
// prefix; Limit 0 means unlimited.
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Trusted         map[string]bool
	Rules           []Rule
}

// DefaultConfig returns the built-in configuration: strict limits on the
// LLM-backed search stages, a lenient default for reads, and an unlimited
// health check.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Trusted:         make(map[string]bool),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-route limits. Every LLM-backed stage costs
// real money upstream, so they sit well below the read default.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/api/health", Method: "GET", Limit: 0},
		{Path: "/api/search/similar-employees", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/search/filter", Method: "POST", Limit: 120, Window: time.Hour, Burst: 20},
		{Path: "/api/search/evaluate/stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/people/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

// LoadConfig loads rate limiting configuration from environment variables,
// falling back to the defaults.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	cfg := DefaultConfig()
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Trusted = parseIPList(os.Getenv("RATE_LIMIT_TRUSTED"))
	return cfg
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
