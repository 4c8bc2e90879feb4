package config

import (
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the availability response cache
// middleware.  When Enabled is false or no Redis client is configured,
// caching is disabled.  Methods lists the HTTP methods to cache.  TTL is
// kept short because table availability changes with every booking write.
// KeyStrategy determines which parts of the request contribute to the
// cache key.  Prefix and MaxBodyBytes control namespacing and the maximum
// size of responses worth caching.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  All methods are
// upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      strOr("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(strOr("CACHE_METHODS", "GET")),
		TTL:          parseDur(strOr("CACHE_TTL", "15s")),
		KeyStrategy:  strOr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       strOr("CACHE_PREFIX", "avail"),
		MaxBodyBytes: atoi(strOr("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
