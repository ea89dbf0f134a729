package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ParseDurationEnv parses an env value as time.Duration:
// - "10s", "5m" etc. (time.ParseDuration)
// - bare number "10" = seconds (10s)
// Surrounding quotes are stripped; negative values are rejected.
func ParseDurationEnv(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", s)
	}
	return d, nil
}

// ParseRedisURL parses a redis:// or rediss:// URL into client options.
func ParseRedisURL(s string) (*redis.Options, error) {
	s = strings.TrimSpace(s)
	// redis.ParseURL defaults an empty host to localhost.
	if u, err := url.Parse(s); err == nil && u.Host == "" {
		return nil, fmt.Errorf("missing host in Redis URL")
	}
	return redis.ParseURL(s)
}

// NormalizePathPrefixes trims the entries, drops empty ones and makes every
// prefix start and end with "/", so "/status" does not also match "/statusboard".
func NormalizePathPrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		out = append(out, p)
	}
	return out
}
