// ABOUTME: Freshness computation from upstream Cache-Control headers.
// ABOUTME: Uses max-age when present and falls back to a fixed default lifetime.

package srclient

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultFreshness is used when a response carries no usable max-age.
const DefaultFreshness = 5 * time.Minute

// parseMaxAge extracts the max-age directive from a Cache-Control value.
func parseMaxAge(header string) (time.Duration, bool) {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		key, value, found := strings.Cut(part, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "max-age") {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), "\"")
		seconds, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}

// expiresAt computes the absolute expiry for a response received at now.
func expiresAt(header http.Header, now time.Time, fallback time.Duration) time.Time {
	if maxAge, ok := parseMaxAge(header.Get("Cache-Control")); ok {
		return now.Add(maxAge)
	}
	return now.Add(fallback)
}
