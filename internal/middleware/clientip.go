package middleware

import (
	"net/http"
	"strings"
)

// ClientIP extracts the caller identifier used for rate-limit keying and
// logging: the first hop of X-Forwarded-For, then X-Real-IP, then
// X-Client-IP, falling back to "unknown". The value identifies a rate-limit
// bucket, not a user, so a spoofable header is acceptable here.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Client-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
