package pkg

import (
	"net"
	"net/http"
	"strings"
)

const UnknownIP = "unknown"

// ReadUserIP returns the client address as reported by the proxy in front of us.
// The first X-Forwarded-For entry wins, then X-Real-Ip, then the remote address host.
// Clients can forge these headers: use TrustedProxies.ClientIP for rate limiting and
// anything else that must not be spoofable.
func ReadUserIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
		return realIP
	}

	if r.RemoteAddr == "" {
		return UnknownIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
