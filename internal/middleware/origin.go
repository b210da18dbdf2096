// AngelaMos | 2026
// origin.go

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const (
	maxIPLength        = 45
	maxUserAgentLength = 512
)

// CaptureOrigin stores the client address and user agent on the request
// context for audit attribution. Both end up in text columns, so they are
// forced to valid UTF-8 before they leave here.
func CaptureOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := RequestOrigin{
			IPAddress: ClientIP(r),
			UserAgent: truncate(strings.ToValidUTF8(r.UserAgent(), ""), maxUserAgentLength),
		}
		next.ServeHTTP(w, r.WithContext(WithOrigin(r.Context(), origin)))
	})
}

// ClientIP prefers the last X-Forwarded-For hop, the one appended by our
// own proxy, then X-Real-IP, then the socket peer. Header values that do
// not parse as an address are ignored.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if ip, ok := parseIP(ips[len(ips)-1]); ok {
			return ip
		}
	}

	if ip, ok := parseIP(r.Header.Get("X-Real-IP")); ok {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip, ok := parseIP(host); ok {
		return ip
	}

	return truncate(strings.ToValidUTF8(host, ""), maxIPLength)
}

func parseIP(raw string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return truncate(addr.Unmap().String(), maxIPLength), true
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
