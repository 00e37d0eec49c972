package middleware

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/recordkit/recordkit/internal/idgen"
)

const (
	// HeaderXRequestID is the header name for request ID.
	HeaderXRequestID = "X-Request-ID"
	// HeaderXForwardedFor is the header name for forwarded client IP.
	HeaderXForwardedFor = "X-Forwarded-For"
	// HeaderXRealIP is the header name for real client IP.
	HeaderXRealIP = "X-Real-IP"
)

const requestIDMaxLength = 128

var validRequestIDRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// RequestID returns a middleware that tags each request with an ID. A safe
// incoming X-Request-ID is reused, otherwise gen supplies one. A nil gen
// uses UUIDv4.
func RequestID(gen idgen.Generator) Middleware {
	if gen == nil {
		gen = idgen.NewUUIDGenerator()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderXRequestID)
			if !isValidRequestID(requestID) {
				id, err := gen.Generate()
				if err != nil {
					id = uuid.NewString()
				}
				requestID = id
			}

			w.Header().Set(HeaderXRequestID, requestID)
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isValidRequestID(id string) bool {
	if id == "" || len(id) > requestIDMaxLength {
		return false
	}
	return validRequestIDRegex.MatchString(id)
}

// ClientIP returns a middleware that stores the client IP in context.
// Forwarding headers are honoured only when trustProxy is set and, if
// trustedProxies is non-empty, the peer is one of them.
func ClientIP(trustProxy bool, trustedProxies []string) Middleware {
	trusted := make(map[string]bool, len(trustedProxies))
	for _, ip := range trustedProxies {
		trusted[ip] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractClientIP(r, trustProxy, trusted)
			ctx := context.WithValue(r.Context(), ClientIPKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractClientIP(r *http.Request, trustProxy bool, trusted map[string]bool) string {
	remoteIP := hostOnly(r.RemoteAddr)

	if !trustProxy || (len(trusted) > 0 && !trusted[remoteIP]) {
		return remoteIP
	}

	// X-Forwarded-For is "client, proxy1, proxy2".
	if xff := r.Header.Get(HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get(HeaderXRealIP)); xri != "" {
		return xri
	}

	return remoteIP
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
