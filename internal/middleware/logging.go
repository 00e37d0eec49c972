package middleware

import (
	"net/http"
	"time"

	"github.com/recordkit/recordkit/pkg/logger"
)

// Logging returns a middleware that stores a request-scoped logger in the
// context and logs one line per completed request. It must run after
// RequestID and ClientIP to pick up their values.
func Logging(log *logger.Logger) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			reqLog := log.With(
				"request_id", GetRequestID(r.Context()),
				"client_ip", GetClientIP(r.Context()),
			)
			ctx := logger.NewContext(r.Context(), reqLog)

			next.ServeHTTP(rw, r.WithContext(ctx))

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"bytes", rw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				reqLog.Error("request completed", fields...)
			case rw.statusCode >= http.StatusBadRequest:
				reqLog.Warn("request completed", fields...)
			default:
				reqLog.Info("request completed", fields...)
			}
		})
	}
}

// Recover returns a middleware that turns a handler panic into a 500
// response and logs it.
func Recover(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context(), log).Error("panic in handler", "panic", rec, "path", r.URL.Path)
				if !rw.wroteHeader {
					rw.Header().Set("Content-Type", "application/json")
					rw.WriteHeader(http.StatusInternalServerError)
					_, _ = rw.Write([]byte(`{"error":"internal server error","code":"INTERNAL_ERROR"}` + "\n"))
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
