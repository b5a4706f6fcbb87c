package log

import (
	"net/http"
	"time"
)

// LogOutboundCall records one request this process made to a third party.
// Query strings are dropped since provider URLs may carry credentials.
// l is expected to already carry the request's correlation id.
func LogOutboundCall(l *Logger, r *http.Request, status int, latency time.Duration, err error) {
	attrs := []any{
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
		"status", status,
		"latency_ms", latency.Milliseconds(),
	}

	if err != nil {
		l.Warn("Outbound HTTP call failed", append(attrs, "error", err)...)
		return
	}

	l.Debug("Outbound HTTP call", attrs...)
}
