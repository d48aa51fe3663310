/*
Package logx provides a structured logging wrapper based on zerolog.

This file contains an http.RoundTripper that logs every outbound request with its
method, redacted URL, response status, and latency. Secrets in the query string are
redacted before they reach the log.
*/
package logx

import (
	"net/http"
	"net/url"
	"time"
)

// redactedParams lists query parameters whose values must never be logged.
var redactedParams = []string{"key", "access_token"}

// RedactURL returns the URL string with secret query values replaced by "REDACTED".
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	changed := false
	for _, name := range redactedParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}

	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}

type loggingTransport struct {
	next http.RoundTripper
}

// Transport wraps next so every request is logged at Debug level, and every
// transport failure at Warn level. A nil next uses http.DefaultTransport.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	logger := Logger().With().
		Str("component", "http").
		Str("request_method", r.Method).
		Str("request_url", RedactURL(r.URL)).
		Logger()

	t1 := time.Now()
	res, err := t.next.RoundTrip(r)
	if err != nil {
		logger.Warn().
			Err(err).
			Dur("latency", time.Since(t1)).
			Msg("Request failed")
		return nil, err
	}

	logEvent := logger.Debug()
	if res.StatusCode >= 400 {
		logEvent = logger.Warn()
	}

	logEvent.
		Int("status", res.StatusCode).
		Dur("latency", time.Since(t1)).
		Msg("Request completed")

	return res, nil
}
