/*
Package req provides helper functions for outbound HTTP requests and response decoding.

It encapsulates issuing a GET, enforcing a response size limit, checking the status
code, and binding a JSON body, mapping every failure onto the errs package codes so
callers can return them unchanged.
*/
package req

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"commongames/internal/pkg/errs"
)

const (
	// MaxResponseSize defines the maximum accepted response body size (32 MB).
	// Large libraries make GetOwnedGames responses a few megabytes at most.
	MaxResponseSize int64 = 32 << 20 // 32 MB
)

// StatusError is the cause attached to errs.ErrUnexpectedStatus.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// StatusCode returns the HTTP status of a non-2xx answer carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// Get issues a GET request for rawURL and returns the response body.
// Transport failures map to errs.ErrTransport, non-2xx answers to errs.ErrUnexpectedStatus,
// and oversized or unreadable bodies to errs.ErrMalformedPayload.
// The endpoint name used in messages is the URL's host and path, never its query.
func Get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrTransport, err, endpointName(rawURL))
	}
	request.Header.Set("Accept", "application/json")

	endpoint := request.URL.Host + request.URL.Path

	response, err := client.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request to %s: %w", endpoint, ctxErr)
		}
		return nil, errs.Wrap(errs.ErrTransport, stripURL(err), endpoint)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, MaxResponseSize))
		return nil, errs.Wrap(errs.ErrUnexpectedStatus, &StatusError{StatusCode: response.StatusCode}, endpoint, response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize+1))
	if err != nil {
		return nil, errs.Wrap(errs.ErrTransport, err, endpoint)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, errs.Wrap(errs.ErrMalformedPayload, fmt.Errorf("response exceeds %d bytes", MaxResponseSize), endpoint)
	}

	return body, nil
}

// GetJSON issues a GET request for rawURL and binds the JSON body to dst.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	body, err := Get(ctx, client, rawURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errs.Wrap(errs.ErrMalformedPayload, err, endpointName(rawURL))
	}

	return nil
}

// endpointName returns host and path of rawURL, dropping the query string.
func endpointName(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawURL = rawURL[:i]
	}
	rawURL = strings.TrimPrefix(rawURL, "https://")
	return strings.TrimPrefix(rawURL, "http://")
}

// stripURL drops the *url.Error wrapper, whose message repeats the full request URL
// including the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
