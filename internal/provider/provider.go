// Package provider holds the shared HTTP plumbing for the external data
// sources. Every adapter converts transport and status failures into a typed
// *Error instead of raising; retry policy belongs to callers.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrorKind categorizes a provider failure.
type ErrorKind string

const (
	// KindNetwork covers connectivity failures: DNS, connection reset,
	// timeout. Timed-out calls are indistinguishable from network loss.
	KindNetwork ErrorKind = "network"
	// KindHTTPStatus is a provider-side rejection (rate limit, bad key,
	// not-found) carried as a non-2xx status.
	KindHTTPStatus ErrorKind = "http_status"
	// KindMalformed means the body could not be decoded. Callers treat it
	// as a missing signal, not a crash.
	KindMalformed ErrorKind = "malformed"
)

// Error is a typed provider failure.
type Error struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("%s: HTTP %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsStatus reports whether err is a provider rejection with the given status.
func IsStatus(err error, status int) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindHTTPStatus && pe.Status == status
}

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 30 * time.Second

// Client performs JSON requests against one provider. It is stateless and
// safe for concurrent use.
type Client struct {
	name       string
	httpClient *http.Client
}

// NewClient creates a provider client with the given request timeout.
// A zero timeout falls back to DefaultTimeout.
func NewClient(name string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in error reporting.
func (c *Client) Name() string { return c.name }

// GetJSON performs a GET request and decodes the JSON response into dest.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, dest any) error {
	return c.do(ctx, http.MethodGet, url, header, nil, dest)
}

// PostJSON marshals body, performs a POST request and decodes the JSON
// response into dest.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Provider: c.name, Kind: KindMalformed, Err: fmt.Errorf("encoding request: %w", err)}
	}
	return c.do(ctx, http.MethodPost, url, header, payload, dest)
}

func (c *Client) do(ctx context.Context, method, url string, header http.Header, payload []byte, dest any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &Error{Provider: c.name, Kind: KindNetwork, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Provider: c.name, Kind: KindNetwork, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return &Error{Provider: c.name, Kind: KindNetwork, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Provider: c.name, Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{Provider: c.name, Kind: KindMalformed, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
