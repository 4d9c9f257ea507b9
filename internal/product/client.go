// Package product implements the HTTP client for the external product
// service, resolving a resource across an ordered list of candidate
// endpoints.
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AndresCespedes/inventory-service/internal/obs"
)

// Attempt records the outcome of one candidate try.
type Attempt struct {
	Address string
	// StatusCode is zero when the candidate could not be reached at all.
	StatusCode int
	Err        error
}

// ResolveError aggregates the per-candidate failures after every candidate
// has been tried.
type ResolveError struct {
	Path     string
	Attempts []Attempt
}

func (e *ResolveError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Address, a.Err))
	}
	return fmt.Sprintf("all %d candidates failed for %s: %s",
		len(e.Attempts), e.Path, strings.Join(parts, "; "))
}

// NotFound reports whether any candidate was reachable and answered that
// the resource does not exist. This distinguishes "product legitimately
// absent" from "dependency unreachable".
func (e *ResolveError) NotFound() bool {
	for _, a := range e.Attempts {
		if a.StatusCode == http.StatusNotFound {
			return true
		}
	}
	return false
}

// Client resolves product resources against the candidate endpoint list.
type Client struct {
	endpoints []string
	apiKey    string
	hc        *http.Client
}

// NewClient builds a Client. Each attempt is bounded by timeout; candidates
// are tried strictly in list order.
func NewClient(endpoints []string, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoints: endpoints,
		apiKey:    apiKey,
		hc:        &http.Client{Timeout: timeout},
	}
}

// Resolve fetches path from the first healthy candidate and returns the
// decoded JSON payload together with the address that served it. A
// non-success response or timeout advances to the next candidate without
// retrying; once every candidate has failed a *ResolveError is returned.
func (c *Client) Resolve(ctx context.Context, path string) (any, string, error) {
	path = strings.TrimPrefix(path, "/")
	attempts := make([]Attempt, 0, len(c.endpoints))

	for _, base := range c.endpoints {
		url := base + "/" + path
		payload, status, err := c.attempt(ctx, url)
		if err == nil {
			obs.ResolveAttempts.WithLabelValues("ok").Inc()
			return payload, base, nil
		}
		if errors.Is(err, context.Canceled) {
			// Caller abandoned the operation; no point trying
			// further candidates.
			return nil, "", err
		}
		obs.ResolveAttempts.WithLabelValues(attemptResult(status)).Inc()
		obs.Logger.Warn("product_candidate_failed",
			"address", base, "path", path, "status", status, "error", err.Error())
		attempts = append(attempts, Attempt{Address: base, StatusCode: status, Err: err})
	}

	return nil, "", &ResolveError{Path: path, Attempts: attempts}
}

func attemptResult(status int) string {
	if status == 0 {
		return "unreachable"
	}
	return "non_success"
}

// attempt performs a single bounded GET against url.
func (c *Client) attempt(ctx context.Context, url string) (any, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, res.StatusCode, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, res.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return payload, res.StatusCode, nil
}
