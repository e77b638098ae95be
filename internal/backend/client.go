// Package backend is the HTTP/JSON client for the KB backend API.
// The backend owns all writes to the entry store and the vector
// index; request and response field names are contractual.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/metrics"
	"github.com/kailas-cloud/kbadmin/internal/version"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept in the
// returned error message.
const maxErrorBody = 512

// Client talks to the KB backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client for the given base URL. A nil
// httpClient falls back to a default with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// doJSON issues one JSON request and decodes the response into out
// (when non-nil). Non-2xx responses and undecodable bodies surface as
// backend errors; transport failures surface as network errors. No
// retries: the backend provides no idempotency key.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", "kbadmin/"+version.Version)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewBackendError(resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewBackendError(resp.StatusCode, fmt.Sprintf("malformed response: %v", err))
	}
	return nil
}

// statusResponse is the common {success, error} envelope.
type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// check converts an unsuccessful envelope into a backend error.
func (r statusResponse) check() error {
	if r.Success {
		return nil
	}
	return domain.NewBackendError(0, r.Error)
}
