// Package backend provides the HTTP client for the factory data service,
// which exposes machine telemetry, ambient telemetry and error logs.
// Responses are passed through verbatim, the tool layer imposes no structure on them.
package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "backend")

// DefaultTimeout bounds a single backend call,
// a timeout surfaces as an error instead of hanging the agent loop.
const DefaultTimeout = 30 * time.Second

// Endpoints of the data service.
const (
	EndpointMachine = "/machine"
	EndpointAmbient = "/ambient"
	EndpointLogs    = "/logs"
)

// Client is a client for the factory data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a data service client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
}

// WithHTTPClient sets the HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithTimeout sets the per-call timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// MachineData returns the raw response of the machine telemetry endpoint.
func (c *Client) MachineData(ctx context.Context, filter *MachineFilter) (string, error) {
	return c.get(ctx, EndpointMachine, filter.Values())
}

// AmbientData returns the raw response of the ambient telemetry endpoint.
func (c *Client) AmbientData(ctx context.Context, filter *AmbientFilter) (string, error) {
	return c.get(ctx, EndpointAmbient, filter.Values())
}

// Logs returns the raw response of the error log endpoint.
// The endpoint accepts no filters.
func (c *Client) Logs(ctx context.Context) (string, error) {
	return c.get(ctx, EndpointLogs, nil)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	started := time.Now()
	metricskey.StatsBackendQueries.IncrCounter(1, endpoint)

	resp, err := c.httpClient.Do(req)
	metricskey.PerfBackendQuery.MeasureSince(started, endpoint)
	if err != nil {
		metricskey.StatsBackendQueryFailed.IncrCounter(1, endpoint)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.Errorf("backend request timed out after %s: %s", c.timeout, endpoint)
		}
		return "", errors.Wrapf(err, "backend is unreachable: %s", endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metricskey.StatsBackendQueryFailed.IncrCounter(1, endpoint)
		return "", errors.Wrapf(err, "failed to read response: %s", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metricskey.StatsBackendQueryFailed.IncrCounter(1, endpoint)
		logger.ContextKV(ctx, xlog.ERROR,
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return "", errors.Errorf("backend returned status %d for %s: %s",
			resp.StatusCode, endpoint, snippet(body))
	}

	return string(body), nil
}

// snippet truncates an error body for inclusion in an error message.
func snippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
