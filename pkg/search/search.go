// Package search provides the client for the documentation index,
// an Azure-AI-Search style service returning ranked passages with relevance scores.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "search")

// DefaultAPIVersion is the search REST API version used when none is configured.
const DefaultAPIVersion = "2023-11-01"

// DefaultContentKey is the document field holding the passage text.
const DefaultContentKey = "content"

// Config specifies the documentation index.
type Config struct {
	// Endpoint is the service URL, e.g. https://myservice.search.windows.net
	Endpoint string `json:"endpoint" yaml:"endpoint" validate:"required,url"`
	// IndexName is the name of the documentation index.
	IndexName string `json:"index_name" yaml:"index_name" validate:"required"`
	// APIKey authenticates query requests, typically expanded from the environment.
	APIKey string `json:"api_key" yaml:"api_key" validate:"required"`
	// APIVersion overrides DefaultAPIVersion.
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	// ContentKey overrides DefaultContentKey.
	ContentKey string `json:"content_key,omitempty" yaml:"content_key,omitempty"`
}

// Document is a ranked passage from the index.
type Document struct {
	// Score is the relevance score assigned by the index.
	Score float64
	// Content is the passage text.
	Content string
	// Title is the optional source document title.
	Title string
}

// Client queries the documentation index.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a documentation index client.
func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.ContentKey == "" {
		cfg.ContentKey = DefaultContentKey
	}
	return &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient sets the HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

type searchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
}

type searchResponse struct {
	Value []json.RawMessage `json:"value"`
}

// Search returns up to top ranked passages for the query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, top int) ([]Document, error) {
	if query == "" {
		return nil, errors.New("invalid request: empty query")
	}

	body, err := json.Marshal(searchRequest{Search: query, Top: top})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search request")
	}

	u := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		strings.TrimSuffix(c.cfg.Endpoint, "/"), c.cfg.IndexName, c.cfg.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	started := time.Now()
	metricskey.StatsDocSearches.IncrCounter(1, c.cfg.IndexName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "documentation index is unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read search response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("documentation index returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	docs := make([]Document, 0, len(sr.Value))
	for _, item := range sr.Value {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, errors.Wrap(err, "failed to decode search document")
		}
		var doc Document
		if raw, ok := fields["@search.score"]; ok {
			_ = json.Unmarshal(raw, &doc.Score)
		}
		if raw, ok := fields[c.cfg.ContentKey]; ok {
			_ = json.Unmarshal(raw, &doc.Content)
		}
		if raw, ok := fields["title"]; ok {
			_ = json.Unmarshal(raw, &doc.Title)
		}
		docs = append(docs, doc)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"index", c.cfg.IndexName,
		"documents", len(docs),
		"elapsed", time.Since(started).String(),
	)
	return docs, nil
}
