// Package server provides the HTTP handler serving rendered charts.
// The handler is a library piece, the host process mounts it under the path
// matching the configured public base URL.
package server

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/store"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "server")

// ChartHandler serves stored charts by key.
type ChartHandler struct {
	charts store.ChartStore
}

// NewChartHandler creates the chart handler over the given store.
func NewChartHandler(charts store.ChartStore) *ChartHandler {
	return &ChartHandler{charts: charts}
}

// ServeHTTP streams the chart for GET /{key}. The key is the final path
// element, so the handler works under any mount point.
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := strings.Trim(r.URL.Path, "/")
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		key = key[idx+1:]
	}
	if key == "" {
		http.Error(w, "chart key is required", http.StatusBadRequest)
		return
	}

	chart, err := h.charts.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "chart not found", http.StatusNotFound)
			return
		}
		logger.ContextKV(r.Context(), xlog.ERROR,
			"key", key,
			"err", err.Error(),
		)
		http.Error(w, "failed to load chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", chart.ContentType)
	// content-addressed keys never change payload, cache aggressively
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chart.Data)
}
