package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/effective-security/factoryagent/server"
	"github.com/effective-security/factoryagent/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, &store.Chart{
		Key:         "abc123",
		ContentType: "image/svg+xml",
		Data:        []byte("<svg><polyline/></svg>"),
		CreatedAt:   time.Now().UTC(),
	}))

	h := server.NewChartHandler(st)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/charts/abc123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Cache-Control"), "immutable")
		assert.Equal(t, "<svg><polyline/></svg>", w.Body.String())
	})

	t.Run("mounted_at_root", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abc123", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/charts/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing_key", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method_not_allowed", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/charts/abc123", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
	})
}
