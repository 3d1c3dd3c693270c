package ambient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/backend"
	"github.com/effective-security/factoryagent/tools"
	"github.com/effective-security/factoryagent/tools/ambient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = `[{"id":1,"ambient_humidity":45.2,"time_stamp":"2024-01-01 10:00:00"}]`

func newTool(t *testing.T, handler http.HandlerFunc) *ambient.Tool {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tool, err := ambient.New(backend.NewClient(srv.URL))
	require.NoError(t, err)
	return tool
}

func TestCallDefaults(t *testing.T) {
	t.Parallel()

	tool := newTool(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ambient", r.URL.Path)
		q := r.URL.Query()
		assert.False(t, q.Has("from_ts"))
		assert.Equal(t, "0", q.Get("min_value_humidity"))
		assert.Equal(t, "100", q.Get("max_value_humidity"))
		assert.Equal(t, "0", q.Get("min_value_amb_temperature"))
		assert.Equal(t, "100", q.Get("max_value_amb_temperature"))
		assert.Equal(t, "0", q.Get("min_value_zone_1_temperature"))
		assert.Equal(t, "100", q.Get("max_value_zone_1_temperature"))
		_, _ = w.Write([]byte(records))
	})

	assert.Equal(t, ambient.ToolName, tool.Name())

	out, err := tool.Call(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, records, out)
}

func TestCallWithFilters(t *testing.T) {
	t.Parallel()

	tool := newTool(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2024-01-01 00:00:00", q.Get("from_ts"))
		assert.Equal(t, "30", q.Get("min_value_humidity"))
		assert.Equal(t, "60", q.Get("max_value_humidity"))
		assert.Equal(t, "100", q.Get("max_value_zone_1_temperature"))
		_, _ = w.Write([]byte(records))
	})

	input := `{"from_timestamp": "2024-01-01 00:00:00", "min_value_humidity": 30, "max_value_humidity": 60}`
	out, err := tool.Call(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, records, out)
}

func TestCallRejectsLocally(t *testing.T) {
	t.Parallel()

	tool := newTool(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected backend call")
	})

	_, err := tool.Call(context.Background(), `garbage`)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	_, err = tool.Call(context.Background(), `{"min_value_humidity": 80, "max_value_humidity": 20}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range for humidity")
}
