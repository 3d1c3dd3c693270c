package visualize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLineChart(t *testing.T) {
	t.Parallel()

	t.Run("series", func(t *testing.T) {
		t.Parallel()
		svg := string(renderLineChart("motor_rpm of machine", []float64{1200.5, 1250, 1190.2}))
		assert.True(t, strings.HasPrefix(svg, "<svg xmlns="), svg)
		assert.Contains(t, svg, "motor_rpm of machine")
		assert.Contains(t, svg, "<polyline")
		// three samples, three points
		require.Equal(t, 1, strings.Count(svg, "<polyline"))
		assert.Equal(t, 3, strings.Count(extractPoints(t, svg), " ")+1)
	})

	t.Run("flat_series", func(t *testing.T) {
		t.Parallel()
		svg := string(renderLineChart("flat", []float64{50, 50, 50}))
		assert.Contains(t, svg, "<polyline")
	})

	t.Run("single_sample", func(t *testing.T) {
		t.Parallel()
		svg := string(renderLineChart("single", []float64{42}))
		assert.Contains(t, svg, "<polyline")
	})

	t.Run("title_escaped", func(t *testing.T) {
		t.Parallel()
		svg := string(renderLineChart("a < b & c", []float64{1, 2}))
		assert.Contains(t, svg, "a &lt; b &amp; c")
		assert.NotContains(t, svg, "a < b")
	})
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100", formatValue(100))
	assert.Equal(t, "0.5", formatValue(0.5))
	assert.Equal(t, "12.25", formatValue(12.25))
}

func extractPoints(t *testing.T, svg string) string {
	t.Helper()
	start := strings.Index(svg, `points="`)
	require.GreaterOrEqual(t, start, 0)
	start += len(`points="`)
	end := strings.Index(svg[start:], `"`)
	require.GreaterOrEqual(t, end, 0)
	return svg[start : start+end]
}
