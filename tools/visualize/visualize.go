// Package visualize provides the tool rendering a telemetry column as a line
// chart. The rendered image is persisted content-addressed and returned as a
// markdown image reference the agent can embed in its answer.
package visualize

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/bububa/ljson"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/backend"
	"github.com/effective-security/factoryagent/pkg/llmutils"
	"github.com/effective-security/factoryagent/pkg/metricskey"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/effective-security/factoryagent/store"
	"github.com/effective-security/factoryagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "visualize")

const ToolName = "VisualizeColumn"

// Plottable tables and their numeric columns.
// id and time_stamp are excluded, they are not sensor readings.
var tableColumns = map[string]map[string]bool{
	"machine": {
		"combiner_operation_temperature_1": true,
		"combiner_operation_temperature_2": true,
		"combiner_operation_temperature_3": true,
		"material_pressure":                true,
		"material_temperature":             true,
		"motor_rpm":                        true,
	},
	"ambient": {
		"ambient_humidity":    true,
		"ambient_temperature": true,
		"zone_1_temperature":  true,
	},
}

// ChartRequest represents the tool input.
type ChartRequest struct {
	Table  string `json:"table" yaml:"table" jsonschema:"title=Table,description=The telemetry table to plot from. One of: machine or ambient."`
	Column string `json:"column" yaml:"column" jsonschema:"title=Column,description=The numeric column of the table to plot over time"`
}

// ChartResult carries the markdown image reference of the rendered chart.
type ChartResult struct {
	Markdown string `json:"markdown"`
}

func (r *ChartResult) String() string {
	return r.Markdown
}

// Tool renders a telemetry column as an SVG line chart.
type Tool struct {
	name        string
	description string
	funcParams  any

	client        *backend.Client
	charts        store.ChartStore
	publicBaseURL string
}

var _ tools.Tool[ChartRequest, ChartResult] = (*Tool)(nil)

// New creates the visualization tool.
func New(client *backend.Client, charts store.ChartStore, publicBaseURL string) (*Tool, error) {
	if charts == nil {
		return nil, errors.New("chart store is not configured")
	}
	if publicBaseURL == "" {
		return nil, errors.New("chart public base URL is not configured")
	}
	sc, err := schema.New(reflect.TypeOf(ChartRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Tool{
		name: ToolName,
		description: "Renders a line chart of one numeric column of the machine or ambient table over time. " +
			"Returns a markdown image reference to the rendered chart, embed it verbatim in the answer. " +
			"Plottable machine columns: combiner_operation_temperature_1, combiner_operation_temperature_2, " +
			"combiner_operation_temperature_3, material_pressure, material_temperature, motor_rpm. " +
			"Plottable ambient columns: ambient_humidity, ambient_temperature, zone_1_temperature.",
		funcParams:    sc.Parameters,
		client:        client,
		charts:        charts,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

// Run validates table and column, fetches the table, extracts the column as a
// numeric series and renders, stores and addresses the chart.
func (t *Tool) Run(ctx context.Context, req *ChartRequest) (*ChartResult, error) {
	table := strings.ToLower(strings.TrimSpace(req.Table))
	column := strings.ToLower(strings.TrimSpace(req.Column))

	columns, ok := tableColumns[table]
	if !ok {
		return nil, errors.Errorf("invalid request: unknown table %q, expected machine or ambient", req.Table)
	}
	if !columns[column] {
		return nil, errors.Errorf("invalid request: unknown column %q of table %q", req.Column, table)
	}

	raw, err := t.fetch(ctx, table)
	if err != nil {
		return nil, err
	}

	series, err := extractSeries(raw, column)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, errors.Errorf("no records to plot for column %q of table %q", column, table)
	}

	data := renderLineChart(fmt.Sprintf("%s of %s", column, table), series)
	key := chartKey(table, column, data)

	err = t.charts.Save(ctx, &store.Chart{
		Key:         key,
		ContentType: ContentTypeSVG,
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to store chart")
	}
	metricskey.StatsChartsRendered.IncrCounter(1, table)
	logger.ContextKV(ctx, xlog.DEBUG,
		"table", table,
		"column", column,
		"samples", len(series),
		"key", key,
	)

	return &ChartResult{
		Markdown: fmt.Sprintf("![%s of %s](%s/%s)", column, table, t.publicBaseURL, key),
	}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req ChartRequest
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// fetch retrieves the full table, no time bounds and the default value ranges.
func (t *Tool) fetch(ctx context.Context, table string) (string, error) {
	switch table {
	case "machine":
		return t.client.MachineData(ctx, backend.DefaultMachineFilter())
	case "ambient":
		return t.client.AmbientData(ctx, backend.DefaultAmbientFilter())
	}
	return "", errors.Errorf("invalid request: unknown table %q", table)
}

// extractSeries pulls the column out of the JSON record list in response
// order. A missing or non-numeric value fails the whole extraction.
func extractSeries(raw, column string) ([]float64, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode telemetry records")
	}

	series := make([]float64, 0, len(records))
	for i, rec := range records {
		val, ok := rec[column]
		if !ok {
			return nil, errors.Errorf("column %q is missing in record %d", column, i)
		}
		var v float64
		if err := json.Unmarshal(val, &v); err != nil {
			return nil, errors.Errorf("column %q is not numeric in record %d", column, i)
		}
		series = append(series, v)
	}
	return series, nil
}

// chartKey content-addresses the chart, identical input renders to the same key.
func chartKey(table, column string, data []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(table)
	_, _ = d.WriteString("/")
	_, _ = d.WriteString(column)
	_, _ = d.WriteString("/")
	_, _ = d.Write(data)
	return fmt.Sprintf("%016x", d.Sum64())
}
