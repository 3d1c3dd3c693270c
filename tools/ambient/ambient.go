// Package ambient provides the tool querying ambient telemetry of the machine
// floor with optional time and value-range filters.
package ambient

import (
	"context"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/backend"
	"github.com/effective-security/factoryagent/pkg/llmutils"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/effective-security/factoryagent/tools"
)

const ToolName = "GetAmbientData"

// Every ambient quantity is reported on a 0..100 scale.
const (
	DefaultMinValue = backend.DefaultMinAmbientValue
	DefaultMaxValue = backend.DefaultMaxAmbientValue
)

// QueryRequest represents the tool input. All parameters are optional:
// omitted timestamps mean no time filtering, omitted bounds apply the
// default [0,100] range.
type QueryRequest struct {
	FromTimestamp            string `json:"from_timestamp,omitempty" yaml:"from_timestamp,omitempty" jsonschema:"title=From Timestamp,description=Start timestamp for filtering in UTC with format 2006-01-02 15:04:05. Omit for no lower time bound."`
	ToTimestamp              string `json:"to_timestamp,omitempty" yaml:"to_timestamp,omitempty" jsonschema:"title=To Timestamp,description=End timestamp for filtering in UTC with format 2006-01-02 15:04:05. Omit for no upper time bound."`
	MinValueHumidity         *int   `json:"min_value_humidity,omitempty" yaml:"min_value_humidity,omitempty" jsonschema:"title=Min Humidity,description=Inclusive lower bound for ambient humidity,default=0"`
	MaxValueHumidity         *int   `json:"max_value_humidity,omitempty" yaml:"max_value_humidity,omitempty" jsonschema:"title=Max Humidity,description=Inclusive upper bound for ambient humidity,default=100"`
	MinValueAmbTemperature   *int   `json:"min_value_amb_temperature,omitempty" yaml:"min_value_amb_temperature,omitempty" jsonschema:"title=Min Ambient Temperature,description=Inclusive lower bound for ambient temperature,default=0"`
	MaxValueAmbTemperature   *int   `json:"max_value_amb_temperature,omitempty" yaml:"max_value_amb_temperature,omitempty" jsonschema:"title=Max Ambient Temperature,description=Inclusive upper bound for ambient temperature,default=100"`
	MinValueZone1Temperature *int   `json:"min_value_zone_1_temperature,omitempty" yaml:"min_value_zone_1_temperature,omitempty" jsonschema:"title=Min Zone 1 Temperature,description=Inclusive lower bound for zone 1 temperature,default=0"`
	MaxValueZone1Temperature *int   `json:"max_value_zone_1_temperature,omitempty" yaml:"max_value_zone_1_temperature,omitempty" jsonschema:"title=Max Zone 1 Temperature,description=Inclusive upper bound for zone 1 temperature,default=100"`
}

// Filter resolves omitted bounds to the defaults and returns the backend query filter.
func (r *QueryRequest) Filter() *backend.AmbientFilter {
	return &backend.AmbientFilter{
		Time: backend.TimeRange{
			From: r.FromTimestamp,
			To:   r.ToTimestamp,
		},
		Humidity:         rng(r.MinValueHumidity, r.MaxValueHumidity),
		AmbTemperature:   rng(r.MinValueAmbTemperature, r.MaxValueAmbTemperature),
		Zone1Temperature: rng(r.MinValueZone1Temperature, r.MaxValueZone1Temperature),
	}
}

func rng(minVal, maxVal *int) backend.Range {
	r := backend.Range{Min: DefaultMinValue, Max: DefaultMaxValue}
	if minVal != nil {
		r.Min = *minVal
	}
	if maxVal != nil {
		r.Max = *maxVal
	}
	return r
}

// QueryResult carries the backend response verbatim.
type QueryResult struct {
	Records string `json:"records"`
}

func (r *QueryResult) String() string {
	return r.Records
}

// Tool queries the ambient telemetry endpoint.
type Tool struct {
	name        string
	description string
	funcParams  any

	client *backend.Client
}

var _ tools.Tool[QueryRequest, QueryResult] = (*Tool)(nil)

// New creates the ambient telemetry query tool.
func New(client *backend.Client) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(QueryRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Tool{
		name: ToolName,
		description: "Retrieves ambient data of the machine floor for a given timespan. " +
			"Each column of the ambient table has inclusive min and max filter parameters defaulting to the range 0 to 100. " +
			"Filter by time with from_timestamp and to_timestamp, all timestamps are UTC with format 2006-01-02 15:04:05. " +
			"Returns a JSON list with one object per sample, containing the keys ambient_humidity, " +
			"ambient_temperature, id, time_stamp and zone_1_temperature.",
		funcParams: sc.Parameters,
		client:     client,
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

// Run validates the filter locally and returns the backend response verbatim.
func (t *Tool) Run(ctx context.Context, req *QueryRequest) (*QueryResult, error) {
	filter := req.Filter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	raw, err := t.client.AmbientData(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Records: raw}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req QueryRequest
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
