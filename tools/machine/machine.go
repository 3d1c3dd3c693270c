// Package machine provides the tool querying machine telemetry with optional
// time and value-range filters.
package machine

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

const ToolName = "GetMachineData"

// Documented default bounds, matching the physically plausible range of each sensor.
const (
	DefaultMinTemperature = backend.DefaultMinTemperature
	DefaultMaxTemperature = backend.DefaultMaxTemperature
	DefaultMinPressure    = backend.DefaultMinPressure
	DefaultMaxPressure    = backend.DefaultMaxPressure
	DefaultMinRPM         = backend.DefaultMinRPM
	DefaultMaxRPM         = backend.DefaultMaxRPM
)

// QueryRequest represents the tool input. All parameters are optional:
// omitted timestamps mean no time filtering, omitted bounds apply the
// documented default range of the sensor.
type QueryRequest struct {
	FromTimestamp          string `json:"from_timestamp,omitempty" yaml:"from_timestamp,omitempty" jsonschema:"title=From Timestamp,description=Start timestamp for filtering in UTC with format 2006-01-02 15:04:05. Omit for no lower time bound."`
	ToTimestamp            string `json:"to_timestamp,omitempty" yaml:"to_timestamp,omitempty" jsonschema:"title=To Timestamp,description=End timestamp for filtering in UTC with format 2006-01-02 15:04:05. Omit for no upper time bound."`
	MinCombOpTmp1          *int   `json:"min_comb_op_tmp_1,omitempty" yaml:"min_comb_op_tmp_1,omitempty" jsonschema:"title=Min Combiner Operation Temperature 1,description=Inclusive lower bound for combiner operation temperature 1,default=0"`
	MaxCombOpTmp1          *int   `json:"max_comb_op_tmp_1,omitempty" yaml:"max_comb_op_tmp_1,omitempty" jsonschema:"title=Max Combiner Operation Temperature 1,description=Inclusive upper bound for combiner operation temperature 1,default=200"`
	MinCombOpTmp2          *int   `json:"min_comb_op_tmp_2,omitempty" yaml:"min_comb_op_tmp_2,omitempty" jsonschema:"title=Min Combiner Operation Temperature 2,description=Inclusive lower bound for combiner operation temperature 2,default=0"`
	MaxCombOpTmp2          *int   `json:"max_comb_op_tmp_2,omitempty" yaml:"max_comb_op_tmp_2,omitempty" jsonschema:"title=Max Combiner Operation Temperature 2,description=Inclusive upper bound for combiner operation temperature 2,default=200"`
	MinCombOpTmp3          *int   `json:"min_comb_op_tmp_3,omitempty" yaml:"min_comb_op_tmp_3,omitempty" jsonschema:"title=Min Combiner Operation Temperature 3,description=Inclusive lower bound for combiner operation temperature 3,default=0"`
	MaxCombOpTmp3          *int   `json:"max_comb_op_tmp_3,omitempty" yaml:"max_comb_op_tmp_3,omitempty" jsonschema:"title=Max Combiner Operation Temperature 3,description=Inclusive upper bound for combiner operation temperature 3,default=200"`
	MinMaterialPressure    *int   `json:"min_material_pressure,omitempty" yaml:"min_material_pressure,omitempty" jsonschema:"title=Min Material Pressure,description=Inclusive lower bound for material pressure,default=0"`
	MaxMaterialPressure    *int   `json:"max_material_pressure,omitempty" yaml:"max_material_pressure,omitempty" jsonschema:"title=Max Material Pressure,description=Inclusive upper bound for material pressure,default=1000"`
	MinMaterialTemperature *int   `json:"min_material_temperature,omitempty" yaml:"min_material_temperature,omitempty" jsonschema:"title=Min Material Temperature,description=Inclusive lower bound for material temperature,default=0"`
	MaxMaterialTemperature *int   `json:"max_material_temperature,omitempty" yaml:"max_material_temperature,omitempty" jsonschema:"title=Max Material Temperature,description=Inclusive upper bound for material temperature,default=200"`
	MinMotorRPM            *int   `json:"min_motor_rpm,omitempty" yaml:"min_motor_rpm,omitempty" jsonschema:"title=Min Motor RPM,description=Inclusive lower bound for motor RPM,default=0"`
	MaxMotorRPM            *int   `json:"max_motor_rpm,omitempty" yaml:"max_motor_rpm,omitempty" jsonschema:"title=Max Motor RPM,description=Inclusive upper bound for motor RPM,default=3000"`
}

// Filter resolves omitted bounds to the documented defaults and returns the
// backend query filter.
func (r *QueryRequest) Filter() *backend.MachineFilter {
	return &backend.MachineFilter{
		Time: backend.TimeRange{
			From: r.FromTimestamp,
			To:   r.ToTimestamp,
		},
		CombOpTmp1:          rng(r.MinCombOpTmp1, r.MaxCombOpTmp1, DefaultMinTemperature, DefaultMaxTemperature),
		CombOpTmp2:          rng(r.MinCombOpTmp2, r.MaxCombOpTmp2, DefaultMinTemperature, DefaultMaxTemperature),
		CombOpTmp3:          rng(r.MinCombOpTmp3, r.MaxCombOpTmp3, DefaultMinTemperature, DefaultMaxTemperature),
		MaterialPressure:    rng(r.MinMaterialPressure, r.MaxMaterialPressure, DefaultMinPressure, DefaultMaxPressure),
		MaterialTemperature: rng(r.MinMaterialTemperature, r.MaxMaterialTemperature, DefaultMinTemperature, DefaultMaxTemperature),
		MotorRPM:            rng(r.MinMotorRPM, r.MaxMotorRPM, DefaultMinRPM, DefaultMaxRPM),
	}
}

func rng(minVal, maxVal *int, defMin, defMax int) backend.Range {
	r := backend.Range{Min: defMin, Max: defMax}
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

// Tool queries the machine telemetry endpoint.
type Tool struct {
	name        string
	description string
	funcParams  any

	client *backend.Client
}

var _ tools.Tool[QueryRequest, QueryResult] = (*Tool)(nil)

// New creates the machine telemetry query tool.
func New(client *backend.Client) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(QueryRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Tool{
		name: ToolName,
		description: "Retrieves telemetry samples of machine 1 for a given timespan. " +
			"Each column of the machine table has inclusive min and max filter parameters with documented defaults. " +
			"Filter by time with from_timestamp and to_timestamp, all timestamps are UTC with format 2006-01-02 15:04:05. " +
			"Returns a JSON list with one object per sample, containing the keys combiner_operation_temperature_1, " +
			"combiner_operation_temperature_2, combiner_operation_temperature_3, id, material_pressure, " +
			"material_temperature, motor_rpm and time_stamp.",
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

	raw, err := t.client.MachineData(ctx, filter)
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
