package backend

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// TimestampLayout is the wire format of all backend timestamps, in UTC.
const TimestampLayout = "2006-01-02 15:04:05"

// Default value ranges of the telemetry columns, matching the physically
// plausible range of each sensor. Omitted tool parameters and full-table
// fetches resolve to these.
const (
	DefaultMinTemperature  = 0
	DefaultMaxTemperature  = 200
	DefaultMinPressure     = 0
	DefaultMaxPressure     = 1000
	DefaultMinRPM          = 0
	DefaultMaxRPM          = 3000
	DefaultMinAmbientValue = 0
	DefaultMaxAmbientValue = 100
)

// Range is an inclusive numeric range for one telemetry column.
type Range struct {
	Min int
	Max int
}

// Validate checks the range for logical consistency before it is forwarded.
func (r Range) Validate(column string) error {
	if r.Min > r.Max {
		return errors.Errorf("invalid range for %s: min %d is greater than max %d", column, r.Min, r.Max)
	}
	return nil
}

// TimeRange is an optional UTC time window. Empty bounds mean no filtering.
type TimeRange struct {
	From string
	To   string
}

// Validate checks the timestamp format and ordering.
// Timestamps are forwarded unmodified, no timezone conversion is applied.
func (t TimeRange) Validate() error {
	var from, to time.Time
	var err error
	if t.From != "" {
		from, err = time.Parse(TimestampLayout, t.From)
		if err != nil {
			return errors.Errorf("invalid from_timestamp %q: expected UTC format %s", t.From, TimestampLayout)
		}
	}
	if t.To != "" {
		to, err = time.Parse(TimestampLayout, t.To)
		if err != nil {
			return errors.Errorf("invalid to_timestamp %q: expected UTC format %s", t.To, TimestampLayout)
		}
	}
	if t.From != "" && t.To != "" && from.After(to) {
		return errors.Errorf("invalid time range: from_timestamp %q is after to_timestamp %q", t.From, t.To)
	}
	return nil
}

func (t TimeRange) setValues(vals url.Values) {
	// absent bounds are omitted, matching the backend's "no time filter" semantics
	if t.From != "" {
		vals.Set("from_ts", t.From)
	}
	if t.To != "" {
		vals.Set("to_ts", t.To)
	}
}

func setRange(vals url.Values, minKey, maxKey string, r Range) {
	vals.Set(minKey, strconv.Itoa(r.Min))
	vals.Set(maxKey, strconv.Itoa(r.Max))
}

// MachineFilter is the query filter of the machine telemetry endpoint.
// Field names map one-to-one onto the backend's wire parameters.
type MachineFilter struct {
	Time                TimeRange
	CombOpTmp1          Range
	CombOpTmp2          Range
	CombOpTmp3          Range
	MaterialPressure    Range
	MaterialTemperature Range
	MotorRPM            Range
}

// Validate checks all ranges and the time window.
func (f *MachineFilter) Validate() error {
	if err := f.Time.Validate(); err != nil {
		return err
	}
	checks := []struct {
		column string
		r      Range
	}{
		{"comb_op_tmp_1", f.CombOpTmp1},
		{"comb_op_tmp_2", f.CombOpTmp2},
		{"comb_op_tmp_3", f.CombOpTmp3},
		{"material_pressure", f.MaterialPressure},
		{"material_temperature", f.MaterialTemperature},
		{"motor_rpm", f.MotorRPM},
	}
	for _, c := range checks {
		if err := c.r.Validate(c.column); err != nil {
			return err
		}
	}
	return nil
}

// Values encodes the filter with the exact wire parameter names.
func (f *MachineFilter) Values() url.Values {
	vals := url.Values{}
	f.Time.setValues(vals)
	setRange(vals, "min_comb_op_tmp_1", "max_comb_op_tmp_1", f.CombOpTmp1)
	setRange(vals, "min_comb_op_tmp_2", "max_comb_op_tmp_2", f.CombOpTmp2)
	setRange(vals, "min_comb_op_tmp_3", "max_comb_op_tmp_3", f.CombOpTmp3)
	setRange(vals, "min_material_pressure", "max_material_pressure", f.MaterialPressure)
	setRange(vals, "min_material_temperature", "max_material_temperature", f.MaterialTemperature)
	setRange(vals, "min_motor_rpm", "max_motor_rpm", f.MotorRPM)
	return vals
}

// DefaultMachineFilter selects the full machine table, no time bounds and the
// default value ranges.
func DefaultMachineFilter() *MachineFilter {
	return &MachineFilter{
		CombOpTmp1:          Range{Min: DefaultMinTemperature, Max: DefaultMaxTemperature},
		CombOpTmp2:          Range{Min: DefaultMinTemperature, Max: DefaultMaxTemperature},
		CombOpTmp3:          Range{Min: DefaultMinTemperature, Max: DefaultMaxTemperature},
		MaterialPressure:    Range{Min: DefaultMinPressure, Max: DefaultMaxPressure},
		MaterialTemperature: Range{Min: DefaultMinTemperature, Max: DefaultMaxTemperature},
		MotorRPM:            Range{Min: DefaultMinRPM, Max: DefaultMaxRPM},
	}
}

// AmbientFilter is the query filter of the ambient telemetry endpoint.
type AmbientFilter struct {
	Time             TimeRange
	Humidity         Range
	AmbTemperature   Range
	Zone1Temperature Range
}

// Validate checks all ranges and the time window.
func (f *AmbientFilter) Validate() error {
	if err := f.Time.Validate(); err != nil {
		return err
	}
	checks := []struct {
		column string
		r      Range
	}{
		{"humidity", f.Humidity},
		{"amb_temperature", f.AmbTemperature},
		{"zone_1_temperature", f.Zone1Temperature},
	}
	for _, c := range checks {
		if err := c.r.Validate(c.column); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAmbientFilter selects the full ambient table, no time bounds and the
// default value ranges.
func DefaultAmbientFilter() *AmbientFilter {
	return &AmbientFilter{
		Humidity:         Range{Min: DefaultMinAmbientValue, Max: DefaultMaxAmbientValue},
		AmbTemperature:   Range{Min: DefaultMinAmbientValue, Max: DefaultMaxAmbientValue},
		Zone1Temperature: Range{Min: DefaultMinAmbientValue, Max: DefaultMaxAmbientValue},
	}
}

// Values encodes the filter with the exact wire parameter names.
func (f *AmbientFilter) Values() url.Values {
	vals := url.Values{}
	f.Time.setValues(vals)
	setRange(vals, "min_value_humidity", "max_value_humidity", f.Humidity)
	setRange(vals, "min_value_amb_temperature", "max_value_amb_temperature", f.AmbTemperature)
	setRange(vals, "min_value_zone_1_temperature", "max_value_zone_1_temperature", f.Zone1Temperature)
	return vals
}
