// Package faultlog provides the tool retrieving error messages of machine 1.
// The backend log endpoint accepts no filters, so neither does the tool.
package faultlog

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/backend"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/effective-security/factoryagent/tools"
)

const ToolName = "GetLogs"

// LogsRequest represents the tool input. The tool takes no parameters.
type LogsRequest struct{}

// LogsResult carries the backend response verbatim.
type LogsResult struct {
	Records string `json:"records"`
}

func (r *LogsResult) String() string {
	return r.Records
}

// Tool queries the error log endpoint.
type Tool struct {
	name        string
	description string
	funcParams  any

	client *backend.Client
}

var _ tools.Tool[LogsRequest, LogsResult] = (*Tool)(nil)

// New creates the log query tool.
func New(client *backend.Client) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(LogsRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Tool{
		name: ToolName,
		description: "Retrieves error messages for machine 1. " +
			"Returns a JSON list with one object per log entry, containing the keys id, message and time_stamp. " +
			"All timestamps are in UTC. Takes no parameters.",
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

// Run returns the backend response verbatim.
func (t *Tool) Run(ctx context.Context, _ *LogsRequest) (*LogsResult, error) {
	raw, err := t.client.Logs(ctx)
	if err != nil {
		return nil, err
	}
	return &LogsResult{Records: raw}, nil
}

// Call ignores the input entirely, the endpoint accepts no filters.
func (t *Tool) Call(ctx context.Context, _ string) (string, error) {
	res, err := t.Run(ctx, &LogsRequest{})
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
