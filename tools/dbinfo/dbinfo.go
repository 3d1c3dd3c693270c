// Package dbinfo provides the tool describing the database schema available to
// the other tools, so the agent can ground its filter construction.
package dbinfo

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/effective-security/factoryagent/tools"
)

const ToolName = "GetDatabaseInfo"

// InfoRequest represents the tool input. The tool takes no parameters.
type InfoRequest struct{}

// InfoResult carries the configured database description.
type InfoResult struct {
	Description string `json:"description"`
}

func (r *InfoResult) String() string {
	return r.Description
}

// Tool returns a fixed, human-readable description of the database structure.
type Tool struct {
	name        string
	description string
	funcParams  any

	dbDescription string
}

var _ tools.Tool[InfoRequest, InfoResult] = (*Tool)(nil)

// New creates the database-info tool around the configured description.
func New(dbDescription string) (*Tool, error) {
	if dbDescription == "" {
		return nil, errors.New("database description is not configured")
	}
	sc, err := schema.New(reflect.TypeOf(InfoRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Tool{
		name: ToolName,
		description: "Retrieves information about the database that can be accessed. " +
			"Returns a text describing the database's structure. " +
			"Use it before constructing filtered telemetry queries. Takes no parameters.",
		funcParams:    sc.Parameters,
		dbDescription: dbDescription,
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

// Run always returns the configured description, independent of the request.
func (t *Tool) Run(_ context.Context, _ *InfoRequest) (*InfoResult, error) {
	return &InfoResult{Description: t.dbDescription}, nil
}

// Call ignores the input entirely, the result does not depend on arguments.
func (t *Tool) Call(ctx context.Context, _ string) (string, error) {
	res, err := t.Run(ctx, &InfoRequest{})
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
