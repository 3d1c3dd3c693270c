package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/llmutils"
)

// ErrFailedUnmarshalInput is returned when the tool input does not match the
// published parameter schema. The text is agent-facing and must stay actionable.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// ITool is a tool for the llm agent to interact with the factory monitoring backend.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// It is the only signal the agent uses to select the tool,
	// so it must state purpose, parameter semantics and return shape.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

// Tool is a typed tool with a structured request and response.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Callback receives tool lifecycle events.
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns the tool catalogue as a JSON block for agent prompts.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
