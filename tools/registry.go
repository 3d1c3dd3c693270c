package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "tools")

// Registry is the startup-time set of tool declarations.
// Registration validates the declaration contract once,
// the set is immutable after construction.
type Registry struct {
	tools    map[string]ITool
	ordered  []ITool
	callback Callback
}

// NewRegistry creates a Registry from the given tools.
// It fails when a declaration is unusable by an agent:
// empty name, empty description, duplicate name, or a missing parameter schema.
func NewRegistry(list ...ITool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]ITool, len(list)),
	}
	for _, tool := range list {
		if err := r.register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(tool ITool) error {
	name := tool.Name()
	if name == "" {
		return errors.New("tool declares an empty name")
	}
	if tool.Description() == "" {
		return errors.Errorf("tool %q declares an empty description", name)
	}
	if tool.Parameters() == nil {
		return errors.Errorf("tool %q declares no parameter schema", name)
	}
	if _, ok := r.tools[name]; ok {
		return errors.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = tool
	r.ordered = append(r.ordered, tool)
	return nil
}

// WithCallback sets the callback receiving lifecycle events for dispatched calls.
func (r *Registry) WithCallback(cb Callback) *Registry {
	r.callback = cb
	return r
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (ITool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []ITool {
	return r.ordered
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions returns the tool catalogue for agent prompts.
func (r *Registry) Descriptions() string {
	return GetDescriptions(r.ordered...)
}

// Call dispatches an invocation to the named tool.
func (r *Registry) Call(ctx context.Context, name, input string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING, "reason", "tool_not_found", "tool", name)
		return "", errors.Errorf("tool %q is not registered, use one of: %v", name, r.Names())
	}

	ctx = WithInvocation(ctx, &Invocation{
		ID:   NewInvocationID(),
		Tool: name,
	})

	if r.callback != nil {
		r.callback.OnToolStart(ctx, tool, input)
	}

	started := time.Now()
	out, err := tool.Call(ctx, input)
	metricskey.PerfToolCall.MeasureSince(started, name)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		if r.callback != nil {
			r.callback.OnToolError(ctx, tool, input, err)
		}
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, tool, input, out)
	}
	return out, nil
}

// CallAsResult dispatches an invocation and folds a failure into the string channel,
// as agent runtimes only ever receive strings from a tool.
// The error form is stable so the agent can recognize and relay it.
func (r *Registry) CallAsResult(ctx context.Context, name, input string) string {
	out, err := r.Call(ctx, name, input)
	if err != nil {
		return fmt.Sprintf("ERROR: %s", err.Error())
	}
	return out
}
