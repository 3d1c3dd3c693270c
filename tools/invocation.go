package tools

import (
	"context"

	"github.com/google/uuid"
)

// Invocation carries per-call metadata through the context,
// so loggers and callbacks can correlate events of a single tool call.
type Invocation struct {
	// ID is unique per dispatched call.
	ID string
	// Tool is the name of the tool being invoked.
	Tool string
}

type contextKey int

const keyInvocation contextKey = iota

// WithInvocation returns a new context with the Invocation value.
func WithInvocation(ctx context.Context, inv *Invocation) context.Context {
	return context.WithValue(ctx, keyInvocation, inv)
}

// GetInvocation retrieves the Invocation from the context, or nil.
func GetInvocation(ctx context.Context) *Invocation {
	if v, ok := ctx.Value(keyInvocation).(*Invocation); ok {
		return v
	}
	return nil
}

// NewInvocationID generates a new invocation ID.
func NewInvocationID() string {
	return uuid.NewString()
}
