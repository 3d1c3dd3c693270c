// Package callbacks provides ready-made tool lifecycle callbacks:
// a no-op, a writer printer for interactive runs, a package logger
// and a fan-out combining several callbacks.
package callbacks

import (
	"context"
	"fmt"
	"io"

	"github.com/effective-security/factoryagent/tools"
	"github.com/effective-security/xlog"
)

// Noop discards all events.
type Noop struct{}

var _ tools.Callback = Noop{}

func (Noop) OnToolStart(context.Context, tools.ITool, string)        {}
func (Noop) OnToolEnd(context.Context, tools.ITool, string, string)  {}
func (Noop) OnToolError(context.Context, tools.ITool, string, error) {}

// Printer writes events to a writer, intended for interactive runs.
type Printer struct {
	W io.Writer
}

var _ tools.Callback = Printer{}

func (p Printer) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	fmt.Fprintf(p.W, "> %s(%s)\n", tool.Name(), input)
}

func (p Printer) OnToolEnd(_ context.Context, tool tools.ITool, _ string, output string) {
	fmt.Fprintf(p.W, "< %s: %s\n", tool.Name(), output)
}

func (p Printer) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	fmt.Fprintf(p.W, "! %s: %s\n", tool.Name(), err.Error())
}

// Logger emits events on the given package logger.
type Logger struct {
	L *xlog.PackageLogger
}

var _ tools.Callback = Logger{}

func (l Logger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.L.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"input", input,
	)
}

func (l Logger) OnToolEnd(ctx context.Context, tool tools.ITool, _ string, output string) {
	l.L.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"output_len", len(output),
	)
}

func (l Logger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.L.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"input", input,
		"err", err.Error(),
	)
}

// Fanout relays every event to each callback in order.
type Fanout []tools.Callback

var _ tools.Callback = Fanout{}

func (f Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, cb := range f {
		cb.OnToolStart(ctx, tool, input)
	}
}

func (f Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	for _, cb := range f {
		cb.OnToolEnd(ctx, tool, input, output)
	}
}

func (f Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, cb := range f {
		cb.OnToolError(ctx, tool, input, err)
	}
}
