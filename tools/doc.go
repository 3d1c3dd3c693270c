// Package tools defines the Tool contract exposed to LLM agents: every capability of the
// factory-monitoring backend is published as a named, described, schema-typed callable.
// The package also provides the Registry that validates tool declarations at startup and
// dispatches agent invocations with callbacks and metrics.
package tools
