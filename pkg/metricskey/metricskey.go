// Package metricskey describes the metrics emitted by this repo.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsBackendQueries = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_backend_queries",
		Help:         "stats_backend_queries provides total queries sent to the data backend",
		RequiredTags: []string{"endpoint"},
	}

	StatsBackendQueryFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_backend_query_failed",
		Help:         "stats_backend_query_failed provides total failed queries to the data backend",
		RequiredTags: []string{"endpoint"},
	}

	StatsDocSearches = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_doc_searches",
		Help:         "stats_doc_searches provides total documentation index searches",
		RequiredTags: []string{"index"},
	}

	StatsChartsRendered = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_charts_rendered",
		Help:         "stats_charts_rendered provides total charts rendered",
		RequiredTags: []string{"table"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfBackendQuery = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_backend_query",
		Help:         "perf_backend_query provides duration of backend query",
		RequiredTags: []string{"endpoint"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfBackendQuery,
	&PerfToolCall,
	&StatsBackendQueries,
	&StatsBackendQueryFailed,
	&StatsChartsRendered,
	&StatsDocSearches,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
