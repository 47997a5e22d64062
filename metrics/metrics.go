package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "databricks_mcp_build_info",
			Help: "Build information of the Databricks MCP server",
		},
		[]string{"version", "commit", "date"},
	)

	MCPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databricks_mcp_requests_total",
			Help: "MCP requests handled, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databricks_mcp_tool_calls_total",
			Help: "MCP tool calls, by tool name",
		},
		[]string{"tool"},
	)

	WarehouseStatements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databricks_mcp_warehouse_statements_total",
			Help: "Statements sent to the SQL warehouse, by outcome",
		},
		[]string{"outcome"},
	)

	WarehouseStatementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "databricks_mcp_warehouse_statement_duration_seconds",
			Help:    "Time spent connecting to the warehouse and executing one statement",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	PromptCatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databricks_mcp_prompt_catalog_reloads_total",
			Help: "Prompt catalog reloads, by trigger and status",
		},
		[]string{"trigger", "status"},
	)
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Outcome maps an error to the outcome label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
