package server

import (
	"time"

	"github.com/neurodatascience/nipoppy-mcp/internal/mcp/server/metrics"
)

// recordToolCall updates the per-tool metrics. Tool handlers fold dataset
// failures into their output, so "error" here means the handler produced
// an error-as-data response rather than a transport failure.
func recordToolCall(name string, start time.Time, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	metrics.ToolCallsTotal.WithLabelValues(name, status).Inc()
	metrics.ToolCallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
