package server

import (
	"github.com/neurodatascience/nipoppy-mcp/internal/dataset"
)

// ErrorInfo is embedded in every tool output. Failures are returned as
// data with the context fields gathered before the failure; the MCP call
// itself succeeds so the agent-facing transport stays available.
type ErrorInfo struct {
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func errorInfo(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}
	return ErrorInfo{
		Error:     err.Error(),
		ErrorKind: string(dataset.KindOf(err)),
	}
}

// resolveRoot picks the dataset root for one call: the caller-supplied
// value wins, otherwise the configured default.
func resolveRoot(defaultRoot, arg string) string {
	if arg != "" {
		return arg
	}
	return defaultRoot
}
