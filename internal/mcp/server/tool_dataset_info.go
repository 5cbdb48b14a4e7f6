package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neurodatascience/nipoppy-mcp/internal/dataset"
)

type DatasetInfoInput struct {
	DatasetRoot      string `json:"dataset_root,omitempty"`
	IncludePipelines *bool  `json:"include_pipelines,omitempty"`
	IncludeStatus    *bool  `json:"include_status,omitempty"`
}

type DatasetInfoOutput struct {
	dataset.Info
	ErrorInfo
}

func RegisterDatasetInfoTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[DatasetInfoInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get-dataset-info input schema: %w", err)
	}

	res, err := jsonschema.For[DatasetInfoOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get-dataset-info output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get-dataset-info",
		Description: `
			Get a best-effort overview of the dataset: name and configuration
			identity, manifest participant/session counts, installed pipelines
			with steps and completion counts, and per-stage summaries.
			include_pipelines and include_status default to true. A failing
			section is reported inline and does not fail the overview.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req DatasetInfoInput) (*mcp.CallToolResult, DatasetInfoOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling get-dataset-info")
		out := handleDatasetInfo(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("get-dataset-info", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleDatasetInfo(root string, req DatasetInfoInput) DatasetInfoOutput {
	includePipelines := req.IncludePipelines == nil || *req.IncludePipelines
	includeStatus := req.IncludeStatus == nil || *req.IncludeStatus
	return DatasetInfoOutput{
		Info: dataset.DatasetInfo(root, includePipelines, includeStatus),
	}
}
