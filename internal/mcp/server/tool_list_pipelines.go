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

type ListPipelinesInput struct {
	DatasetRoot string `json:"dataset_root,omitempty"`
}

type PipelineListing struct {
	dataset.PipelineInfo
	Steps      []string `json:"steps,omitempty"`
	StepsError string   `json:"steps_error,omitempty"`
}

type ListPipelinesOutput struct {
	DatasetRoot string            `json:"dataset_root"`
	Pipelines   []PipelineListing `json:"pipelines,omitempty"`
	Count       int               `json:"count"`
	ErrorInfo
}

func RegisterListPipelinesTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[ListPipelinesInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create list-pipelines input schema: %w", err)
	}

	res, err := jsonschema.For[ListPipelinesOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create list-pipelines output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "list-pipelines",
		Description: `
			List the pipeline bundles installed in the dataset, with their
			type (bidsification, processing, extraction), version, and
			declared step names.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req ListPipelinesInput) (*mcp.CallToolResult, ListPipelinesOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling list-pipelines")
		out := handleListPipelines(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("list-pipelines", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleListPipelines(root string, _ ListPipelinesInput) ListPipelinesOutput {
	out := ListPipelinesOutput{DatasetRoot: root}
	pipelines, err := dataset.ListPipelines(root)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	listings := make([]PipelineListing, 0, len(pipelines))
	for _, p := range pipelines {
		listing := PipelineListing{PipelineInfo: p}
		steps, err := dataset.PipelineSteps(root, p.Type, p.Name, p.Version)
		if err != nil {
			listing.StepsError = err.Error()
		} else {
			listing.Steps = steps
		}
		listings = append(listings, listing)
	}
	out.Pipelines = listings
	out.Count = len(listings)
	return out
}
