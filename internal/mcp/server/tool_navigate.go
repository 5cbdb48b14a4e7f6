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

type NavigateInput struct {
	DatasetRoot     string `json:"dataset_root,omitempty"`
	PathCategory    string `json:"path_category"`
	Target          string `json:"target,omitempty"`
	PipelineName    string `json:"pipeline_name,omitempty"`
	PipelineVersion string `json:"pipeline_version,omitempty"`
}

type NavigateOutput struct {
	DatasetRoot  string               `json:"dataset_root"`
	PathCategory string               `json:"path_category"`
	Path         string               `json:"path,omitempty"`
	Exists       bool                 `json:"exists"`
	Target       string               `json:"target,omitempty"`
	Pipeline     *dataset.PipelineRef `json:"pipeline,omitempty"`
	ErrorInfo
}

func RegisterNavigateTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[NavigateInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create navigate-dataset input schema: %w", err)
	}

	res, err := jsonschema.For[NavigateOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create navigate-dataset output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "navigate-dataset",
		Description: `
			Resolve a named dataset location to an absolute path.

			path_category must be one of: dataset_root, config, directory,
			pipeline_output, pipeline_work, pipeline_idp, bids_db.
			- directory requires target, one of: bids, derivatives, sourcedata,
			  tabular, scratch, tmp, logs
			- the pipeline_* and bids_db categories require pipeline_name;
			  pipeline_version defaults to the latest installed version
			- pipeline_work and bids_db require target as a participant ID
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req NavigateInput) (*mcp.CallToolResult, NavigateOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling navigate-dataset", "category", req.PathCategory, "target", req.Target)
		out := handleNavigate(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("navigate-dataset", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleNavigate(root string, req NavigateInput) NavigateOutput {
	out := NavigateOutput{
		DatasetRoot:  root,
		PathCategory: req.PathCategory,
	}
	info, err := dataset.Navigate(root, req.PathCategory, req.Target, req.PipelineName, req.PipelineVersion)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	out.Path = info.Path
	out.Exists = info.Exists
	out.Target = info.Target
	out.Pipeline = info.Pipeline
	return out
}
