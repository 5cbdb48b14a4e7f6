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

type ParticipantsSessionsInput struct {
	DatasetRoot     string `json:"dataset_root,omitempty"`
	DataStage       string `json:"data_stage"`
	PipelineName    string `json:"pipeline_name,omitempty"`
	PipelineVersion string `json:"pipeline_version,omitempty"`
	PipelineStep    string `json:"pipeline_step,omitempty"`
}

type ParticipantsSessionsOutput struct {
	DatasetRoot          string               `json:"dataset_root"`
	DataStage            string               `json:"data_stage"`
	ParticipantsSessions []dataset.Pair       `json:"participants_sessions,omitempty"`
	Count                int                  `json:"count"`
	Pipeline             *dataset.PipelineRef `json:"pipeline,omitempty"`
	ErrorInfo
}

func RegisterParticipantsSessionsTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[ParticipantsSessionsInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get-participants-sessions input schema: %w", err)
	}

	res, err := jsonschema.For[ParticipantsSessionsOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get-participants-sessions output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get-participants-sessions",
		Description: `
			List the participant/session pairs present at a given data stage.

			data_stage must be one of: all, imaging, downloaded, organized, bidsified, processed.
			- all/imaging consult the dataset manifest
			- downloaded/organized/bidsified consult the curation status table
			- processed consults the processing status table and requires pipeline_name;
			  pipeline_version defaults to the latest installed version and pipeline_step
			  to the pipeline's first declared step

			Results are de-duplicated and sorted ascending by participant, then session.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req ParticipantsSessionsInput) (*mcp.CallToolResult, ParticipantsSessionsOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling get-participants-sessions", "stage", req.DataStage, "pipeline", req.PipelineName)
		out := handleParticipantsSessions(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("get-participants-sessions", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleParticipantsSessions(root string, req ParticipantsSessionsInput) ParticipantsSessionsOutput {
	out := ParticipantsSessionsOutput{
		DatasetRoot: root,
		DataStage:   req.DataStage,
	}
	result, err := dataset.ParticipantsSessions(root, req.DataStage, req.PipelineName, req.PipelineVersion, req.PipelineStep)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	out.ParticipantsSessions = result.Pairs
	out.Count = len(result.Pairs)
	out.Pipeline = result.Pipeline
	return out
}
