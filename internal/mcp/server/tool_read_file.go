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

type ReadFileInput struct {
	DatasetRoot string `json:"dataset_root,omitempty"`
	FilePath    string `json:"file_path"`
}

type ReadFileOutput struct {
	DatasetRoot string         `json:"dataset_root"`
	FilePath    string         `json:"file_path"`
	FullPath    string         `json:"full_path,omitempty"`
	Type        string         `json:"type,omitempty"`
	Content     string         `json:"content,omitempty"`
	ContentJSON map[string]any `json:"content_json,omitempty"`
	ErrorInfo
}

func RegisterReadFileTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[ReadFileInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create read-dataset-file input schema: %w", err)
	}

	res, err := jsonschema.For[ReadFileOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create read-dataset-file output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "read-dataset-file",
		Description: `
			Read a file at a path relative to the dataset root, e.g.
			"global_config.json" or "pipelines/processing/fmriprep-20.2.7/config.json".
			JSON files are returned parsed in content_json; everything else is
			returned verbatim in content. Paths resolving outside the dataset
			root are rejected.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req ReadFileInput) (*mcp.CallToolResult, ReadFileOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling read-dataset-file", "path", req.FilePath)
		out := handleReadFile(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("read-dataset-file", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleReadFile(root string, req ReadFileInput) ReadFileOutput {
	out := ReadFileOutput{
		DatasetRoot: root,
		FilePath:    req.FilePath,
	}
	content, err := dataset.ReadFileEntry(root, req.FilePath)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	out.FullPath = content.Path
	out.Type = string(content.Format)
	out.Content = content.Text
	out.ContentJSON = content.JSON
	return out
}
