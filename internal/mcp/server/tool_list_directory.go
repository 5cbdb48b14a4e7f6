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

type ListDirectoryInput struct {
	DatasetRoot  string `json:"dataset_root,omitempty"`
	Subdirectory string `json:"subdirectory,omitempty"`
}

type ListDirectoryOutput struct {
	DatasetRoot  string             `json:"dataset_root"`
	Subdirectory string             `json:"subdirectory,omitempty"`
	Items        []dataset.DirEntry `json:"items,omitempty"`
	Count        int                `json:"count"`
	ErrorInfo
}

func RegisterListDirectoryTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[ListDirectoryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create list-dataset-directory input schema: %w", err)
	}

	res, err := jsonschema.For[ListDirectoryOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create list-dataset-directory output schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "list-dataset-directory",
		Description: `
			List the entries of a subdirectory relative to the dataset root
			(the root itself when subdirectory is omitted). Entries are sorted
			by kind, then name. Paths resolving outside the dataset root are
			rejected.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req ListDirectoryInput) (*mcp.CallToolResult, ListDirectoryOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling list-dataset-directory", "subdirectory", req.Subdirectory)
		out := handleListDirectory(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("list-dataset-directory", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func handleListDirectory(root string, req ListDirectoryInput) ListDirectoryOutput {
	out := ListDirectoryOutput{
		DatasetRoot:  root,
		Subdirectory: req.Subdirectory,
	}
	items, err := dataset.ListDirectory(root, req.Subdirectory)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	out.Items = items
	out.Count = len(items)
	return out
}
