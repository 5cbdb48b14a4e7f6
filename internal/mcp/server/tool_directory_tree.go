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

const defaultTreeDepth = 2

type DirectoryTreeInput struct {
	DatasetRoot string `json:"dataset_root,omitempty"`
	MaxDepth    *int   `json:"max_depth,omitempty"`
}

type DirectoryTreeOutput struct {
	DatasetRoot string            `json:"dataset_root"`
	MaxDepth    int               `json:"max_depth"`
	Structure   *dataset.TreeNode `json:"structure,omitempty"`
	ErrorInfo
}

func RegisterDirectoryTreeTool(log *slog.Logger, server *mcp.Server, defaultRoot string) error {
	req, err := jsonschema.For[DirectoryTreeInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get-directory-structure input schema: %w", err)
	}

	// The output schema is written by hand: TreeNode is self-referential
	// through Children, which jsonschema.For rejects as a cycle. The node
	// schema lives in $defs and refers to itself.
	res := directoryTreeOutputSchema()

	tool := &mcp.Tool{
		Name: "get-directory-structure",
		Description: `
			Get the dataset's directory tree down to max_depth levels
			(default 2; the root sits at depth 0). Hidden entries and
			version-control or dependency-cache directories are skipped;
			branches at the depth limit are marked truncated.
		`,
		InputSchema:  req,
		OutputSchema: res,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, req DirectoryTreeInput) (*mcp.CallToolResult, DirectoryTreeOutput, error) {
		start := time.Now()
		log.Debug("mcp/tool: handling get-directory-structure")
		out := handleDirectoryTree(resolveRoot(defaultRoot, req.DatasetRoot), req)
		recordToolCall("get-directory-structure", start, out.Error != "")
		return nil, out, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

func directoryTreeOutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"dataset_root": {Type: "string"},
			"max_depth":    {Type: "integer"},
			"structure":    {Ref: "#/$defs/treeNode"},
			"error":        {Type: "string"},
			"error_kind":   {Type: "string"},
		},
		Required: []string{"dataset_root", "max_depth"},
		Defs: map[string]*jsonschema.Schema{
			"treeNode": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name":      {Type: "string"},
					"type":      {Type: "string"},
					"children":  {Type: "array", Items: &jsonschema.Schema{Ref: "#/$defs/treeNode"}},
					"count":     {Type: "integer"},
					"truncated": {Type: "boolean"},
					"error":     {Type: "string"},
				},
				Required: []string{"name", "type"},
			},
		},
	}
}

func handleDirectoryTree(root string, req DirectoryTreeInput) DirectoryTreeOutput {
	maxDepth := defaultTreeDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}
	out := DirectoryTreeOutput{
		DatasetRoot: root,
		MaxDepth:    maxDepth,
	}
	structure, err := dataset.Tree(root, maxDepth)
	if err != nil {
		out.ErrorInfo = errorInfo(err)
		return out
	}
	out.Structure = structure
	return out
}
