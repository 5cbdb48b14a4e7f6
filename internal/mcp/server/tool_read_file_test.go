package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurodatascience/nipoppy-mcp/internal/dataset"
)

func TestMCP_Server_ToolReadFile(t *testing.T) {
	t.Parallel()

	t.Run("json file is returned parsed", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleReadFile(root, ReadFileInput{FilePath: "global_config.json"})
		require.Empty(t, out.Error)
		require.Equal(t, "json", out.Type)
		require.Equal(t, filepath.Join(root, "global_config.json"), out.FullPath)
		require.Equal(t, "demo", out.ContentJSON["DATASET_NAME"])
		require.Empty(t, out.Content)
	})

	t.Run("text file is returned verbatim", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleReadFile(root, ReadFileInput{FilePath: "manifest.tsv"})
		require.Empty(t, out.Error)
		require.Equal(t, "text", out.Type)
		require.Contains(t, out.Content, "sub-001\tBL\tses-01")
		require.Nil(t, out.ContentJSON)
	})

	t.Run("traversal outside the root is rejected", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleReadFile(root, ReadFileInput{FilePath: "../../etc/passwd"})
		require.Equal(t, string(dataset.KindPathTraversal), out.ErrorKind)
		require.Empty(t, out.FullPath)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleReadFile(root, ReadFileInput{FilePath: "no_such_file.json"})
		require.Equal(t, string(dataset.KindNotFound), out.ErrorKind)
	})
}
