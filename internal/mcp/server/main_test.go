package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// writeTestDataset lays out a minimal Nipoppy dataset for handler tests.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "global_config.json"), `{"DATASET_NAME": "demo"}`)

	writeFile(t, filepath.Join(root, "manifest.tsv"),
		"participant_id\tvisit_id\tsession_id\tdatatype\n"+
			"sub-001\tBL\tses-01\t['anat']\n"+
			"sub-001\tFU\tses-02\t['anat']\n"+
			"sub-002\tBL\tses-01\t['anat']\n"+
			"sub-002\tFU\tses-02\t['anat']\n")

	writeFile(t, filepath.Join(root, "sourcedata", "imaging", "curation_status.tsv"),
		"participant_id\tsession_id\tin_pre_reorg\tin_post_reorg\tin_bids\n"+
			"sub-001\tses-01\tTrue\tTrue\tTrue\n"+
			"sub-002\tses-01\tTrue\tFalse\tFalse\n")

	writeFile(t, filepath.Join(root, "derivatives", "processing_status.tsv"),
		"participant_id\tsession_id\tpipeline_name\tpipeline_version\tpipeline_step\tstatus\n"+
			"sub-001\tses-01\tfmriprep\t20.2.7\tprepare\tSUCCESS\n")

	writeFile(t, filepath.Join(root, "pipelines", "processing", "fmriprep-20.2.7", "config.json"),
		`{"NAME": "fmriprep", "STEPS": [{"NAME": "prepare"}, {"NAME": "run"}]}`)

	for _, dir := range []string{"bids", "derivatives", "sourcedata", "tabular", "scratch", "tmp", "logs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
