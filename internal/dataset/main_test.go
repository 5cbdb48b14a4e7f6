package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestDataset lays out a small but complete Nipoppy dataset in a temp
// directory: two participants with two sessions each, a curation status
// table, a processing status table, and two installed pipelines.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, GlobalConfigFile), `{
		"DATASET_NAME": "demo",
		"VISIT_IDS": ["BL", "FU"]
	}`)

	writeFile(t, filepath.Join(root, ManifestTSVFile),
		"participant_id\tvisit_id\tsession_id\tdatatype\n"+
			"sub-001\tBL\tses-01\t['anat']\n"+
			"sub-001\tFU\tses-02\t['anat', 'dwi']\n"+
			"sub-002\tBL\tses-01\t[]\n"+
			"sub-002\tFU\tses-02\t['anat']\n")

	writeFile(t, filepath.Join(root, filepath.FromSlash(CurationStatusFile)),
		"participant_id\tsession_id\tin_pre_reorg\tin_post_reorg\tin_bids\n"+
			"sub-001\tses-01\tTrue\tTrue\tTrue\n"+
			"sub-001\tses-02\tTrue\tTrue\tFalse\n"+
			"sub-002\tses-01\tTrue\tFalse\tFalse\n"+
			"sub-002\tses-02\tFalse\tFalse\tFalse\n")

	writeFile(t, filepath.Join(root, filepath.FromSlash(ProcessingStatusFile)),
		"participant_id\tsession_id\tpipeline_name\tpipeline_version\tpipeline_step\tstatus\n"+
			"sub-001\tses-01\tfmriprep\t20.2.7\tprepare\tSUCCESS\n"+
			"sub-001\tses-02\tfmriprep\t20.2.7\tprepare\tFAIL\n"+
			"sub-002\tses-01\tfmriprep\t20.2.7\tprepare\tSUCCESS\n"+
			"sub-002\tses-01\tfmriprep\t20.2.7\trun\tSUCCESS\n")

	writeFile(t, filepath.Join(root, PipelinesDirName, "processing", "fmriprep-20.2.7", "config.json"), `{
		"NAME": "fmriprep",
		"VERSION": "20.2.7",
		"STEPS": [{"NAME": "prepare"}, {"NAME": "run"}]
	}`)
	writeFile(t, filepath.Join(root, PipelinesDirName, "bidsification", "heudiconv-0.12.2", "config.json"), `{
		"NAME": "heudiconv",
		"VERSION": "0.12.2"
	}`)

	for _, dir := range StandardDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// installPipeline adds an empty-config pipeline bundle to the catalog.
func installPipeline(t *testing.T, root string, typ PipelineType, name, version string) {
	t.Helper()
	writeFile(t, PipelineConfigPath(root, typ, name, version), `{"STEPS": [{"NAME": "run"}]}`)
}
