package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataset_ParticipantsSessions(t *testing.T) {
	t.Parallel()

	t.Run("all stage returns every manifest pair sorted", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		result, err := ParticipantsSessions(root, "all", "", "", "")
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
			{ParticipantID: "sub-001", SessionID: "ses-02"},
			{ParticipantID: "sub-002", SessionID: "ses-01"},
			{ParticipantID: "sub-002", SessionID: "ses-02"},
		}, result.Pairs)
		require.Nil(t, result.Pipeline)
	})

	t.Run("repeated calls yield identical output", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		first, err := ParticipantsSessions(root, "all", "", "", "")
		require.NoError(t, err)
		second, err := ParticipantsSessions(root, "all", "", "", "")
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("imaging stage consults the manifest datatype column", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		result, err := ParticipantsSessions(root, "imaging", "", "", "")
		require.NoError(t, err)
		require.Len(t, result.Pairs, 3)
	})

	t.Run("curation stages consult the curation table", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		for stage, want := range map[string]int{"downloaded": 3, "organized": 2, "bidsified": 1} {
			result, err := ParticipantsSessions(root, stage, "", "", "")
			require.NoError(t, err)
			require.Len(t, result.Pairs, want, "stage %s", stage)
		}
	})

	t.Run("invalid stage", func(t *testing.T) {
		t.Parallel()
		_, err := ParticipantsSessions(writeTestDataset(t), "uploaded", "", "", "")
		require.Error(t, err)
		require.Equal(t, KindInvalidStage, KindOf(err))
	})

	t.Run("processed stage requires a pipeline name", func(t *testing.T) {
		t.Parallel()
		_, err := ParticipantsSessions(writeTestDataset(t), "processed", "", "", "")
		require.Error(t, err)
		require.Equal(t, KindMissingParameter, KindOf(err))
	})

	t.Run("processed stage defaults version and step", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		result, err := ParticipantsSessions(root, "processed", "fmriprep", "", "")
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
			{ParticipantID: "sub-002", SessionID: "ses-01"},
		}, result.Pairs)
		require.NotNil(t, result.Pipeline)
		require.Equal(t, PipelineTypeProcessing, result.Pipeline.Type)
		require.Equal(t, "20.2.7", result.Pipeline.Version)
		require.Equal(t, "prepare", result.Pipeline.Step)
	})

	t.Run("processed stage honors an explicit step", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		result, err := ParticipantsSessions(root, "processed", "fmriprep", "20.2.7", "run")
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-002", SessionID: "ses-01"},
		}, result.Pairs)
	})
}

func TestDataset_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("dataset_root category", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		info, err := Navigate(root, "dataset_root", "", "", "")
		require.NoError(t, err)
		require.Equal(t, root, info.Path)
		require.True(t, info.Exists)
	})

	t.Run("config category", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		info, err := Navigate(root, "config", "", "", "")
		require.NoError(t, err)
		require.Equal(t, GlobalConfigPath(root), info.Path)
		require.True(t, info.Exists)
	})

	t.Run("directory category with a trusted target", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		info, err := Navigate(root, "directory", "bids", "", "")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "bids"), info.Path)
		require.Equal(t, "bids", info.Target)
		require.True(t, info.Exists)
	})

	t.Run("directory category rejects non-enumerated targets", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		_, err := Navigate(root, "directory", "../escape", "", "")
		require.Error(t, err)
		require.Equal(t, KindInvalidTarget, KindOf(err))
	})

	t.Run("directory category requires a target", func(t *testing.T) {
		t.Parallel()
		_, err := Navigate(writeTestDataset(t), "directory", "", "", "")
		require.Error(t, err)
		require.Equal(t, KindMissingParameter, KindOf(err))
	})

	t.Run("invalid category", func(t *testing.T) {
		t.Parallel()
		_, err := Navigate(writeTestDataset(t), "archive", "", "", "")
		require.Error(t, err)
		require.Equal(t, KindInvalidCategory, KindOf(err))
	})

	t.Run("pipeline_output resolves the latest version", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		info, err := Navigate(root, "pipeline_output", "", "fmriprep", "")
		require.NoError(t, err)
		require.Equal(t, PipelineOutputDir(root, "fmriprep", "20.2.7"), info.Path)
		require.NotNil(t, info.Pipeline)
		require.Equal(t, "20.2.7", info.Pipeline.Version)
	})

	t.Run("pipeline categories require a pipeline name", func(t *testing.T) {
		t.Parallel()
		_, err := Navigate(writeTestDataset(t), "pipeline_output", "", "", "")
		require.Error(t, err)
		require.Equal(t, KindMissingParameter, KindOf(err))
	})

	t.Run("pipeline_work requires a participant target", func(t *testing.T) {
		t.Parallel()
		_, err := Navigate(writeTestDataset(t), "pipeline_work", "", "fmriprep", "")
		require.Error(t, err)
		require.Equal(t, KindMissingParameter, KindOf(err))
	})

	t.Run("bids_db builds a per-participant path", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		info, err := Navigate(root, "bids_db", "sub-001", "fmriprep", "")
		require.NoError(t, err)
		require.Equal(t, BIDSDBDir(root, "fmriprep", "20.2.7", "sub-001"), info.Path)
		require.False(t, info.Exists)
	})

	t.Run("unknown pipeline surfaces the catalog error", func(t *testing.T) {
		t.Parallel()
		_, err := Navigate(writeTestDataset(t), "pipeline_idp", "", "mriqc", "")
		require.Error(t, err)
		require.Equal(t, KindPipelineNotFound, KindOf(err))
	})
}
