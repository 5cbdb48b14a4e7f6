package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataset_CuratedPairs(t *testing.T) {
	t.Parallel()

	root := writeTestDataset(t)

	t.Run("downloaded stage", func(t *testing.T) {
		t.Parallel()
		pairs, err := CuratedPairs(root, StageDownloaded)
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
			{ParticipantID: "sub-001", SessionID: "ses-02"},
			{ParticipantID: "sub-002", SessionID: "ses-01"},
		}, pairs)
	})

	t.Run("organized stage", func(t *testing.T) {
		t.Parallel()
		pairs, err := CuratedPairs(root, StageOrganized)
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
			{ParticipantID: "sub-001", SessionID: "ses-02"},
		}, pairs)
	})

	t.Run("bidsified stage", func(t *testing.T) {
		t.Parallel()
		pairs, err := CuratedPairs(root, StageBIDSified)
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
		}, pairs)
	})

	t.Run("non-curation stage is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := CuratedPairs(root, StageAll)
		require.Error(t, err)
		require.Equal(t, KindInvalidStage, KindOf(err))
	})

	t.Run("missing table is not_found", func(t *testing.T) {
		t.Parallel()
		_, err := CuratedPairs(t.TempDir(), StageDownloaded)
		require.Error(t, err)
		require.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestDataset_ProcessedPairs(t *testing.T) {
	t.Parallel()

	root := writeTestDataset(t)

	t.Run("only successful runs count", func(t *testing.T) {
		t.Parallel()
		pairs, err := ProcessedPairs(root, "fmriprep", "20.2.7", "prepare")
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-001", SessionID: "ses-01"},
			{ParticipantID: "sub-002", SessionID: "ses-01"},
		}, pairs)
	})

	t.Run("filters by step", func(t *testing.T) {
		t.Parallel()
		pairs, err := ProcessedPairs(root, "fmriprep", "20.2.7", "run")
		require.NoError(t, err)
		require.Equal(t, []Pair{
			{ParticipantID: "sub-002", SessionID: "ses-01"},
		}, pairs)
	})

	t.Run("unknown pipeline yields empty result", func(t *testing.T) {
		t.Parallel()
		pairs, err := ProcessedPairs(root, "mriqc", "1.0.0", "run")
		require.NoError(t, err)
		require.Empty(t, pairs)
	})
}
