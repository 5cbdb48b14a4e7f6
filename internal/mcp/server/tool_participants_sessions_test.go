package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurodatascience/nipoppy-mcp/internal/dataset"
)

func TestMCP_Server_ToolParticipantsSessions(t *testing.T) {
	t.Parallel()

	t.Run("all stage returns sorted pairs", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleParticipantsSessions(root, ParticipantsSessionsInput{DataStage: "all"})
		require.Empty(t, out.Error)
		require.Equal(t, root, out.DatasetRoot)
		require.Equal(t, 4, out.Count)
		require.Equal(t, dataset.Pair{ParticipantID: "sub-001", SessionID: "ses-01"}, out.ParticipantsSessions[0])
		require.Equal(t, dataset.Pair{ParticipantID: "sub-002", SessionID: "ses-02"}, out.ParticipantsSessions[3])
	})

	t.Run("processed stage echoes the resolved pipeline", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleParticipantsSessions(root, ParticipantsSessionsInput{
			DataStage:    "processed",
			PipelineName: "fmriprep",
		})
		require.Empty(t, out.Error)
		require.Equal(t, 1, out.Count)
		require.NotNil(t, out.Pipeline)
		require.Equal(t, "20.2.7", out.Pipeline.Version)
		require.Equal(t, "prepare", out.Pipeline.Step)
	})

	t.Run("invalid stage becomes an error-as-data response", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleParticipantsSessions(root, ParticipantsSessionsInput{DataStage: "uploaded"})
		require.NotEmpty(t, out.Error)
		require.Equal(t, string(dataset.KindInvalidStage), out.ErrorKind)
		require.Zero(t, out.Count)
	})

	t.Run("processed stage without a pipeline name", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		out := handleParticipantsSessions(root, ParticipantsSessionsInput{DataStage: "processed"})
		require.Equal(t, string(dataset.KindMissingParameter), out.ErrorKind)
	})
}
