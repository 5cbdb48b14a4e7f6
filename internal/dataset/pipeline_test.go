package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataset_ListPipelines(t *testing.T) {
	t.Parallel()

	t.Run("lists installed bundles sorted by type, name, version", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		installPipeline(t, root, PipelineTypeProcessing, "fmriprep", "23.1.3")

		pipelines, err := ListPipelines(root)
		require.NoError(t, err)
		require.Equal(t, []PipelineInfo{
			{Type: PipelineTypeBIDSification, Name: "heudiconv", Version: "0.12.2"},
			{Type: PipelineTypeProcessing, Name: "fmriprep", Version: "20.2.7"},
			{Type: PipelineTypeProcessing, Name: "fmriprep", Version: "23.1.3"},
		}, pipelines)
	})

	t.Run("dataset without pipelines directory yields empty catalog", func(t *testing.T) {
		t.Parallel()
		pipelines, err := ListPipelines(t.TempDir())
		require.NoError(t, err)
		require.Empty(t, pipelines)
	})

	t.Run("ignores bundle directories without a version suffix", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, PipelineConfigPath(root, PipelineTypeProcessing, "fmriprep", "20.2.7"), `{}`)
		writeFile(t, root+"/pipelines/processing/README/notes.txt", "not a bundle")

		pipelines, err := ListPipelines(root)
		require.NoError(t, err)
		require.Len(t, pipelines, 1)
		require.Equal(t, "fmriprep", pipelines[0].Name)
	})
}

func TestDataset_PipelineSteps(t *testing.T) {
	t.Parallel()

	root := writeTestDataset(t)

	t.Run("returns steps in declaration order", func(t *testing.T) {
		t.Parallel()
		steps, err := PipelineSteps(root, PipelineTypeProcessing, "fmriprep", "20.2.7")
		require.NoError(t, err)
		require.Equal(t, []string{"prepare", "run"}, steps)
	})

	t.Run("config without steps has one implicit step", func(t *testing.T) {
		t.Parallel()
		steps, err := PipelineSteps(root, PipelineTypeBIDSification, "heudiconv", "0.12.2")
		require.NoError(t, err)
		require.Equal(t, []string{"default"}, steps)
	})

	t.Run("missing config propagates not_found", func(t *testing.T) {
		t.Parallel()
		_, err := PipelineSteps(root, PipelineTypeProcessing, "mriqc", "1.0.0")
		require.Error(t, err)
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := PipelineSteps(root, PipelineType("custom"), "fmriprep", "20.2.7")
		require.Error(t, err)
		require.Equal(t, KindUnknownPipelineType, KindOf(err))
	})
}

func TestDataset_ParsePipelineType(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"bidsification", "processing", "extraction"} {
		parsed, err := ParsePipelineType(typ)
		require.NoError(t, err)
		require.Equal(t, PipelineType(typ), parsed)
	}

	_, err := ParsePipelineType("curation")
	require.Error(t, err)
	require.Equal(t, KindUnknownPipelineType, KindOf(err))
}

func TestDataset_ResolveVersion(t *testing.T) {
	t.Parallel()

	t.Run("unknown pipeline", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		_, _, err := ResolveVersion(root, "mriqc", "")
		require.Error(t, err)
		require.Equal(t, KindPipelineNotFound, KindOf(err))
	})

	t.Run("unknown version reports available set", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		_, _, err := ResolveVersion(root, "fmriprep", "99.0.0")
		require.Error(t, err)
		require.Equal(t, KindVersionNotFound, KindOf(err))
		require.Contains(t, err.Error(), "20.2.7")
	})

	t.Run("explicit version is honored", func(t *testing.T) {
		t.Parallel()
		root := writeTestDataset(t)
		typ, version, err := ResolveVersion(root, "fmriprep", "20.2.7")
		require.NoError(t, err)
		require.Equal(t, PipelineTypeProcessing, typ)
		require.Equal(t, "20.2.7", version)
	})

	t.Run("latest version is lexicographic, not semantic", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		installPipeline(t, root, PipelineTypeProcessing, "tractoflow", "1.0")
		installPipeline(t, root, PipelineTypeProcessing, "tractoflow", "2.0")
		installPipeline(t, root, PipelineTypeProcessing, "tractoflow", "10.0")

		_, version, err := ResolveVersion(root, "tractoflow", "")
		require.NoError(t, err)
		require.Equal(t, "2.0", version)
	})
}
