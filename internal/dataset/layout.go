package dataset

import (
	"fmt"
	"path/filepath"
)

// Nipoppy dataset layout. The gateway does not own this convention; it
// mirrors the on-disk layout the nipoppy tooling writes.
const (
	GlobalConfigFile = "global_config.json"
	ManifestTSVFile  = "manifest.tsv"
	ManifestCSVFile  = "manifest.csv"

	PipelinesDirName = "pipelines"

	CurationStatusFile   = "sourcedata/imaging/curation_status.tsv"
	ProcessingStatusFile = "derivatives/processing_status.tsv"

	pipelineConfigFile = "config.json"
)

// StandardDirs are the named subdirectories the navigate operation accepts
// as a directory target. The set is closed: anything else, including
// relative escapes, is rejected before touching the filesystem.
var StandardDirs = []string{
	"bids",
	"derivatives",
	"sourcedata",
	"tabular",
	"scratch",
	"tmp",
	"logs",
}

func isStandardDir(name string) bool {
	for _, d := range StandardDirs {
		if d == name {
			return true
		}
	}
	return false
}

// GlobalConfigPath returns the path of the dataset's global configuration.
func GlobalConfigPath(root string) string {
	return filepath.Join(root, GlobalConfigFile)
}

// PipelineBundleDir returns the versioned bundle directory of a pipeline.
func PipelineBundleDir(root string, typ PipelineType, name, version string) string {
	return filepath.Join(root, PipelinesDirName, string(typ), fmt.Sprintf("%s-%s", name, version))
}

// PipelineConfigPath returns the path of a pipeline bundle's configuration.
func PipelineConfigPath(root string, typ PipelineType, name, version string) string {
	return filepath.Join(PipelineBundleDir(root, typ, name, version), pipelineConfigFile)
}

// PipelineOutputDir returns the derivatives output directory of a pipeline.
func PipelineOutputDir(root, name, version string) string {
	return filepath.Join(root, "derivatives", name, version, "output")
}

// PipelineIDPDir returns the imaging-derived-phenotype directory of a
// pipeline.
func PipelineIDPDir(root, name, version string) string {
	return filepath.Join(root, "derivatives", name, version, "idp")
}

// PipelineWorkDir returns the per-participant scratch working directory of
// a pipeline run.
func PipelineWorkDir(root, name, version, participant string) string {
	return filepath.Join(root, "scratch", "work", fmt.Sprintf("%s-%s", name, version), participant)
}

// BIDSDBDir returns the per-participant PyBIDS database directory used by a
// pipeline run.
func BIDSDBDir(root, name, version, participant string) string {
	return filepath.Join(root, "scratch", "pybids_db", fmt.Sprintf("bids_db-%s-%s-%s", name, version, participant))
}
