package dataset

import (
	"os"
	"path/filepath"
)

// Stage selects which stage-indexed table a participants/sessions query
// consults.
type Stage string

const (
	StageAll        Stage = "all"
	StageImaging    Stage = "imaging"
	StageDownloaded Stage = "downloaded"
	StageOrganized  Stage = "organized"
	StageBIDSified  Stage = "bidsified"
	StageProcessed  Stage = "processed"
)

// Stages lists the accepted data stages in documentation order.
var Stages = []Stage{
	StageAll,
	StageImaging,
	StageDownloaded,
	StageOrganized,
	StageBIDSified,
	StageProcessed,
}

// ParseStage validates a data stage string against the closed set.
func ParseStage(s string) (Stage, error) {
	for _, stage := range Stages {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", newError(KindInvalidStage, "invalid data stage: %q", s)
}

// ParticipantsSessionsResult carries a stage query's pairs plus the
// resolved pipeline identity when the processed stage was queried.
type ParticipantsSessionsResult struct {
	Pairs    []Pair
	Pipeline *PipelineRef
}

// ParticipantsSessions returns the de-duplicated, sorted participant and
// session pairs present at the given data stage. For the processed stage a
// pipeline name is required; the version defaults to the latest installed
// and the step to the first declared step.
func ParticipantsSessions(root, stage, pipelineName, pipelineVersion, pipelineStep string) (ParticipantsSessionsResult, error) {
	parsed, err := ParseStage(stage)
	if err != nil {
		return ParticipantsSessionsResult{}, err
	}

	switch parsed {
	case StageAll, StageImaging:
		records, err := ReadManifest(root)
		if err != nil {
			return ParticipantsSessionsResult{}, err
		}
		if parsed == StageAll {
			return ParticipantsSessionsResult{Pairs: ManifestPairs(records)}, nil
		}
		return ParticipantsSessionsResult{Pairs: ImagingPairs(records)}, nil

	case StageDownloaded, StageOrganized, StageBIDSified:
		pairs, err := CuratedPairs(root, parsed)
		if err != nil {
			return ParticipantsSessionsResult{}, err
		}
		return ParticipantsSessionsResult{Pairs: pairs}, nil

	case StageProcessed:
		if pipelineName == "" {
			return ParticipantsSessionsResult{}, newError(KindMissingParameter,
				"pipeline_name is required for the processed stage")
		}
		typ, version, err := ResolveVersion(root, pipelineName, pipelineVersion)
		if err != nil {
			return ParticipantsSessionsResult{}, err
		}
		step := pipelineStep
		if step == "" {
			steps, err := PipelineSteps(root, typ, pipelineName, version)
			if err != nil {
				return ParticipantsSessionsResult{}, err
			}
			step = steps[0]
		}
		pairs, err := ProcessedPairs(root, pipelineName, version, step)
		if err != nil {
			return ParticipantsSessionsResult{}, err
		}
		return ParticipantsSessionsResult{
			Pairs:    pairs,
			Pipeline: &PipelineRef{Type: typ, Name: pipelineName, Version: version, Step: step},
		}, nil
	}

	return ParticipantsSessionsResult{}, newError(KindInvalidStage, "invalid data stage: %q", stage)
}

// PathCategory names which dataset or pipeline-relative location a
// navigate call resolves.
type PathCategory string

const (
	CategoryDatasetRoot    PathCategory = "dataset_root"
	CategoryConfig         PathCategory = "config"
	CategoryDirectory      PathCategory = "directory"
	CategoryPipelineOutput PathCategory = "pipeline_output"
	CategoryPipelineWork   PathCategory = "pipeline_work"
	CategoryPipelineIDP    PathCategory = "pipeline_idp"
	CategoryBIDSDB         PathCategory = "bids_db"
)

// PathCategories lists the accepted path categories in documentation order.
var PathCategories = []PathCategory{
	CategoryDatasetRoot,
	CategoryConfig,
	CategoryDirectory,
	CategoryPipelineOutput,
	CategoryPipelineWork,
	CategoryPipelineIDP,
	CategoryBIDSDB,
}

// ParsePathCategory validates a path category string against the closed
// set.
func ParsePathCategory(s string) (PathCategory, error) {
	for _, category := range PathCategories {
		if string(category) == s {
			return category, nil
		}
	}
	return "", newError(KindInvalidCategory, "invalid path category: %q", s)
}

// PathInfo describes a resolved dataset location.
type PathInfo struct {
	Category PathCategory `json:"category"`
	Path     string       `json:"path"`
	Exists   bool         `json:"exists"`
	Target   string       `json:"target,omitempty"`
	Pipeline *PipelineRef `json:"pipeline,omitempty"`
}

// Navigate resolves a named path category to an absolute location within
// the dataset. Paths here are constructed from the trusted layout, never
// from caller-supplied relative strings, so no containment check applies;
// the directory target is instead validated against the closed StandardDirs
// set.
func Navigate(root, category, target, pipelineName, pipelineVersion string) (PathInfo, error) {
	parsed, err := ParsePathCategory(category)
	if err != nil {
		return PathInfo{}, err
	}

	info := PathInfo{Category: parsed}
	switch parsed {
	case CategoryDatasetRoot:
		info.Path = root

	case CategoryConfig:
		info.Path = GlobalConfigPath(root)

	case CategoryDirectory:
		if target == "" {
			return PathInfo{}, newError(KindMissingParameter, "target is required for the directory category")
		}
		if !isStandardDir(target) {
			return PathInfo{}, newError(KindInvalidTarget, "invalid directory target: %q", target)
		}
		info.Target = target
		info.Path = filepath.Join(root, target)

	case CategoryPipelineOutput, CategoryPipelineWork, CategoryPipelineIDP, CategoryBIDSDB:
		if pipelineName == "" {
			return PathInfo{}, newError(KindMissingParameter,
				"pipeline_name is required for the %s category", parsed)
		}
		typ, version, err := ResolveVersion(root, pipelineName, pipelineVersion)
		if err != nil {
			return PathInfo{}, err
		}
		info.Pipeline = &PipelineRef{Type: typ, Name: pipelineName, Version: version}
		switch parsed {
		case CategoryPipelineOutput:
			info.Path = PipelineOutputDir(root, pipelineName, version)
		case CategoryPipelineIDP:
			info.Path = PipelineIDPDir(root, pipelineName, version)
		case CategoryPipelineWork, CategoryBIDSDB:
			if target == "" {
				return PathInfo{}, newError(KindMissingParameter,
					"target (participant ID) is required for the %s category", parsed)
			}
			info.Target = target
			if parsed == CategoryPipelineWork {
				info.Path = PipelineWorkDir(root, pipelineName, version, target)
			} else {
				info.Path = BIDSDBDir(root, pipelineName, version, target)
			}
		}
	}

	if _, err := os.Stat(info.Path); err == nil {
		info.Exists = true
	}
	return info, nil
}
