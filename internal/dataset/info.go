package dataset

// PipelineDetail is one catalog entry in the dataset overview, including
// the declared steps and how many participant/session pairs completed the
// first step.
type PipelineDetail struct {
	PipelineInfo
	Steps          []string `json:"steps,omitempty"`
	CompletedPairs int      `json:"completed_pairs"`
	Error          string   `json:"error,omitempty"`
}

// StageSummary is a per-stage participant/session count in the dataset
// overview.
type StageSummary struct {
	Stage        Stage  `json:"stage"`
	Participants int    `json:"participants"`
	Sessions     int    `json:"sessions"`
	Pairs        int    `json:"pairs"`
	Error        string `json:"error,omitempty"`
}

// Info is the best-effort dataset overview. Each optional section records
// its own failure inline rather than failing the whole overview.
type Info struct {
	DatasetRoot string `json:"dataset_root"`
	DatasetName string `json:"dataset_name,omitempty"`
	ConfigError string `json:"config_error,omitempty"`

	Participants  int    `json:"participants"`
	Sessions      int    `json:"sessions"`
	Pairs         int    `json:"pairs"`
	ManifestError string `json:"manifest_error,omitempty"`

	Pipelines      []PipelineDetail `json:"pipelines,omitempty"`
	PipelinesError string           `json:"pipelines_error,omitempty"`

	StageSummaries []StageSummary `json:"stage_summaries,omitempty"`
	StatusError    string         `json:"status_error,omitempty"`
}

// DatasetInfo assembles the overview: config identity and manifest counts
// always, pipeline details and stage-by-stage summaries on request. Every
// section is an isolated sub-computation; one failing section degrades to
// an embedded error marker.
func DatasetInfo(root string, includePipelines, includeStatus bool) Info {
	info := Info{DatasetRoot: root}

	config, err := ReadJSON(GlobalConfigPath(root))
	if err != nil {
		info.ConfigError = err.Error()
	} else if name, ok := config["DATASET_NAME"].(string); ok {
		info.DatasetName = name
	}

	records, err := ReadManifest(root)
	if err != nil {
		info.ManifestError = err.Error()
	} else {
		pairs := ManifestPairs(records)
		info.Participants, info.Sessions = countIdentifiers(pairs)
		info.Pairs = len(pairs)
	}

	if includePipelines {
		info.Pipelines, info.PipelinesError = pipelineDetails(root)
	}
	if includeStatus {
		info.StageSummaries, info.StatusError = stageSummaries(root)
	}
	return info
}

func pipelineDetails(root string) ([]PipelineDetail, string) {
	pipelines, err := ListPipelines(root)
	if err != nil {
		return nil, err.Error()
	}
	details := make([]PipelineDetail, 0, len(pipelines))
	for _, p := range pipelines {
		detail := PipelineDetail{PipelineInfo: p}
		steps, err := PipelineSteps(root, p.Type, p.Name, p.Version)
		if err != nil {
			detail.Error = err.Error()
			details = append(details, detail)
			continue
		}
		detail.Steps = steps
		completed, err := ProcessedPairs(root, p.Name, p.Version, steps[0])
		if err != nil {
			detail.Error = err.Error()
		} else {
			detail.CompletedPairs = len(completed)
		}
		details = append(details, detail)
	}
	return details, ""
}

func stageSummaries(root string) ([]StageSummary, string) {
	summaries := make([]StageSummary, 0, len(Stages))
	for _, stage := range Stages {
		if stage == StageProcessed {
			// Per-pipeline completion lives in the pipeline details.
			continue
		}
		summary := StageSummary{Stage: stage}
		result, err := ParticipantsSessions(root, string(stage), "", "", "")
		if err != nil {
			summary.Error = err.Error()
		} else {
			summary.Participants, summary.Sessions = countIdentifiers(result.Pairs)
			summary.Pairs = len(result.Pairs)
		}
		summaries = append(summaries, summary)
	}
	return summaries, ""
}

func countIdentifiers(pairs []Pair) (participants, sessions int) {
	participantSet := make(map[string]struct{})
	sessionSet := make(map[string]struct{})
	for _, p := range pairs {
		participantSet[p.ParticipantID] = struct{}{}
		sessionSet[p.SessionID] = struct{}{}
	}
	return len(participantSet), len(sessionSet)
}
