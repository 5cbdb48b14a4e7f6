package dataset

import (
	"path/filepath"
)

// statusSuccess marks a completed pipeline run in the processing status
// table.
const statusSuccess = "SUCCESS"

// CurationRecord is one row of the curation status table, tracking how far
// a participant/session has moved through raw-data normalization.
type CurationRecord struct {
	ParticipantID string
	SessionID     string
	InPreReorg    bool
	InPostReorg   bool
	InBIDS        bool
}

// ProcessingRecord is one row of the processing status table, tracking
// pipeline run outcomes per participant/session.
type ProcessingRecord struct {
	ParticipantID   string
	SessionID       string
	PipelineName    string
	PipelineVersion string
	PipelineStep    string
	Status          string
}

// ReadCurationStatus reads the curation status table from the dataset root.
func ReadCurationStatus(root string) ([]CurationRecord, error) {
	rows, err := readTable(filepath.Join(root, filepath.FromSlash(CurationStatusFile)))
	if err != nil {
		return nil, err
	}
	records := make([]CurationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, CurationRecord{
			ParticipantID: row["participant_id"],
			SessionID:     row["session_id"],
			InPreReorg:    parseTableBool(row["in_pre_reorg"]),
			InPostReorg:   parseTableBool(row["in_post_reorg"]),
			InBIDS:        parseTableBool(row["in_bids"]),
		})
	}
	return records, nil
}

// ReadProcessingStatus reads the processing status table from the dataset
// root.
func ReadProcessingStatus(root string) ([]ProcessingRecord, error) {
	rows, err := readTable(filepath.Join(root, filepath.FromSlash(ProcessingStatusFile)))
	if err != nil {
		return nil, err
	}
	records := make([]ProcessingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ProcessingRecord{
			ParticipantID:   row["participant_id"],
			SessionID:       row["session_id"],
			PipelineName:    row["pipeline_name"],
			PipelineVersion: row["pipeline_version"],
			PipelineStep:    row["pipeline_step"],
			Status:          row["status"],
		})
	}
	return records, nil
}

// CuratedPairs returns the pairs that reached the given curation stage.
// Only the three curation stages consult this table.
func CuratedPairs(root string, stage Stage) ([]Pair, error) {
	records, err := ReadCurationStatus(root)
	if err != nil {
		return nil, err
	}
	var pairs []Pair
	for _, rec := range records {
		var reached bool
		switch stage {
		case StageDownloaded:
			reached = rec.InPreReorg
		case StageOrganized:
			reached = rec.InPostReorg
		case StageBIDSified:
			reached = rec.InBIDS
		default:
			return nil, newError(KindInvalidStage, "stage %q is not tracked by the curation status table", stage)
		}
		if reached {
			pairs = append(pairs, Pair{ParticipantID: rec.ParticipantID, SessionID: rec.SessionID})
		}
	}
	return uniqueSortedPairs(pairs), nil
}

// ProcessedPairs returns the pairs with a successful run of the given
// pipeline name, version, and step.
func ProcessedPairs(root, name, version, step string) ([]Pair, error) {
	records, err := ReadProcessingStatus(root)
	if err != nil {
		return nil, err
	}
	var pairs []Pair
	for _, rec := range records {
		if rec.PipelineName != name || rec.PipelineVersion != version || rec.PipelineStep != step {
			continue
		}
		if rec.Status != statusSuccess {
			continue
		}
		pairs = append(pairs, Pair{ParticipantID: rec.ParticipantID, SessionID: rec.SessionID})
	}
	return uniqueSortedPairs(pairs), nil
}
