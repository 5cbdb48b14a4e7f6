package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pair is a participant/session identifier pair, the unit every stage
// query returns.
type Pair struct {
	ParticipantID string `json:"participant_id"`
	SessionID     string `json:"session_id"`
}

// ManifestRecord is one row of the dataset manifest, the ground-truth
// table of expected participants, sessions, and data types.
type ManifestRecord struct {
	ParticipantID string
	VisitID       string
	SessionID     string
	Datatypes     []string
}

// ReadManifest reads manifest.tsv (or manifest.csv) from the dataset root.
func ReadManifest(root string) ([]ManifestRecord, error) {
	path := filepath.Join(root, ManifestTSVFile)
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(root, ManifestCSVFile)
	}
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	records := make([]ManifestRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ManifestRecord{
			ParticipantID: row["participant_id"],
			VisitID:       row["visit_id"],
			SessionID:     row["session_id"],
			Datatypes:     parseDatatypes(row["datatype"]),
		})
	}
	return records, nil
}

// parseDatatypes accepts both the bracketed list form the nipoppy tooling
// writes ("['anat', 'dwi']") and a plain comma-separated form.
func parseDatatypes(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	if value == "" {
		return nil
	}
	var datatypes []string
	for _, part := range strings.Split(value, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			datatypes = append(datatypes, part)
		}
	}
	return datatypes
}

// ManifestPairs returns the participant/session pairs of all manifest rows.
func ManifestPairs(records []ManifestRecord) []Pair {
	pairs := make([]Pair, 0, len(records))
	for _, rec := range records {
		pairs = append(pairs, Pair{ParticipantID: rec.ParticipantID, SessionID: rec.SessionID})
	}
	return uniqueSortedPairs(pairs)
}

// ImagingPairs returns the pairs of manifest rows that declare at least one
// imaging datatype.
func ImagingPairs(records []ManifestRecord) []Pair {
	var pairs []Pair
	for _, rec := range records {
		if len(rec.Datatypes) > 0 {
			pairs = append(pairs, Pair{ParticipantID: rec.ParticipantID, SessionID: rec.SessionID})
		}
	}
	return uniqueSortedPairs(pairs)
}

// uniqueSortedPairs de-duplicates and orders pairs ascending by
// participant, then session. Every query result passes through here so
// repeated calls over unchanged data compare equal.
func uniqueSortedPairs(pairs []Pair) []Pair {
	seen := make(map[Pair]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParticipantID != out[j].ParticipantID {
			return out[i].ParticipantID < out[j].ParticipantID
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}
