package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
)

// readTable reads a delimited table (tab for .tsv, comma otherwise) into
// one map per row keyed by the header row's column names. Rows shorter
// than the header leave the missing columns empty.
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fromOSError(err, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if filepath.Ext(path) == ".tsv" {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, wrapError(KindMalformed, err, "invalid table in %s", path)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTableBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
