package dataset

import (
	"encoding/json"
	"os"
	"unicode/utf8"
)

// ReadJSON reads and parses a JSON file into a generic mapping. Absence is
// KindNotFound, unparseable content is KindMalformed. One synchronous
// attempt, no retry.
func ReadJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fromOSError(err, path)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapError(KindMalformed, err, "invalid JSON in %s", path)
	}
	return out, nil
}

// ReadText reads a file verbatim as UTF-8 text. Absence is KindNotFound,
// non-text content is KindEncoding.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fromOSError(err, path)
	}
	if !utf8.Valid(data) {
		return "", newError(KindEncoding, "file is not valid UTF-8 text: %s", path)
	}
	return string(data), nil
}
