package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/aggcheck/internal/history"
)

// marshalItems converts an ordered item list to JSON TEXT for storage.
// A nil or empty list marshals to "[]" so round-trips stay comparable.
func marshalItems(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

// unmarshalItems parses a JSON TEXT item list. Empty input yields nil.
func unmarshalItems(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

// marshalFileMeta converts manifest metadata to JSON TEXT.
func marshalFileMeta(meta *history.FileMeta) (sqlNullable string, ok bool, err error) {
	if meta == nil {
		return "", false, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", false, fmt.Errorf("marshal file meta: %w", err)
	}
	return string(data), true, nil
}

// unmarshalFileMeta parses JSON TEXT manifest metadata.
func unmarshalFileMeta(data string) (*history.FileMeta, error) {
	if data == "" {
		return nil, nil
	}
	var meta history.FileMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal file meta: %w", err)
	}
	return &meta, nil
}
