package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a response body as an ordered sequence of chat records.
// Each record stays raw so that fields we never look at survive
// re-encoding byte-for-byte.
func Decode(data []byte) ([]json.RawMessage, error) {
	// json.Unmarshal accepts "null" into a slice without error; only an
	// actual array counts as a record sequence here.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("body is not a record sequence")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("body is not a record sequence: %w", err)
	}
	return records, nil
}

// Encode serializes a record sequence back into a JSON array body.
func Encode(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding record sequence: %w", err)
	}
	return data, nil
}
