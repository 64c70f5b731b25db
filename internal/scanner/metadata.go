package scanner

import (
	"encoding/json"
	"fmt"
	"strings"

	"wallpaper-catalog/internal/filesystem"
)

// Tags accepts either a JSON array of strings or a single string.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings")
	}
	if single = strings.TrimSpace(single); single == "" {
		*t = nil
	} else {
		*t = Tags{single}
	}
	return nil
}

// MetadataRecord is one sidecar entry describing the image with the
// matching signature.
type MetadataRecord struct {
	Signature string `json:"signature"`
	Caption   string `json:"caption"`
	Category  string `json:"category"`
	Tags      Tags   `json:"tags"`
}

// MetadataIndex maps signature to record.
type MetadataIndex map[string]MetadataRecord

// ParseMetadata decodes a sidecar document.
func ParseMetadata(data []byte) ([]MetadataRecord, error) {
	var records []MetadataRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Load merges the sidecar at path into the index. Later records replace
// earlier ones with the same signature, including records loaded from
// previous sidecars. On error the index is left unchanged.
func (m MetadataIndex) Load(path string) (int, error) {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to read metadata file: %w", err)
	}

	records, err := ParseMetadata(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse metadata file: %w", err)
	}

	for _, r := range records {
		if r.Signature == "" {
			continue
		}
		m[r.Signature] = r
	}
	return len(records), nil
}
