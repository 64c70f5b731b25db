package scanner

import (
	"path/filepath"
	"strings"
)

// FilenameKeywords turns a file name into search tokens: the extension is
// dropped and underscores become spaces, so "sunset_beach.jpg" gives
// "sunset beach".
func FilenameKeywords(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Join(strings.FieldsFunc(stem, func(r rune) bool { return r == '_' }), " ")
}

// DeriveKeywords builds the search string for the image at path. With a
// metadata record it is category, tags and caption followed by the file
// name tokens; without one it is the file name tokens alone. Empty parts
// are omitted and parts are separated by single spaces.
func DeriveKeywords(path string, record *MetadataRecord) string {
	var parts []string
	if record != nil {
		parts = append(parts, record.Category)
		parts = append(parts, record.Tags...)
		parts = append(parts, record.Caption)
	}
	parts = append(parts, FilenameKeywords(path))

	words := make([]string, 0, len(parts))
	for _, p := range parts {
		words = append(words, strings.Fields(p)...)
	}
	return strings.Join(words, " ")
}
