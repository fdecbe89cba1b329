package readers

import "strings"

// Ensure PlainText implements the interface.
var _ Reader = (*PlainText)(nil)

// PlainText passes file content through untouched apart from trimming.
// It is the fallback for every extension without a dedicated reader.
type PlainText struct{}

// NewPlainText creates a plain text reader.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extensions returns the extensions handled explicitly.
func (p *PlainText) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

// Extract returns the content as-is with a filename-derived title.
func (p *PlainText) Extract(path string, data []byte) (*Extracted, error) {
	return &Extracted{
		Text:   strings.TrimSpace(string(data)),
		Title:  titleFromFilename(path),
		Format: "plaintext",
	}, nil
}
