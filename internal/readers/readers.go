// Package readers turns files into plain text ready for ingestion.
//
// A Reader handles one family of file formats, selected by extension.
// Formats with markup (Markdown, HTML) are stripped down to their
// readable text; everything else passes through as plain text.
package readers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extracted is the result of reading a file.
type Extracted struct {
	// Text is the readable content, markup removed.
	Text string

	// Title is a human-readable name derived from the content or the
	// filename.
	Title string

	// Format names the source format ("plaintext", "markdown", "html").
	Format string
}

// Reader extracts readable text from one file format family.
type Reader interface {
	// Extensions returns the lowercase file extensions handled,
	// including the dot (".md", ".html").
	Extensions() []string

	// Extract converts raw file content to readable text.
	Extract(path string, data []byte) (*Extracted, error)
}

// Registry selects a Reader by file extension.
type Registry struct {
	byExt    map[string]Reader
	fallback Reader
}

// NewRegistry creates a registry with the given fallback for unknown
// extensions.
func NewRegistry(fallback Reader) *Registry {
	return &Registry{
		byExt:    make(map[string]Reader),
		fallback: fallback,
	}
}

// Register adds a reader for its declared extensions.
func (r *Registry) Register(reader Reader) {
	for _, ext := range reader.Extensions() {
		r.byExt[ext] = reader
	}
}

// ForPath returns the reader for the file's extension, or the fallback.
func (r *Registry) ForPath(path string) Reader {
	ext := strings.ToLower(filepath.Ext(path))
	if reader, ok := r.byExt[ext]; ok {
		return reader
	}
	return r.fallback
}

// Default returns a registry with the Markdown and HTML readers
// registered over a plain text fallback.
func Default() *Registry {
	registry := NewRegistry(NewPlainText())
	registry.Register(NewMarkdown())
	registry.Register(NewHTML())
	return registry
}

// ReadFile loads a file and extracts its text with the appropriate
// reader.
func (r *Registry) ReadFile(path string) (*Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return r.ForPath(path).Extract(path, data)
}

// DocID derives a stable document identifier from a file path. The same
// path always yields the same ID, so re-ingesting a changed file targets
// the same document.
func DocID(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	id := strings.Trim(sb.String(), "-")
	if id == "" {
		id = "document"
	}
	return id
}

// titleFromFilename derives a readable title from a file path.
func titleFromFilename(path string) string {
	filename := filepath.Base(path)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
