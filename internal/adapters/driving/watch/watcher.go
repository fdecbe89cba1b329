// Package watch keeps a directory and the knowledge base in sync.
//
// Files created or modified under the watched directory are
// re-ingested; removed files have their documents deleted. Events for
// unsupported extensions are ignored.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
	"github.com/custodia-labs/docqa-cli/internal/readers"
)

// defaultExtensions are the file types ingested when none are
// configured.
var defaultExtensions = []string{".txt", ".text", ".md", ".markdown", ".html", ".htm"}

// debounceWindow coalesces the burst of write events editors emit when
// saving a file.
const debounceWindow = 500 * time.Millisecond

// Watcher mirrors a directory into the ingestion pipeline.
type Watcher struct {
	ingest     driving.IngestService
	registry   *readers.Registry
	fsw        *fsnotify.Watcher
	extensions []string
}

// New creates a directory watcher over the given ingest service.
func New(ingest driving.IngestService, registry *readers.Registry, extensions []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = defaultExtensions
	} else {
		extensions = normalizeExtensions(extensions)
	}
	if registry == nil {
		registry = readers.Default()
	}

	return &Watcher{
		ingest:     ingest,
		registry:   registry,
		fsw:        fsw,
		extensions: extensions,
	}, nil
}

// Run watches dir until the context is cancelled. Existing files are
// not scanned; only changes after Run starts are mirrored.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	logger.Info("Watching %s", dir)

	// Pending write events per path, flushed after the debounce window.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounceWindow / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.watched(event.Name) {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				delete(pending, event.Name)
				w.remove(ctx, event.Name)
			}

		case <-ticker.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < debounceWindow {
					continue
				}
				delete(pending, path)
				w.reingest(ctx, path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// Close releases the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// reingest replaces the file's document with its current content.
func (w *Watcher) reingest(ctx context.Context, path string) {
	docID := readers.DocID(path)

	extracted, err := w.registry.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	// Replace semantics: an existing document for this path is dropped
	// before the new content goes in.
	if err := w.ingest.DeleteDocument(ctx, docID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Could not replace %s: %v", docID, err)
		return
	}

	result, err := w.ingest.ProcessDocument(ctx, extracted.Text, docID, map[string]any{
		"source":     extracted.Title,
		"source_uri": path,
		"format":     extracted.Format,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			logger.Debug("Skipping empty file %s", path)
			return
		}
		logger.Warn("Ingest of %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %s (%d chunks)", filepath.Base(path), result.DocID, result.ChunkCount)
}

// remove deletes the document backing a removed file.
func (w *Watcher) remove(ctx context.Context, path string) {
	docID := readers.DocID(path)
	if err := w.ingest.DeleteDocument(ctx, docID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		logger.Warn("Delete of %s failed: %v", docID, err)
		return
	}
	logger.Info("Removed document %s", docID)
}

// normalizeExtensions lowercases user-supplied extensions and prepends
// the dot when missing, so "md" and ".md" both compare equal to
// filepath.Ext output.
func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}
	return normalized
}

// watched reports whether the file extension is mirrored.
func (w *Watcher) watched(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
