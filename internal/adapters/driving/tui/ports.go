// Package tui provides an interactive chat interface for docqa.
// It implements a driving adapter following hexagonal architecture
// principles, built on the Elm architecture via Bubbletea.
package tui

import (
	"errors"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("tui: query service is required")

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Query answers questions over the knowledge base.
	Query driving.QueryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
