// Package driving defines the interfaces through which the outside world
// drives the core (primary ports in hexagonal architecture).
//
// The CLI, TUI, and MCP adapters depend on these interfaces; the core
// services implement them.
//
//   - IngestService: document ingestion, deletion, and reconciliation
//   - QueryService: retrieval-augmented question answering
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
