// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentStore: Durable chunk storage, the source of truth for record IDs
//   - DocumentStore: Document registry persistence
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Language model text generation
//
// # Degradable Interfaces
//
//   - VectorIndex: ANN storage/search. An unavailable backend degrades
//     every write to a no-op and every read to an empty result; the
//     condition stays observable through Stats, never through errors.
//   - HistoryStore: Question/answer history. Recording is best-effort;
//     a failed write is logged and never fails a query.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
