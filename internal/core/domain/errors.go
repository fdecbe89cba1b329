package domain

import "errors"

// Domain errors represent business logic failures.
// Callers branch on the kind with errors.Is; adapters wrap these with
// context but never replace them with free text.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Re-ingesting a known document ID fails with this; callers must
	// delete-then-insert rather than silently overwrite.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConfiguration indicates invalid setup parameters (chunk size,
	// overlap, top-K, dimensions). Fatal; detected before serving traffic.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyInput indicates caller-supplied text was empty or
	// whitespace-only. Reported to the caller, never retried.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoContent indicates splitting produced no chunks, e.g. the
	// source text was entirely whitespace.
	ErrNoContent = errors.New("no content")

	// ErrNoValidContext indicates every retrieved context chunk was blank
	// after filtering.
	ErrNoValidContext = errors.New("no valid context")

	// ErrArityMismatch indicates chunk and embedding counts diverged.
	// This is an internal invariant violation and fails loudly.
	ErrArityMismatch = errors.New("arity mismatch between chunks and embeddings")

	// ErrModelUnavailable indicates the embedding backend could not be
	// reached or loaded. Fatal for the current request only; later
	// requests may retry the load.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)
