// Package file provides a TOML file-based configuration store.
//
// Configuration lives at ~/.docqa/config.toml by default. Nested TOML
// tables are flattened into dot-notation keys on load, so "chunk_size"
// under the [pipeline] table is addressed as "pipeline.chunk_size".
package file
