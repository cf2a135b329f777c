// Package repositories implements SQLite persistence for resolution results.
//
// The only store is [ResolutionRepository], backed by the in-memory database from [shared.NewMemoryDatabase].
// It lives for one run and is discarded at process exit; nothing is written to disk.
//
// [ResolutionMemo] adapts the repository to the sequencer's memo so that a source URI seen twice in one run is
// resolved once. Duplicate inserts are ignored via the source_uri UNIQUE constraint.
package repositories
