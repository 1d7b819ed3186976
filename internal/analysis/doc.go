// Package analysis implements the schema-free spreadsheet analysis engine.
//
// The engine receives decoded tabular sources (ordered rows with named
// columns, produced by internal/ingest), classifies every column into a
// semantic type, aggregates values per column, merges same-named columns
// across all sources into one Result, and synthesizes human-readable
// insight strings from the merged aggregates.
//
// The pipeline is pure and synchronous: Analyze runs to completion over
// its input and holds no state between invocations. Callers that need to
// keep a Result around scope it themselves (see internal/services).
package analysis
