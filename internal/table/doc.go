// Package table provides the in-memory tabular model edited by hencsv.
//
// Tables are treated as values: every transformation returns a new Table and
// leaves its receiver untouched, which lets callers keep earlier snapshots for
// undo. ReadFile and WriteFile convert between tables and CSV documents with a
// header row.
package table
