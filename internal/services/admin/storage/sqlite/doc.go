// Package sqlite provides the SQLite-backed admin store.
//
// Unlinks and their audit rows are written in one transaction so the audit
// trail never disagrees with the identifier tables.
package sqlite
