// Package storage defines persistence contracts for the players, moderation
// actions and identifier unlink audit trail behind the admin dashboard.
//
// Handlers depend on these interfaces so they can be tested with fakes and
// never reach for a concrete SQLite schema.
package storage
