// Package identifiers shapes and coordinates the player/action identifier
// lists shown by the admin surfaces.
//
// A Block is one labeled list of account or hardware identifiers. It keeps
// the derived display state (sorted rows, the copied flag and the in-flight
// unlink flag) and drives the clipboard and unlink side effects through
// injected collaborators, so both the web dashboard and the operator console
// share the same rules.
package identifiers
