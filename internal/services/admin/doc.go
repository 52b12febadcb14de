// Package admin serves the identifier panels to operators.
//
// The HTML dashboard and the JSON API share one Handler. Both read players
// and moderation actions from the sqlite store and route every unlink
// through the identifiers package, so the in-flight guard and the
// players.ban gate behave the same on each surface.
package admin
