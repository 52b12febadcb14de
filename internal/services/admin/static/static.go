package static

import "embed"

// FS exposes the dashboard stylesheet and copy script.
//
//go:embed *.css *.js
var FS embed.FS
