package templates

import (
	"github.com/louisbranch/identpanel/internal/identifiers"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for templ components.
type Localizer = identifiers.Localizer

// T returns a translated string. Without a localizer, identifier keys fall
// back to their English text and any other string key is returned as is.
func T(loc Localizer, key message.Reference, args ...any) string {
	if keyString, ok := key.(string); ok {
		return identifiers.Text(loc, keyString, args...)
	}
	if loc == nil {
		return ""
	}
	return loc.Sprintf(key, args...)
}
