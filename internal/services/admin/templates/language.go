package templates

import (
	admini18n "github.com/louisbranch/identpanel/internal/services/admin/i18n"
)

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(page PageContext) []admini18n.LanguageOption {
	return admini18n.LanguageOptions(page.Lang, page.Loc)
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(page PageContext, tag string) string {
	return admini18n.LanguageURL(page.CurrentPath, page.CurrentQuery, tag)
}
