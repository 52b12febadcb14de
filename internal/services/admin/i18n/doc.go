// Package i18n resolves the operator's language and registers the admin
// message catalogs for English and Brazilian Portuguese, including the
// identifier panel texts.
package i18n
