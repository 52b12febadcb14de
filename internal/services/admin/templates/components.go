package templates

import (
	"context"

	"github.com/a-h/templ"
	admini18n "github.com/louisbranch/identpanel/internal/services/admin/i18n"
)

const htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// Layout wraps body in the admin document shell.
func Layout(page PageContext, title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		lang := page.Lang
		if lang == "" {
			lang = admini18n.Default().String()
		}
		appName := T(page.Loc, admini18n.KeyAppName)

		b.raw("<!doctype html><html")
		b.attr("lang", lang)
		b.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if title != "" {
			b.text(title)
			b.raw(" | ")
		}
		b.text(appName)
		b.raw(`</title><link rel="stylesheet" href="/static/identpanel.css">`)
		b.raw(`<script src="`, htmxScriptURL, `"></script><script src="/static/identpanel.js" defer></script></head><body>`)

		b.raw(`<header class="navbar"><a class="brand" href="/">`)
		b.text(appName)
		b.raw(`</a><nav class="languages">`)
		for _, option := range LanguageOptions(page) {
			b.raw("<a")
			b.attr("href", LanguageURL(page, option.Tag))
			if option.Active {
				b.attr("aria-current", "true")
			}
			b.raw(">")
			b.text(option.Label)
			b.raw("</a>")
		}
		b.raw("</nav>")
		if page.OperatorID != "" {
			b.raw(`<span class="operator">`)
			b.text(page.OperatorID)
			b.raw("</span>")
		}
		b.raw(`</header><main id="main">`)
		if err := b.child(ctx, body); err != nil {
			return err
		}
		b.raw("</main></body></html>")
		return nil
	})
}

// Message renders a status line, or nothing when text is empty.
func Message(text string) templ.Component {
	return component(func(_ context.Context, b *htmlBuilder) error {
		if text == "" {
			return nil
		}
		b.raw(`<p class="message" role="status">`)
		b.text(text)
		b.raw("</p>")
		return nil
	})
}
