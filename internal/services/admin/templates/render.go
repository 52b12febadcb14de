package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlBuilder accumulates markup for hand-written components. Text and
// attribute values are escaped with templ's escaper.
type htmlBuilder struct {
	strings.Builder
}

func (b *htmlBuilder) raw(parts ...string) {
	for _, part := range parts {
		b.WriteString(part)
	}
}

func (b *htmlBuilder) text(value string) {
	b.WriteString(templ.EscapeString(value))
}

func (b *htmlBuilder) attr(name string, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
}

func (b *htmlBuilder) child(ctx context.Context, c templ.Component) error {
	if c == nil {
		return nil
	}
	return c.Render(ctx, b)
}

func component(build func(ctx context.Context, b *htmlBuilder) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b htmlBuilder
		if err := build(ctx, &b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
