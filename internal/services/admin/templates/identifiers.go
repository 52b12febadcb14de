package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/identpanel/internal/identifiers"
	admini18n "github.com/louisbranch/identpanel/internal/services/admin/i18n"
)

// BlockView is a block snapshot plus the URL its unlink forms post to.
type BlockView struct {
	identifiers.View
	UnlinkURL string
}

// PanelView is one mounted identifier panel.
type PanelView struct {
	// ID is the DOM id HTMX swaps target.
	ID       string
	Title    string
	Subtitle string
	Details  []string
	Blocks   []BlockView
	Notices  []identifiers.Notification
}

// UnlinkRow is one audit entry.
type UnlinkRow struct {
	Kind       string
	Value      string
	OperatorID string
	CreatedAt  string
}

// IdentifierBlock renders one identifier list with its copy and unlink
// controls.
func IdentifierBlock(view BlockView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlBuilder) error {
		b.raw(`<section class="ids-block"`)
		b.attr("data-kind", view.Kind.String())
		if view.Dense {
			b.attr("data-dense", "true")
		}
		if view.CanUnlink {
			b.attr("data-unlink-failed-title", T(loc, identifiers.MsgUnlinkFailedTitle))
			b.attr("data-unlink-no-response", T(loc, identifiers.MsgUnlinkNoResponse))
		}
		b.raw(`><div class="ids-block-header"><h3>`)
		b.text(view.Label)
		b.raw(`</h3><button type="button" class="btn btn-xs copy"`)
		b.attr("data-copy-text", view.CopyText)
		b.attr("data-copied-label", T(loc, identifiers.MsgCopied))
		b.attr("data-copy-failed", T(loc, identifiers.MsgCopyFailed))
		b.attr("data-copy-error-title", T(loc, identifiers.MsgCopyErrorTitle))
		b.attr("data-clipboard-missing", T(loc, identifiers.MsgClipboardMissing))
		b.raw(">")
		if view.Copied {
			b.text(T(loc, identifiers.MsgCopied))
		} else {
			b.text(T(loc, admini18n.KeyLabelCopy))
		}
		b.raw("</button></div>")

		if view.Empty {
			b.raw(`<p class="ids-empty">`)
			b.text(view.EmptyMessage)
			b.raw("</p>")
		}
		if len(view.Rows) == 0 {
			b.raw("</section>")
			return nil
		}

		b.raw(`<ul class="ids-list">`)
		for _, row := range view.Rows {
			class := "ids-row"
			if row.Historical {
				class += " ids-historical"
			}
			if row.Pending {
				class += " ids-pending"
			}
			b.raw("<li")
			b.attr("class", class)
			b.raw("><code>")
			b.text(row.ID)
			b.raw("</code>")
			if row.Historical {
				b.raw(`<span class="badge">`)
				b.text(T(loc, admini18n.KeyLabelHistorical))
				b.raw("</span>")
			}
			if row.Pending {
				b.raw(`<span class="loading loading-ring loading-xs"></span><span class="sr-only">`)
				b.text(T(loc, identifiers.MsgUnlinking))
				b.raw("</span>")
			}
			if row.Interactive && view.UnlinkURL != "" {
				writeUnlinkForm(b, view, row, loc)
			}
			b.raw("</li>")
		}
		b.raw("</ul></section>")
		return nil
	})
}

func writeUnlinkForm(b *htmlBuilder, view BlockView, row identifiers.Row, loc Localizer) {
	b.raw(`<form method="post"`)
	b.attr("action", view.UnlinkURL)
	b.attr("hx-post", view.UnlinkURL)
	b.attr("hx-target", "closest .ids-panel")
	b.attr("hx-swap", "outerHTML")
	b.raw(`><input type="hidden" name="kind"`)
	b.attr("value", view.Kind.String())
	b.raw(`><input type="hidden" name="id"`)
	b.attr("value", row.ID)
	b.raw(`><button type="submit" class="btn btn-xs btn-error"`)
	if view.Busy {
		b.raw(" disabled")
	}
	b.raw(">")
	b.text(T(loc, admini18n.KeyLabelUnlink))
	b.raw("</button></form>")
}

// Notices renders failure notifications as alerts.
func Notices(notes []identifiers.Notification) templ.Component {
	return component(func(_ context.Context, b *htmlBuilder) error {
		if len(notes) == 0 {
			return nil
		}
		b.raw(`<div class="toast-stack" role="alert">`)
		for _, note := range notes {
			b.raw("<div")
			b.attr("class", "alert alert-error")
			b.attr("data-code", string(note.Code))
			b.raw(">")
			if note.Title != "" {
				b.raw("<strong>")
				b.text(note.Title)
				b.raw("</strong> ")
			}
			b.raw("<span>")
			b.text(note.Message)
			b.raw("</span></div>")
		}
		b.raw("</div>")
		return nil
	})
}

// Panel renders a titled group of identifier blocks.
func Panel(view PanelView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		b.raw(`<div class="ids-panel"`)
		if view.ID != "" {
			b.attr("id", view.ID)
		}
		b.raw(">")
		if err := b.child(ctx, Notices(view.Notices)); err != nil {
			return err
		}
		if view.Title != "" {
			b.raw("<h2>")
			b.text(view.Title)
			b.raw("</h2>")
		}
		if view.Subtitle != "" {
			b.raw(`<p class="ids-subtitle">`)
			b.text(view.Subtitle)
			b.raw("</p>")
		}
		for _, detail := range view.Details {
			b.raw(`<p class="ids-detail">`)
			b.text(detail)
			b.raw("</p>")
		}
		for _, block := range view.Blocks {
			if err := b.child(ctx, IdentifierBlock(block, loc)); err != nil {
				return err
			}
		}
		b.raw("</div>")
		return nil
	})
}

// UnlinkHistory renders the audit trail of a player or action.
func UnlinkHistory(rows []UnlinkRow, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlBuilder) error {
		b.raw(`<section class="unlinks"><h3>`)
		b.text(T(loc, admini18n.KeyUnlinksTitle))
		b.raw("</h3>")
		if len(rows) == 0 {
			b.raw(`<p class="ids-empty">`)
			b.text(T(loc, admini18n.KeyUnlinksEmpty))
			b.raw("</p></section>")
			return nil
		}
		b.raw(`<table class="table table-sm"><tbody>`)
		for _, row := range rows {
			b.raw("<tr><td>")
			b.text(row.CreatedAt)
			b.raw("</td><td>")
			b.text(row.Kind)
			b.raw("</td><td><code>")
			b.text(row.Value)
			b.raw("</code></td><td>")
			b.text(row.OperatorID)
			b.raw("</td></tr>")
		}
		b.raw("</tbody></table></section>")
		return nil
	})
}

// UnlinkCountLabel formats the action audit counter.
func UnlinkCountLabel(loc Localizer, count int) string {
	if loc == nil {
		return strconv.Itoa(count)
	}
	return loc.Sprintf(admini18n.KeyActionUnlinks, count)
}
