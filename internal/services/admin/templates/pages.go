package templates

import (
	"context"

	"github.com/a-h/templ"
	admini18n "github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
)

// PlayerTab selects the player page panel.
type PlayerTab string

const (
	PlayerTabIDs            PlayerTab = "ids"
	PlayerTabLastConnection PlayerTab = "last-connection"
)

// HomeView drives the lookup page.
type HomeView struct {
	Message string
	License string
	Action  string
}

// PlayerPageView drives the player identifier pages.
type PlayerPageView struct {
	License     string
	DisplayName string
	Tab         PlayerTab
	Panel       PanelView
	Unlinks     []UnlinkRow
}

// ActionPageView drives the action identifier page.
type ActionPageView struct {
	ActionID string
	Panel    PanelView
	Unlinks  []UnlinkRow
}

// HomePage renders the lookup form.
func HomePage(view HomeView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		b.raw(`<section class="lookup"><h1>`)
		b.text(T(loc, admini18n.KeyHomeTitle))
		b.raw("</h1>")
		if err := b.child(ctx, Message(view.Message)); err != nil {
			return err
		}
		b.raw(`<form method="get"`)
		b.attr("action", routepath.Lookup)
		b.raw(`><label>`)
		b.text(T(loc, admini18n.KeyHomePlayerLabel))
		b.raw(`<input type="text" name="license" class="input"`)
		b.attr("value", view.License)
		b.raw(`></label><label>`)
		b.text(T(loc, admini18n.KeyHomeActionLabel))
		b.raw(`<input type="text" name="action" class="input"`)
		b.attr("value", view.Action)
		b.raw(`></label><button type="submit" class="btn btn-primary">`)
		b.text(T(loc, admini18n.KeyHomeOpen))
		b.raw("</button></form></section>")
		return nil
	})
}

// HomeFullPage wraps HomePage in the layout.
func HomeFullPage(view HomeView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, admini18n.KeyHomeTitle), HomePage(view, page.Loc))
}

// PlayerContent renders the player header, tabs and the selected panel.
func PlayerContent(view PlayerPageView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		b.raw(`<section class="player"><h1>`)
		b.text(T(loc, admini18n.KeyPlayerTitle, playerName(view)))
		b.raw(`</h1><p class="player-license"><code>`)
		b.text(view.License)
		b.raw(`</code></p><div role="tablist" class="tabs tabs-bordered">`)
		writeTab(b, routepath.PlayerIDs(view.License), T(loc, admini18n.KeyPlayerTabIDs), view.Tab == PlayerTabIDs)
		writeTab(b, routepath.PlayerLastConnection(view.License), T(loc, admini18n.KeyPlayerTabLast), view.Tab == PlayerTabLastConnection)
		b.raw("</div>")
		if err := b.child(ctx, Panel(view.Panel, loc)); err != nil {
			return err
		}
		if view.Tab == PlayerTabIDs {
			if err := b.child(ctx, UnlinkHistory(view.Unlinks, loc)); err != nil {
				return err
			}
		}
		b.raw("</section>")
		return nil
	})
}

// PlayerFullPage wraps PlayerContent in the layout.
func PlayerFullPage(view PlayerPageView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, admini18n.KeyPlayerTitle, playerName(view)), PlayerContent(view, page.Loc))
}

// ActionContent renders the action header and identifier panel.
func ActionContent(view ActionPageView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		b.raw(`<section class="action"><h1>`)
		b.text(T(loc, admini18n.KeyActionTitle, view.ActionID))
		b.raw("</h1>")
		if err := b.child(ctx, Panel(view.Panel, loc)); err != nil {
			return err
		}
		if err := b.child(ctx, UnlinkHistory(view.Unlinks, loc)); err != nil {
			return err
		}
		b.raw("</section>")
		return nil
	})
}

// ActionFullPage wraps ActionContent in the layout.
func ActionFullPage(view ActionPageView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, admini18n.KeyActionTitle, view.ActionID), ActionContent(view, page.Loc))
}

func playerName(view PlayerPageView) string {
	if view.DisplayName != "" {
		return view.DisplayName
	}
	return view.License
}

func writeTab(b *htmlBuilder, href string, label string, active bool) {
	class := "tab"
	if active {
		class += " tab-active"
	}
	b.raw(`<a role="tab"`)
	b.attr("class", class)
	b.attr("href", href)
	b.attr("hx-get", href)
	b.attr("hx-target", "#main")
	b.attr("hx-push-url", "true")
	if active {
		b.attr("aria-selected", "true")
	}
	b.raw(">")
	b.text(label)
	b.raw("</a>")
}

// LoginView drives the grant sign-in page.
type LoginView struct {
	Message string
	Next    string
}

// LoginPage renders the grant form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlBuilder) error {
		b.raw(`<section class="lookup"><h1>`)
		b.text(T(loc, admini18n.KeyLoginTitle))
		b.raw("</h1>")
		if err := b.child(ctx, Message(view.Message)); err != nil {
			return err
		}
		b.raw(`<form method="post"`)
		b.attr("action", routepath.Login)
		b.raw(`><input type="hidden" name="next"`)
		b.attr("value", view.Next)
		b.raw(`><label>`)
		b.text(T(loc, admini18n.KeyLoginGrantLabel))
		b.raw(`<textarea name="grant" class="textarea" rows="4" required></textarea></label><button type="submit" class="btn btn-primary">`)
		b.text(T(loc, admini18n.KeyLoginSubmit))
		b.raw("</button></form></section>")
		return nil
	})
}

// LoginFullPage wraps LoginPage in the layout.
func LoginFullPage(view LoginView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, admini18n.KeyLoginTitle), LoginPage(view, page.Loc))
}
