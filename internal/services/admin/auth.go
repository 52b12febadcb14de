package admin

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/requestctx"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/grant"
	"github.com/louisbranch/identpanel/internal/services/admin/htmx"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
	"github.com/louisbranch/identpanel/internal/services/admin/templates"
)

// requireAuth wraps next with operator grant verification.
//
// Grants are read from the Authorization bearer header first and the grant
// cookie second. API callers get a JSON error; browsers are sent to the
// sign-in page.
func requireAuth(next http.Handler, cfg grant.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAuthExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := grant.Validate(grantToken(r), cfg)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeUnknown {
				log.Printf("admin grant verification: %v", err)
			}
			if wantsJSON(r) {
				tag, _ := i18n.ResolveTag(r)
				writeError(w, r, i18n.Printer(tag), err)
				return
			}
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}

		ctx := requestctx.WithOperator(r.Context(), requestctx.Operator{
			ID:          claims.Subject,
			Permissions: claims.Permissions,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withOperator installs a fixed operator for dashboards running without
// sign-in.
func withOperator(next http.Handler, op requestctx.Operator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(requestctx.WithOperator(r.Context(), op)))
	})
}

// isAuthExempt returns true for paths that should bypass authentication.
func isAuthExempt(path string) bool {
	return strings.HasPrefix(path, routepath.StaticPrefix) || path == routepath.Login
}

func grantToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(adminapi.GrantCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func wantsJSON(r *http.Request) bool {
	if routepath.IsAPI(r.URL.Path) {
		return true
	}
	if r.Header.Get("Authorization") != "" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func loginURL(next string) string {
	if next == "" || next == routepath.Root {
		return routepath.Login
	}
	return routepath.Login + "?" + url.Values{"next": {next}}.Encode()
}

// safeNext keeps post-login redirects on this host.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return routepath.Root
	}
	return next
}

// handleLogin renders the grant form and stores a valid grant as a cookie.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	page := h.pageContext(lang, loc, r)
	title := loc.Sprintf(i18n.KeyLoginTitle)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		view := templates.LoginView{Next: safeNext(r.URL.Query().Get("next"))}
		htmx.RenderPage(w, r, http.StatusOK, nil, templates.LoginFullPage(view, page), title)
	case http.MethodPost:
		if !requireSameOrigin(w, r, loc) {
			return
		}
		if err := r.ParseForm(); err != nil {
			view := templates.LoginView{Message: errorMessage(loc, apperrors.New(apperrors.CodeInvalidRequest, "parse login form"))}
			htmx.RenderPage(w, r, http.StatusBadRequest, nil, templates.LoginFullPage(view, page), title)
			return
		}
		next := safeNext(r.PostFormValue("next"))
		token := strings.TrimSpace(r.PostFormValue("grant"))
		claims, err := grant.Validate(token, *h.grants)
		if err != nil {
			view := templates.LoginView{Message: errorMessage(loc, err), Next: next}
			htmx.RenderPage(w, r, apperrors.HTTPStatus(err), nil, templates.LoginFullPage(view, page), title)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     adminapi.GrantCookieName,
			Value:    token,
			Path:     "/",
			Expires:  claims.ExpiresAt,
			HttpOnly: true,
			Secure:   isHTTPS(r),
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, next, http.StatusSeeOther)
	default:
		h.methodNotAllowed(w, r, http.MethodGet+", "+http.MethodPost)
	}
}
