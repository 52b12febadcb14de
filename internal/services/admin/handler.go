package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/requestctx"
	"github.com/louisbranch/identpanel/internal/platform/timeouts"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/grant"
	"github.com/louisbranch/identpanel/internal/services/admin/htmx"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"github.com/louisbranch/identpanel/internal/services/admin/module/api"
	"github.com/louisbranch/identpanel/internal/services/admin/module/panels"
	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
	"github.com/louisbranch/identpanel/internal/services/admin/templates"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

const (
	// tracerName scopes admin spans.
	tracerName = "github.com/louisbranch/identpanel/internal/services/admin"
	// unlinkHistoryLimit caps the audit rows shown next to a panel.
	unlinkHistoryLimit = 20
	// maxUnlinkBodyBytes caps JSON unlink request bodies.
	maxUnlinkBodyBytes = 4 << 10
	// auditTimeLayout formats audit timestamps on pages.
	auditTimeLayout = "2006-01-02 15:04:05"
)

// Store is the storage surface the dashboard reads and mutates.
type Store interface {
	storage.PlayerStore
	storage.ActionStore
	storage.UnlinkAuditStore
}

// Handler routes admin dashboard and API requests.
type Handler struct {
	store  Store
	now    func() time.Time
	tracer trace.Tracer
	// grants verifies operator grants; nil when the dashboard runs without
	// sign-in.
	grants *grant.Config
}

func newHandler(store Store, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:  store,
		now:    now,
		tracer: otel.Tracer(tracerName),
	}
}

// routes wires the HTTP routes for the admin handler.
func (h *Handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(routepath.Root, h.handleHome)
	mux.HandleFunc(routepath.Lookup, h.handleLookup)
	if h.grants != nil {
		mux.HandleFunc(routepath.Login, h.handleLogin)
	}
	panels.RegisterRoutes(mux, h)
	api.RegisterRoutes(mux, h)
	return mux
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) pageContext(lang string, loc *message.Printer, r *http.Request) templates.PageContext {
	page := templates.PageContext{
		Lang:       lang,
		Loc:        loc,
		OperatorID: requestctx.OperatorIDFromContext(r.Context()),
	}
	if r.URL != nil {
		page.CurrentPath = r.URL.Path
		page.CurrentQuery = r.URL.RawQuery
	}
	return page
}

// operator returns the authenticated operator. Without grants configured the
// request carries whatever operator the server middleware installed.
func operator(r *http.Request) requestctx.Operator {
	op, _ := requestctx.OperatorFromContext(r.Context())
	return op
}

// storeContext bounds a request-scoped store call.
func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return storeContextFrom(r.Context())
}

func storeContextFrom(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.StoreQuery)
}

// handleHome renders the lookup page.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	loc, lang := h.localizer(w, r)
	page := h.pageContext(lang, loc, r)
	view := templates.HomeView{Message: strings.TrimSpace(r.URL.Query().Get("message"))}
	htmx.RenderPage(w, r, http.StatusOK, nil, templates.HomeFullPage(view, page), loc.Sprintf(i18n.KeyHomeTitle))
}

// handleLookup redirects the lookup form to the matching panel.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	query := r.URL.Query()
	if license := strings.TrimSpace(query.Get("license")); license != "" {
		http.Redirect(w, r, routepath.PlayerIDs(license), http.StatusSeeOther)
		return
	}
	if actionID := strings.TrimSpace(query.Get("action")); actionID != "" {
		http.Redirect(w, r, routepath.ActionIDs(actionID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
}

// renderPageError renders the lookup page with a localized error message.
func (h *Handler) renderPageError(w http.ResponseWriter, r *http.Request, loc *message.Printer, lang string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("admin %s %s: %v", r.Method, r.URL.Path, err)
	}
	page := h.pageContext(lang, loc, r)
	view := templates.HomeView{Message: errorMessage(loc, err)}
	htmx.RenderPage(w, r, status, nil, templates.HomeFullPage(view, page), loc.Sprintf(i18n.KeyHomeTitle))
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	loc, _ := h.localizer(w, r)
	w.Header().Set("Allow", allow)
	http.Error(w, loc.Sprintf(i18n.KeyErrorMethod), http.StatusMethodNotAllowed)
}

// errorMessage returns the localized operator-facing text for err.
func errorMessage(loc *message.Printer, err error) string {
	return loc.Sprintf(i18n.ErrorKey(apperrors.CodeOf(err)))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("admin encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, loc *message.Printer, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("admin %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, adminapi.ErrorResponse{Error: adminapi.ErrorDetail{
		Code:    string(code),
		Message: errorMessage(loc, err),
	}})
}

func requireSameOrigin(w http.ResponseWriter, r *http.Request, loc *message.Printer) bool {
	if r == nil {
		http.Error(w, loc.Sprintf(i18n.KeyErrorCSRF), http.StatusForbidden)
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		if !sameOrigin(origin, r) {
			http.Error(w, loc.Sprintf(i18n.KeyErrorCSRF), http.StatusForbidden)
			return false
		}
		return true
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		if !sameOrigin(referer, r) {
			http.Error(w, loc.Sprintf(i18n.KeyErrorCSRF), http.StatusForbidden)
			return false
		}
		return true
	}
	http.Error(w, loc.Sprintf(i18n.KeyErrorCSRF), http.StatusForbidden)
	return false
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	if !strings.EqualFold(parsed.Host, r.Host) {
		return false
	}
	if parsed.Scheme != "" {
		return strings.EqualFold(parsed.Scheme, requestScheme(r))
	}
	return true
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return "http"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		parts := strings.Split(proto, ",")
		return strings.ToLower(strings.TrimSpace(parts[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func isHTTPS(r *http.Request) bool {
	return requestScheme(r) == "https"
}

func formatAuditTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(auditTimeLayout)
}
