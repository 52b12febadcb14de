package admin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/services/admin/htmx"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
	"github.com/louisbranch/identpanel/internal/services/admin/templates"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

const (
	playerIDsPanelID      = "player-ids"
	playerLastConnPanelID = "player-last-connection"
	actionIDsPanelID      = "action-ids"
)

// noticeCollector gathers block notifications for the rendered fragment.
type noticeCollector struct {
	notes []identifiers.Notification
}

func (c *noticeCollector) Notify(n identifiers.Notification) {
	c.notes = append(c.notes, n)
}

// operatorError carries a localized message for a store failure while
// keeping the domain error reachable through errors.As.
type operatorError struct {
	message string
	cause   error
}

func (e *operatorError) Error() string { return e.message }

func (e *operatorError) Unwrap() error { return e.cause }

// storeUnlinker applies unlink requests directly to the store on behalf of
// the signed-in operator.
type storeUnlinker struct {
	store      Store
	tracer     trace.Tracer
	loc        *message.Printer
	operatorID string
	now        func() time.Time
}

func (u storeUnlinker) Unlink(ctx context.Context, req identifiers.UnlinkRequest) error {
	ctx, span := u.tracer.Start(ctx, "admin.panel.unlink", trace.WithAttributes(
		attribute.String("identpanel.scope", req.Scope.Kind().String()),
		attribute.String("identpanel.kind", req.Kind.String()),
	))
	defer span.End()

	err := unlinkInStore(ctx, u.store, req.Scope, storage.UnlinkInput{
		Kind:       req.Kind,
		Value:      req.ID,
		OperatorID: u.operatorID,
		At:         u.now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "unlink failed")
		return &operatorError{message: errorMessage(u.loc, err), cause: err}
	}
	return nil
}

// unlinkInStore routes an unlink to the store method of the scope.
func unlinkInStore(ctx context.Context, store Store, scope identifiers.Scope, in storage.UnlinkInput) error {
	switch scope.Kind() {
	case identifiers.ScopePlayer:
		ref, _ := scope.Player()
		return store.UnlinkPlayerIdentifier(ctx, ref, in)
	case identifiers.ScopeAction:
		actionID, _ := scope.ActionID()
		return store.UnlinkActionIdentifier(ctx, actionID, in)
	default:
		return apperrors.New(apperrors.CodeInvalidRequest, "read-only scope cannot be unlinked")
	}
}

func (h *Handler) panelDeps(r *http.Request, loc *message.Printer, notes *noticeCollector, refresh func()) identifiers.Deps {
	op := operator(r)
	deps := identifiers.Deps{
		Unlinker: storeUnlinker{
			store:      h.store,
			tracer:     h.tracer,
			loc:        loc,
			operatorID: op.ID,
			now:        h.now,
		},
		Permissions: op,
		Localizer:   loc,
		Refresh:     refresh,
	}
	if notes != nil {
		deps.Notifier = notes
	}
	return deps
}

// runUnlink drives block.Unlink and returns the response status. Every
// failure ends up as a notification in notes.
func runUnlink(ctx context.Context, block *identifiers.Block, id string, loc *message.Printer, notes *noticeCollector) int {
	res, err := block.Unlink(ctx, id)
	switch {
	case errors.Is(err, identifiers.ErrUnlinkInFlight):
		return http.StatusOK
	case errors.Is(err, identifiers.ErrUnlinkNotPermitted):
		notes.Notify(identifiers.Notification{
			Code:    identifiers.NoticeUnlinkFailed,
			Title:   identifiers.Text(loc, identifiers.MsgUnlinkFailedTitle),
			Message: identifiers.Text(loc, identifiers.MsgUnlinkNotPermitted),
		})
		return http.StatusForbidden
	case errors.Is(err, identifiers.ErrNotCurrent):
		notes.Notify(identifiers.Notification{
			Code:    identifiers.NoticeUnlinkFailed,
			Title:   identifiers.Text(loc, identifiers.MsgUnlinkFailedTitle),
			Message: loc.Sprintf(i18n.ErrorKey(apperrors.CodeIdentifierNotLinked)),
		})
		return http.StatusConflict
	case err != nil:
		log.Printf("admin unlink %q: %v", id, err)
		return http.StatusInternalServerError
	case !res.Succeeded():
		return apperrors.HTTPStatus(res.Err)
	default:
		return http.StatusOK
	}
}

// parseUnlinkForm reads the kind and id fields posted by an unlink form.
func parseUnlinkForm(r *http.Request) (identifiers.Kind, string, error) {
	if err := r.ParseForm(); err != nil {
		return 0, "", apperrors.Wrap(apperrors.CodeInvalidRequest, "parse unlink form", err)
	}
	kind, ok := identifiers.ParseKind(r.PostFormValue("kind"))
	if !ok {
		return 0, "", apperrors.New(apperrors.CodeIdentifierKindBad, "unknown identifier kind")
	}
	id := strings.TrimSpace(r.PostFormValue("id"))
	if id == "" {
		return 0, "", apperrors.New(apperrors.CodeIdentifierEmpty, "identifier is required")
	}
	return kind, id, nil
}

func blockViews(blocks []*identifiers.Block, unlinkURL string) []templates.BlockView {
	views := make([]templates.BlockView, 0, len(blocks))
	for _, block := range blocks {
		view := templates.BlockView{View: block.View()}
		if block.CanUnlink() {
			view.UnlinkURL = unlinkURL
		}
		views = append(views, view)
	}
	return views
}

func (h *Handler) unlinkRows(ctx context.Context, scope identifiers.ScopeKind, subject string) []templates.UnlinkRow {
	unlinks, err := h.store.ListUnlinks(ctx, scope, subject, unlinkHistoryLimit)
	if err != nil {
		log.Printf("admin list unlinks %s %q: %v", scope, subject, err)
		return nil
	}
	rows := make([]templates.UnlinkRow, 0, len(unlinks))
	for _, unlink := range unlinks {
		rows = append(rows, templates.UnlinkRow{
			Kind:       unlink.Kind.String(),
			Value:      unlink.Value,
			OperatorID: unlink.OperatorID,
			CreatedAt:  formatAuditTime(unlink.CreatedAt),
		})
	}
	return rows
}

// fragmentStatus keeps HTMX swaps working: htmx drops non-2xx bodies, and
// the fragment already carries the failure notice.
func fragmentStatus(r *http.Request, status int) int {
	if htmx.IsHTMXRequest(r) {
		return http.StatusOK
	}
	return status
}

func playerInput(player storage.Player) identifiers.PlayerInput {
	return identifiers.PlayerInput{
		Ref:        identifiers.PlayerRef{License: player.License},
		IDs:        player.IDs,
		KnownIDs:   player.KnownIDs,
		HWIDs:      player.HWIDs,
		KnownHWIDs: player.KnownHWIDs,
	}
}

func actionInput(action storage.Action) identifiers.ActionInput {
	return identifiers.ActionInput{
		ActionID: action.ID,
		IDs:      action.IDs,
		HWIDs:    action.HWIDs,
	}
}

// HandlePlayerIDs renders the current and historical identifiers of a player.
func (h *Handler) HandlePlayerIDs(w http.ResponseWriter, r *http.Request, license string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	loc, lang := h.localizer(w, r)
	ctx, cancel := storeContext(r)
	defer cancel()

	player, err := h.store.GetPlayer(ctx, identifiers.PlayerRef{License: license})
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	panel := identifiers.NewPlayerPanel(playerInput(player), h.panelDeps(r, loc, nil, nil))
	h.renderPlayerIDs(w, r, loc, lang, http.StatusOK, player, panel, nil, false)
}

// HandlePlayerIDsUnlink unlinks one identifier from a player and re-renders
// the panel.
func (h *Handler) HandlePlayerIDsUnlink(w http.ResponseWriter, r *http.Request, license string) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, http.MethodPost)
		return
	}
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	kind, id, err := parseUnlinkForm(r)
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()

	player, err := h.store.GetPlayer(ctx, identifiers.PlayerRef{License: license})
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	notes := &noticeCollector{}
	panel := identifiers.NewPlayerPanel(playerInput(player), h.panelDeps(r, loc, notes, nil))
	block := panel.IDs
	if kind == identifiers.KindHardware {
		block = panel.HWIDs
	}
	status := runUnlink(ctx, block, id, loc, notes)
	h.renderPlayerIDs(w, r, loc, lang, fragmentStatus(r, status), player, panel, notes.notes, true)
}

func (h *Handler) renderPlayerIDs(w http.ResponseWriter, r *http.Request, loc *message.Printer, lang string, status int, player storage.Player, panel *identifiers.PlayerPanel, notes []identifiers.Notification, panelOnly bool) {
	panelView := templates.PanelView{
		ID:      playerIDsPanelID,
		Blocks:  blockViews(panel.Blocks(), routepath.PlayerIDsUnlink(player.License)),
		Notices: notes,
	}
	view := templates.PlayerPageView{
		License:     player.License,
		DisplayName: player.DisplayName,
		Tab:         templates.PlayerTabIDs,
		Panel:       panelView,
		Unlinks:     h.unlinkRows(r.Context(), identifiers.ScopePlayer, player.License),
	}
	page := h.pageContext(lang, loc, r)
	var fragment = templates.PlayerContent(view, loc)
	if panelOnly {
		fragment = templates.Panel(panelView, loc)
	}
	title := loc.Sprintf(i18n.KeyPlayerTitle, playerLabel(player))
	htmx.RenderPage(w, r, status, fragment, templates.PlayerFullPage(view, page), title)
}

// HandlePlayerLastConnection renders the read-only last connection snapshot.
func (h *Handler) HandlePlayerLastConnection(w http.ResponseWriter, r *http.Request, license string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	loc, lang := h.localizer(w, r)
	ctx, cancel := storeContext(r)
	defer cancel()

	player, err := h.store.GetPlayer(ctx, identifiers.PlayerRef{License: license})
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	now := h.now()
	in := identifiers.LastConnectionInput{ServerTime: now, FetchedAt: now}
	if conn := player.LastConnection; conn != nil {
		in.Connection = &identifiers.LastConnection{
			Timestamp: conn.ConnectedAt,
			IDs:       conn.IDs,
			HWIDs:     conn.HWIDs,
		}
	}
	panel := identifiers.NewLastConnectionPanel(in, h.panelDeps(r, loc, nil, nil), identifiers.TimestampFormatter{Location: time.UTC})

	panelView := templates.PanelView{
		ID:       playerLastConnPanelID,
		Title:    panel.Title,
		Subtitle: panel.Timestamp,
		Blocks:   blockViews(panel.Blocks(), ""),
	}
	view := templates.PlayerPageView{
		License:     player.License,
		DisplayName: player.DisplayName,
		Tab:         templates.PlayerTabLastConnection,
		Panel:       panelView,
	}
	page := h.pageContext(lang, loc, r)
	title := loc.Sprintf(i18n.KeyPlayerTitle, playerLabel(player))
	htmx.RenderPage(w, r, http.StatusOK, templates.PlayerContent(view, loc), templates.PlayerFullPage(view, page), title)
}

// HandleActionIDs renders the identifiers targeted by an action.
func (h *Handler) HandleActionIDs(w http.ResponseWriter, r *http.Request, actionID string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	loc, lang := h.localizer(w, r)
	ctx, cancel := storeContext(r)
	defer cancel()

	action, err := h.store.GetAction(ctx, actionID)
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	panel := identifiers.NewActionPanel(actionInput(action), h.panelDeps(r, loc, nil, nil))
	h.renderActionIDs(w, r, loc, lang, http.StatusOK, action, panel, nil, false)
}

// HandleActionIDsUnlink unlinks one identifier from an action, refreshes the
// action from the store and re-renders the panel.
func (h *Handler) HandleActionIDsUnlink(w http.ResponseWriter, r *http.Request, actionID string) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, http.MethodPost)
		return
	}
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	kind, id, err := parseUnlinkForm(r)
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()

	action, err := h.store.GetAction(ctx, actionID)
	if err != nil {
		h.renderPageError(w, r, loc, lang, err)
		return
	}
	notes := &noticeCollector{}
	var panel *identifiers.ActionPanel
	refresh := func() {
		refreshed, err := h.store.GetAction(ctx, action.ID)
		if err != nil {
			log.Printf("admin refresh action %q: %v", action.ID, err)
			return
		}
		action = refreshed
		panel.Replace(actionInput(refreshed))
	}
	panel = identifiers.NewActionPanel(actionInput(action), h.panelDeps(r, loc, notes, refresh))
	block := panel.IDs
	if kind == identifiers.KindHardware {
		block = panel.HWIDs
	}
	status := runUnlink(ctx, block, id, loc, notes)
	h.renderActionIDs(w, r, loc, lang, fragmentStatus(r, status), action, panel, notes.notes, true)
}

func (h *Handler) renderActionIDs(w http.ResponseWriter, r *http.Request, loc *message.Printer, lang string, status int, action storage.Action, panel *identifiers.ActionPanel, notes []identifiers.Notification, panelOnly bool) {
	panelView := templates.PanelView{
		ID:      actionIDsPanelID,
		Details: actionDetails(loc, action),
		Blocks:  blockViews(panel.Blocks(), routepath.ActionIDsUnlink(action.ID)),
		Notices: notes,
	}
	view := templates.ActionPageView{
		ActionID: action.ID,
		Panel:    panelView,
		Unlinks:  h.unlinkRows(r.Context(), identifiers.ScopeAction, action.ID),
	}
	page := h.pageContext(lang, loc, r)
	var fragment = templates.ActionContent(view, loc)
	if panelOnly {
		fragment = templates.Panel(panelView, loc)
	}
	htmx.RenderPage(w, r, status, fragment, templates.ActionFullPage(view, page), loc.Sprintf(i18n.KeyActionTitle, action.ID))
}

func actionDetails(loc *message.Printer, action storage.Action) []string {
	author := action.Author
	if author == "" {
		author = loc.Sprintf(i18n.KeyLabelUnknown)
	}
	details := []string{
		loc.Sprintf(i18n.KeyActionSummary, action.Type, author, action.Reason),
		templates.UnlinkCountLabel(loc, action.UnlinkCount),
	}
	if action.LastUnlinkBy != "" {
		details = append(details, loc.Sprintf(i18n.KeyActionLastUnlink, action.LastUnlinkBy, formatAuditTime(action.LastUnlinkAt)))
	}
	return details
}

func playerLabel(player storage.Player) string {
	if player.DisplayName != "" {
		return player.DisplayName
	}
	return player.License
}
