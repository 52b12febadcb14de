package admin

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandlePlayer returns the identifiers of a player referenced by license or
// by an online mutex/netid pair.
func (h *Handler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.localizer(w, r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "method not allowed"))
		return
	}
	ref, err := identifiers.ParsePlayerRef(r.URL.Query())
	if err != nil {
		writeError(w, r, loc, apperrors.Wrap(apperrors.CodePlayerRefInvalid, "invalid player reference", err))
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	player, err := h.store.GetPlayer(ctx, ref)
	if err != nil {
		writeError(w, r, loc, err)
		return
	}
	writeJSON(w, http.StatusOK, adminapi.PlayerResponse{
		ServerTime: h.now().Unix(),
		Player:     playerDocument(player),
	})
}

// HandleAction returns an action and its unlink audit summary.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.localizer(w, r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "method not allowed"))
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	action, err := h.store.GetAction(ctx, r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, loc, err)
		return
	}
	writeJSON(w, http.StatusOK, adminapi.ActionResponse{
		ServerTime: h.now().Unix(),
		Action:     actionDocument(action),
	})
}

// HandleUnlinks lists the unlink trail of a player or action.
func (h *Handler) HandleUnlinks(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.localizer(w, r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "method not allowed"))
		return
	}
	query := r.URL.Query()
	var scope identifiers.ScopeKind
	switch strings.TrimSpace(query.Get("scope")) {
	case identifiers.ScopePlayer.String():
		scope = identifiers.ScopePlayer
	case identifiers.ScopeAction.String():
		scope = identifiers.ScopeAction
	default:
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "scope must be player or action"))
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	unlinks, err := h.store.ListUnlinks(ctx, scope, query.Get("subject"), unlinkHistoryLimit)
	if err != nil {
		writeError(w, r, loc, err)
		return
	}
	out := adminapi.UnlinksResponse{Unlinks: make([]adminapi.Unlink, 0, len(unlinks))}
	for _, unlink := range unlinks {
		out.Unlinks = append(out.Unlinks, adminapi.Unlink{
			ID:         unlink.ID,
			Scope:      unlink.Scope.String(),
			Subject:    unlink.Subject,
			Kind:       unlink.Kind.String(),
			Value:      unlink.Value,
			OperatorID: unlink.OperatorID,
			CreatedAt:  adminapi.Unix(unlink.CreatedAt),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleAuthSelf reports the signed-in operator and their permissions.
func (h *Handler) HandleAuthSelf(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.localizer(w, r)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "method not allowed"))
		return
	}
	op := operator(r)
	perms := op.Permissions
	if perms == nil {
		perms = []string{}
	}
	writeJSON(w, http.StatusOK, adminapi.SelfResponse{OperatorID: op.ID, Permissions: perms})
}

// HandleUnlink revokes one identifier from a player or action. The subject
// comes from the query string and the identifier from the JSON body.
func (h *Handler) HandleUnlink(w http.ResponseWriter, r *http.Request, scopeKind identifiers.ScopeKind, kind identifiers.Kind) {
	loc, _ := h.localizer(w, r)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "method not allowed"))
		return
	}
	op := operator(r)
	if !op.HasPermission(identifiers.PermissionPlayersBan) {
		writeError(w, r, loc, apperrors.New(apperrors.CodePermissionDenied, "players.ban permission required"))
		return
	}
	if !isJSONRequest(r) {
		writeError(w, r, loc, apperrors.New(apperrors.CodeInvalidRequest, "content type must be application/json"))
		return
	}

	scope, err := unlinkScope(r, scopeKind)
	if err != nil {
		writeError(w, r, loc, err)
		return
	}
	var body adminapi.UnlinkBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUnlinkBodyBytes)).Decode(&body); err != nil {
		writeError(w, r, loc, apperrors.Wrap(apperrors.CodeInvalidRequest, "decode unlink body", err))
		return
	}
	value := strings.TrimSpace(body.ID)
	if value == "" {
		writeError(w, r, loc, apperrors.New(apperrors.CodeIdentifierEmpty, "identifier is required"))
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "admin.api.unlink", trace.WithAttributes(
		attribute.String("identpanel.scope", scopeKind.String()),
		attribute.String("identpanel.kind", kind.String()),
		attribute.String("identpanel.operator", op.ID),
	))
	defer span.End()
	ctx, cancel := storeContextFrom(ctx)
	defer cancel()

	err = unlinkInStore(ctx, h.store, scope, storage.UnlinkInput{
		Kind:       kind,
		Value:      value,
		OperatorID: op.ID,
		At:         h.now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "unlink failed")
		writeError(w, r, loc, err)
		return
	}
	writeJSON(w, http.StatusOK, adminapi.SuccessResponse{Success: true})
}

func unlinkScope(r *http.Request, kind identifiers.ScopeKind) (identifiers.Scope, error) {
	query := r.URL.Query()
	switch kind {
	case identifiers.ScopePlayer:
		ref, err := identifiers.ParsePlayerRef(query)
		if err != nil {
			return identifiers.Scope{}, apperrors.Wrap(apperrors.CodePlayerRefInvalid, "invalid player reference", err)
		}
		return identifiers.PlayerScope(ref), nil
	case identifiers.ScopeAction:
		actionID := strings.TrimSpace(query.Get("actionId"))
		if actionID == "" {
			return identifiers.Scope{}, apperrors.New(apperrors.CodeActionIDEmpty, "actionId is required")
		}
		return identifiers.ActionScope(actionID), nil
	default:
		return identifiers.Scope{}, errors.New("unsupported unlink scope")
	}
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func playerDocument(player storage.Player) adminapi.Player {
	doc := adminapi.Player{
		License:     player.License,
		DisplayName: player.DisplayName,
		IDs:         nonNil(player.IDs),
		OldIDs:      nonNil(player.KnownIDs),
		HWIDs:       nonNil(player.HWIDs),
		OldHWIDs:    nonNil(player.KnownHWIDs),
	}
	if conn := player.LastConnection; conn != nil {
		doc.LastConnection = &adminapi.LastConnection{
			Timestamp: adminapi.Unix(conn.ConnectedAt),
			IDs:       nonNil(conn.IDs),
			HWIDs:     nonNil(conn.HWIDs),
		}
	}
	return doc
}

func actionDocument(action storage.Action) adminapi.Action {
	return adminapi.Action{
		ID:            action.ID,
		Type:          action.Type,
		Reason:        action.Reason,
		Author:        action.Author,
		PlayerLicense: action.PlayerLicense,
		Timestamp:     adminapi.Unix(action.CreatedAt),
		IDs:           nonNil(action.IDs),
		HWIDs:         nonNil(action.HWIDs),
		UnlinkCount:   action.UnlinkCount,
		LastUnlinkBy:  action.LastUnlinkBy,
		LastUnlinkAt:  adminapi.Unix(action.LastUnlinkAt),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
