package api

import (
	"net/http"

	"github.com/louisbranch/identpanel/internal/identifiers"
	routepath "github.com/louisbranch/identpanel/internal/services/admin/routepath"
)

// Service defines JSON API handlers consumed by this route module.
type Service interface {
	HandlePlayer(w http.ResponseWriter, r *http.Request)
	HandleAction(w http.ResponseWriter, r *http.Request)
	HandleUnlinks(w http.ResponseWriter, r *http.Request)
	HandleAuthSelf(w http.ResponseWriter, r *http.Request)
	HandleUnlink(w http.ResponseWriter, r *http.Request, scope identifiers.ScopeKind, kind identifiers.Kind)
}

// RegisterRoutes wires the JSON API into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.APIPlayer, service.HandlePlayer)
	mux.HandleFunc(routepath.APIAction, service.HandleAction)
	mux.HandleFunc(routepath.APIUnlinks, service.HandleUnlinks)
	mux.HandleFunc(routepath.APIAuthSelf, service.HandleAuthSelf)

	unlinks := []struct {
		path  string
		scope identifiers.ScopeKind
		kind  identifiers.Kind
	}{
		{routepath.APIPlayerUnlinkID, identifiers.ScopePlayer, identifiers.KindAccount},
		{routepath.APIPlayerUnlinkHWID, identifiers.ScopePlayer, identifiers.KindHardware},
		{routepath.APIActionUnlinkID, identifiers.ScopeAction, identifiers.KindAccount},
		{routepath.APIActionUnlinkHWID, identifiers.ScopeAction, identifiers.KindHardware},
	}
	for _, route := range unlinks {
		scope, kind := route.scope, route.kind
		mux.HandleFunc(route.path, func(w http.ResponseWriter, r *http.Request) {
			service.HandleUnlink(w, r, scope, kind)
		})
	}
}
