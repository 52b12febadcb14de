package panels

import (
	"net/http"
	"strings"

	sharedpath "github.com/louisbranch/identpanel/internal/services/admin/module/sharedpath"
	routepath "github.com/louisbranch/identpanel/internal/services/admin/routepath"
)

// Service defines identifier panel page handlers consumed by this route module.
type Service interface {
	HandlePlayerIDs(w http.ResponseWriter, r *http.Request, license string)
	HandlePlayerIDsUnlink(w http.ResponseWriter, r *http.Request, license string)
	HandlePlayerLastConnection(w http.ResponseWriter, r *http.Request, license string)
	HandleActionIDs(w http.ResponseWriter, r *http.Request, actionID string)
	HandleActionIDsUnlink(w http.ResponseWriter, r *http.Request, actionID string)
}

// RegisterRoutes wires player and action panel routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.PlayersPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandlePlayerPath(w, r, service)
	})
	mux.HandleFunc(routepath.ActionsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleActionPath(w, r, service)
	})
}

// HandlePlayerPath parses /players/{license}/... and dispatches to service handlers.
func HandlePlayerPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedpath.RedirectTrailingSlash(w, r) {
		return
	}

	parts := sharedpath.SplitPathParts(strings.TrimPrefix(r.URL.Path, routepath.PlayersPrefix))
	switch {
	case len(parts) == 1:
		http.Redirect(w, r, routepath.PlayerIDs(parts[0]), http.StatusFound)
	case len(parts) == 2 && parts[1] == "ids":
		service.HandlePlayerIDs(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "last-connection":
		service.HandlePlayerLastConnection(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "ids" && parts[2] == "unlink":
		service.HandlePlayerIDsUnlink(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// HandleActionPath parses /actions/{id}/... and dispatches to service handlers.
func HandleActionPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedpath.RedirectTrailingSlash(w, r) {
		return
	}

	parts := sharedpath.SplitPathParts(strings.TrimPrefix(r.URL.Path, routepath.ActionsPrefix))
	switch {
	case len(parts) == 1:
		http.Redirect(w, r, routepath.ActionIDs(parts[0]), http.StatusFound)
	case len(parts) == 2 && parts[1] == "ids":
		service.HandleActionIDs(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "ids" && parts[2] == "unlink":
		service.HandleActionIDsUnlink(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
