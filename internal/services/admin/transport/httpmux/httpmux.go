package httpmux

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
)

// MountStatic serves the embedded dashboard assets under the static prefix.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	rootMux.Handle(routepath.StaticPrefix, WithStaticMime(staticHandler))
}

// MountAdminRoutes mounts the dashboard and API under the root path. wrap,
// when set, guards every non-static route.
func MountAdminRoutes(rootMux *http.ServeMux, adminMux http.Handler, wrap func(http.Handler) http.Handler) {
	if rootMux == nil || adminMux == nil {
		return
	}
	handler := adminMux
	if wrap != nil {
		handler = wrap(handler)
	}
	rootMux.Handle(routepath.Root, handler)
}

// WithStaticMime attaches explicit content-type hints for known static assets.
func WithStaticMime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch path := strings.ToLower(r.URL.Path); {
		case strings.HasSuffix(path, ".css"):
			w.Header().Set("Content-Type", "text/css")
		case strings.HasSuffix(path, ".js"):
			w.Header().Set("Content-Type", "application/javascript")
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		next.ServeHTTP(w, r)
	})
}
