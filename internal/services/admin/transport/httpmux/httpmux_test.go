package httpmux

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/louisbranch/identpanel/internal/services/admin/static"
)

func TestMountStaticServesAssets(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	staticFS := fstest.MapFS{
		"identpanel.css": &fstest.MapFile{Data: []byte("body{}")},
	}
	MountStatic(rootMux, staticFS)

	req := httptest.NewRequest(http.MethodGet, "/static/identpanel.css", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/css" {
		t.Fatalf("content type = %q", got)
	}
}

func TestEmbeddedAssetsExist(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"identpanel.css", "identpanel.js"} {
		if _, err := fs.Stat(static.FS, name); err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
	}
}

func TestMountAdminRoutesWrapsHandler(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/players/abc/ids", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ids"))
	})
	wrapped := false
	wrap := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped = true
			next.ServeHTTP(w, r)
		})
	}

	MountAdminRoutes(rootMux, adminMux, wrap)

	req := httptest.NewRequest(http.MethodGet, "/players/abc/ids", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != "ids" {
		t.Fatalf("body = %q, want %q", body, "ids")
	}
	if !wrapped {
		t.Fatal("expected wrap to run")
	}
}

func TestMountNoopsOnNilInputs(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	MountStatic(nil, fstest.MapFS{})
	MountStatic(rootMux, fs.FS(nil))
	MountAdminRoutes(nil, http.NewServeMux(), nil)
	MountAdminRoutes(rootMux, nil, nil)
}
