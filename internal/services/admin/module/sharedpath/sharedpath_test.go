package sharedpath

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestSplitPathParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "empty path", path: "", want: []string{}},
		{name: "single segment", path: "abc", want: []string{"abc"}},
		{name: "multiple segments", path: "abc/ids/unlink", want: []string{"abc", "ids", "unlink"}},
		{name: "blank segments dropped", path: "/abc// ids/", want: []string{"abc", "ids"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitPathParts(tc.path); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitPathParts(%q) = %#v, want %#v", tc.path, got, tc.want)
			}
		})
	}
}

func TestRedirectTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		wantOK   bool
		wantCode int
		wantLoc  string
	}{
		{name: "canonical", target: "/players/abc/ids", wantCode: http.StatusOK},
		{name: "trailing slash", target: "/players/abc/ids/", wantOK: true, wantCode: http.StatusMovedPermanently, wantLoc: "/players/abc/ids"},
		{name: "keeps query", target: "/actions/A1/ids/?lang=pt-BR", wantOK: true, wantCode: http.StatusMovedPermanently, wantLoc: "/actions/A1/ids?lang=pt-BR"},
		{name: "root", target: "/", wantCode: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			if got := RedirectTrailingSlash(rec, req); got != tc.wantOK {
				t.Fatalf("RedirectTrailingSlash = %v, want %v", got, tc.wantOK)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantOK {
				if loc := rec.Header().Get("Location"); loc != tc.wantLoc {
					t.Fatalf("location = %q, want %q", loc, tc.wantLoc)
				}
			}
		})
	}
}
