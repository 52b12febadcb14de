package htmx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
)

func text(body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	})
}

func htmxRequest() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/players/abc/ids", nil)
	r.Header.Set(RequestHeaderKey, "true")
	return r
}

func TestIsHTMXRequest(t *testing.T) {
	if IsHTMXRequest(nil) {
		t.Fatal("IsHTMXRequest(nil) = true, want false")
	}
	if !IsHTMXRequest(htmxRequest()) {
		t.Fatal("IsHTMXRequest(request) = false, want true")
	}
}

func TestTitleTag(t *testing.T) {
	if got := TitleTag(`Player <abc>`); got != "<title>Player &lt;abc&gt;</title>" {
		t.Fatalf("TitleTag = %q", got)
	}
	if got := TitleTag("  "); got != "" {
		t.Fatalf("TitleTag blank = %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	full := text(`<html><body><main id="main"><p>content</p></main></body></html>`)
	tests := []struct {
		name     string
		request  *http.Request
		status   int
		fragment templ.Component
		want     string
		wantCode int
	}{
		{
			name:     "full page",
			request:  httptest.NewRequest(http.MethodGet, "/", nil),
			fragment: text("<p>fragment</p>"),
			want:     `<html><body><main id="main"><p>content</p></main></body></html>`,
			wantCode: http.StatusOK,
		},
		{
			name:     "htmx fragment",
			request:  htmxRequest(),
			status:   http.StatusConflict,
			fragment: text("<p>fragment</p>"),
			want:     "<title>Player</title><p>fragment</p>",
			wantCode: http.StatusConflict,
		},
		{
			name:     "htmx extracts main",
			request:  htmxRequest(),
			want:     "<title>Player</title><p>content</p>",
			wantCode: http.StatusOK,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RenderPage(rec, tc.request, tc.status, tc.fragment, full, "Player")
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if got := rec.Body.String(); got != tc.want {
				t.Fatalf("body = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderPageRenderError(t *testing.T) {
	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("boom")
	})
	rec := httptest.NewRecorder()
	RenderPage(rec, httptest.NewRequest(http.MethodGet, "/", nil), 0, nil, broken, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
