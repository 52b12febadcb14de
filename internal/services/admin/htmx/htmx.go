// Package htmx renders admin pages either as full documents or as the
// fragments HTMX swaps into the current page.
package htmx

import (
	"bytes"
	"context"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// RequestHeaderKey is the HTMX request header used to detect partial updates.
const RequestHeaderKey = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// RenderPage writes fragment for HTMX requests and full otherwise. When
// fragment is nil the contents of full's <main> element are sent to HTMX
// instead. HTMX responses are prefixed with a title tag when they carry none.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, fragment templ.Component, full templ.Component, title string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}

	var body bytes.Buffer
	htmxRequest := IsHTMXRequest(r)
	target := full
	if htmxRequest && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}
	if err := target.Render(ctx, &body); err != nil {
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}

	out := body.Bytes()
	if htmxRequest {
		if fragment == nil {
			if mainContent, ok := extractMainContent(out); ok {
				out = mainContent
			}
		}
		out = addTitleIfMissing(out, TitleTag(title))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func addTitleIfMissing(body []byte, titleTag string) []byte {
	if titleTag == "" || bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return body
	}
	return append([]byte(titleTag), body...)
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.Index(body[start:], []byte(">"))
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.Index(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
