package admin

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/requestctx"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/grant"
)

func newGrantConfig(t *testing.T) (grant.Config, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return grant.Config{
		Issuer:   grant.DefaultIssuer,
		Audience: grant.DefaultAudience,
		Key:      pub,
		Now:      func() time.Time { return testNow },
	}, priv
}

func mintGrant(t *testing.T, key ed25519.PrivateKey, ttl time.Duration, perms ...string) string {
	t.Helper()
	token, err := grant.Mint(key, grant.MintInput{
		Subject:     "op-7",
		Permissions: perms,
		TTL:         ttl,
		Now:         testNow.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("mint grant: %v", err)
	}
	return token
}

func operatorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := requestctx.OperatorFromContext(r.Context())
		if !ok {
			http.Error(w, "no operator", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(op.ID + " " + strings.Join(op.Permissions, ",")))
	})
}

func TestRequireAuthAcceptsGrant(t *testing.T) {
	cfg, key := newGrantConfig(t)
	token := mintGrant(t, key, time.Hour, "players.ban")
	handler := requireAuth(operatorEcho(), cfg)

	tests := []struct {
		name  string
		apply func(*http.Request)
	}{
		{name: "bearer header", apply: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }},
		{name: "cookie", apply: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: adminapi.GrantCookieName, Value: token}) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/players/license:abc/ids", nil)
			tc.apply(req)
			rec := serve(t, handler, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if got := rec.Body.String(); got != "op-7 players.ban" {
				t.Fatalf("operator = %q", got)
			}
		})
	}
}

func TestRequireAuthRejectsMissingGrant(t *testing.T) {
	cfg, key := newGrantConfig(t)
	expired := mintGrant(t, key, time.Second)
	handler := requireAuth(operatorEcho(), cfg)

	tests := []struct {
		name     string
		path     string
		header   map[string]string
		wantCode int
		wantLoc  string
		wantErr  apperrors.Code
	}{
		{
			name:     "page redirects to login",
			path:     "/players/license:abc/ids",
			wantCode: http.StatusFound,
			wantLoc:  "/login?" + url.Values{"next": {"/players/license:abc/ids"}}.Encode(),
		},
		{
			name:     "root redirects without next",
			path:     "/",
			wantCode: http.StatusFound,
			wantLoc:  "/login",
		},
		{
			name:     "api gets json",
			path:     "/player?license=license:abc",
			wantCode: http.StatusUnauthorized,
			wantErr:  apperrors.CodeGrantMissing,
		},
		{
			name:     "expired bearer",
			path:     "/players/license:abc/ids",
			header:   map[string]string{"Authorization": "Bearer " + expired},
			wantCode: http.StatusUnauthorized,
			wantErr:  apperrors.CodeGrantExpired,
		},
		{
			name:     "garbage with json accept",
			path:     "/actions/A1/ids",
			header:   map[string]string{"Authorization": "Bearer nope", "Accept": "application/json"},
			wantCode: http.StatusUnauthorized,
			wantErr:  apperrors.CodeGrantInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for key, value := range tc.header {
				req.Header.Set(key, value)
			}
			rec := serve(t, handler, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantLoc != "" && rec.Header().Get("Location") != tc.wantLoc {
				t.Fatalf("location = %q, want %q", rec.Header().Get("Location"), tc.wantLoc)
			}
			if tc.wantErr != "" {
				if got := decodeError(t, rec); got.Code != string(tc.wantErr) {
					t.Fatalf("code = %q, want %q", got.Code, tc.wantErr)
				}
			}
		})
	}
}

func TestRequireAuthExemptPaths(t *testing.T) {
	cfg, _ := newGrantConfig(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := requireAuth(next, cfg)

	for _, path := range []string{"/static/identpanel.css", "/login"} {
		rec := serve(t, handler, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d, want %d", path, rec.Code, http.StatusNoContent)
		}
	}
}

func TestWithOperator(t *testing.T) {
	handler := withOperator(operatorEcho(), requestctx.Operator{ID: "local", Permissions: []string{"all_permissions"}})

	rec := serve(t, handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Body.String(); got != "local all_permissions" {
		t.Fatalf("operator = %q", got)
	}
}

func TestHandleLogin(t *testing.T) {
	cfg, key := newGrantConfig(t)
	token := mintGrant(t, key, time.Hour, "players.ban")

	h := newHandler(newFakeStore(), func() time.Time { return testNow })
	h.grants = &cfg
	handler := requireAuth(h.routes(), cfg)

	t.Run("form", func(t *testing.T) {
		rec := serve(t, handler, httptest.NewRequest(http.MethodGet, "/login?next=/actions/A1B2-C3D4/ids", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `name="grant"`) || !strings.Contains(body, `value="/actions/A1B2-C3D4/ids"`) {
			t.Fatalf("login form missing fields: %s", body)
		}
	})

	t.Run("valid grant sets cookie", func(t *testing.T) {
		form := url.Values{"grant": {token}, "next": {"/actions/A1B2-C3D4/ids"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", "http://example.com")
		rec := serve(t, handler, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if rec.Header().Get("Location") != "/actions/A1B2-C3D4/ids" {
			t.Fatalf("location = %q", rec.Header().Get("Location"))
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != adminapi.GrantCookieName || cookies[0].Value != token || !cookies[0].HttpOnly {
			t.Fatalf("cookies = %+v", cookies)
		}

		follow := httptest.NewRequest(http.MethodGet, "/actions/A1B2-C3D4/ids", nil)
		follow.AddCookie(cookies[0])
		if rec := serve(t, handler, follow); rec.Code != http.StatusOK {
			t.Fatalf("follow-up status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("invalid grant", func(t *testing.T) {
		form := url.Values{"grant": {"nope"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", "http://example.com")
		rec := serve(t, handler, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if !strings.Contains(rec.Body.String(), "The operator grant is invalid.") {
			t.Fatalf("body missing error: %s", rec.Body.String())
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatal("unexpected cookie")
		}
	})
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/players/abc/ids", want: "/players/abc/ids"},
		{in: "", want: "/"},
		{in: "https://evil.example", want: "/"},
		{in: "//evil.example", want: "/"},
		{in: `/\evil.example`, want: "/"},
	}

	for _, tc := range tests {
		if got := safeNext(tc.in); got != tc.want {
			t.Fatalf("safeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
