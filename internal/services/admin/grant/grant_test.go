package grant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
)

func newKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return pub, priv
}

func isCode(err error, code apperrors.Code) bool {
	return errors.Is(err, apperrors.New(code, ""))
}

func TestMintAndValidate(t *testing.T) {
	pub, priv := newKeys(t)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	token, err := Mint(priv, MintInput{
		Subject:     "op-1",
		Permissions: []string{"players.ban"},
		TTL:         time.Hour,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	cfg := Config{Issuer: DefaultIssuer, Audience: DefaultAudience, Key: pub, Now: func() time.Time { return now.Add(time.Minute) }}
	claims, err := Validate(token, cfg)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "op-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if !reflect.DeepEqual(claims.Permissions, []string{"players.ban"}) {
		t.Fatalf("permissions = %v", claims.Permissions)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) || !claims.IssuedAt.Equal(now) {
		t.Fatalf("times = %v %v", claims.IssuedAt, claims.ExpiresAt)
	}
	if len(claims.JWTID) == 0 {
		t.Fatal("expected jti")
	}
}

func TestValidateRejections(t *testing.T) {
	pub, priv := newKeys(t)
	otherPub, _ := newKeys(t)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	valid, err := Mint(priv, MintInput{Subject: "op-1", TTL: time.Hour, Now: now})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	expired, err := Mint(priv, MintInput{Subject: "op-1", TTL: time.Minute, Now: now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("mint expired: %v", err)
	}
	wrongAudience, err := Mint(priv, MintInput{Subject: "op-1", Audience: "elsewhere", Now: now})
	if err != nil {
		t.Fatalf("mint audience: %v", err)
	}

	base := Config{Issuer: DefaultIssuer, Audience: DefaultAudience, Key: pub, Now: clock}
	tests := []struct {
		name  string
		token string
		cfg   Config
		code  apperrors.Code
	}{
		{name: "missing", token: " ", cfg: base, code: apperrors.CodeGrantMissing},
		{name: "garbage", token: "not-a-jwt", cfg: base, code: apperrors.CodeGrantInvalid},
		{name: "wrong key", token: valid, cfg: Config{Issuer: DefaultIssuer, Audience: DefaultAudience, Key: otherPub, Now: clock}, code: apperrors.CodeGrantInvalid},
		{name: "wrong issuer", token: valid, cfg: Config{Issuer: "other", Audience: DefaultAudience, Key: pub, Now: clock}, code: apperrors.CodeGrantInvalid},
		{name: "wrong audience", token: wrongAudience, cfg: base, code: apperrors.CodeGrantInvalid},
		{name: "expired", token: expired, cfg: base, code: apperrors.CodeGrantExpired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Validate(tc.token, tc.cfg); !isCode(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}
}

func TestValidateRequiresConfig(t *testing.T) {
	if _, err := Validate("token", Config{}); err == nil {
		t.Fatal("expected error for unconfigured verifier")
	}
}

func TestMintRequiresSubjectAndKey(t *testing.T) {
	_, priv := newKeys(t)
	if _, err := Mint(priv, MintInput{}); err == nil {
		t.Fatal("expected error for empty subject")
	}
	if _, err := Mint(nil, MintInput{Subject: "op"}); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPublicKey, "")
	if _, ok, err := LoadConfigFromEnv(nil); err != nil || ok {
		t.Fatalf("no key: ok=%v err=%v", ok, err)
	}

	pub, _ := newKeys(t)
	t.Setenv(EnvPublicKey, base64.RawStdEncoding.EncodeToString(pub))
	t.Setenv(EnvIssuer, "")
	t.Setenv(EnvAudience, "panel")
	cfg, ok, err := LoadConfigFromEnv(nil)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if cfg.Issuer != DefaultIssuer || cfg.Audience != "panel" || !cfg.Key.Equal(pub) || cfg.Now == nil {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv(EnvPublicKey, "short")
	if _, _, err := LoadConfigFromEnv(nil); err == nil {
		t.Fatal("expected error for bad key")
	}
}

func TestDecodeKeysAcceptPaddedBase64(t *testing.T) {
	pub, priv := newKeys(t)
	gotPub, err := DecodePublicKey(base64.StdEncoding.EncodeToString(pub))
	if err != nil || !gotPub.Equal(pub) {
		t.Fatalf("public key: %v", err)
	}
	gotPriv, err := DecodePrivateKey(base64.RawStdEncoding.EncodeToString(priv))
	if err != nil || !gotPriv.Equal(priv) {
		t.Fatalf("private key: %v", err)
	}
}
