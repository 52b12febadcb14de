// Package grant verifies and mints operator grants: EdDSA-signed JWTs that
// carry the operator id and the permissions the dashboard checks.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/identpanel/internal/platform/config"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/id"
)

const (
	// DefaultIssuer is the issuer written by the operator-grant tool.
	DefaultIssuer = "identpanel-operator-grant"
	// DefaultAudience is the audience the admin service expects.
	DefaultAudience = "identpanel-admin"
	// DefaultTTL is the grant lifetime when none is requested.
	DefaultTTL = 12 * time.Hour
)

// Env variable names read by LoadConfigFromEnv and the operator-grant tool.
const (
	EnvIssuer     = config.EnvPrefix + "GRANT_ISSUER"
	EnvAudience   = config.EnvPrefix + "GRANT_AUDIENCE"
	EnvPublicKey  = config.EnvPrefix + "GRANT_PUBLIC_KEY"
	EnvPrivateKey = config.EnvPrefix + "GRANT_PRIVATE_KEY"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"GRANT_ISSUER" envDefault:"identpanel-operator-grant"`
	Audience  string `env:"GRANT_AUDIENCE" envDefault:"identpanel-admin"`
	PublicKey string `env:"GRANT_PUBLIC_KEY"`
}

// Config defines how grants are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims captures validated grant claims.
type Claims struct {
	Subject     string
	Permissions []string
	Issuer      string
	Audience    []string
	ExpiresAt   time.Time
	IssuedAt    time.Time
	JWTID       string
}

// operatorClaims is the internal claims type used for JWT parsing.
type operatorClaims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"perms"`
}

// LoadConfigFromEnv reads grant verification configuration. It returns
// ok=false when no public key is configured, which leaves the dashboard
// unauthenticated.
func LoadConfigFromEnv(now func() time.Time) (Config, bool, error) {
	var raw grantEnv
	if err := config.ParseEnvPrefixed(&raw); err != nil {
		return Config{}, false, fmt.Errorf("parse grant env: %w", err)
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		return Config{}, false, nil
	}
	key, err := DecodePublicKey(publicKey)
	if err != nil {
		return Config{}, false, err
	}
	if now == nil {
		now = time.Now
	}
	cfg := Config{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      key,
		Now:      now,
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	return cfg, true, nil
}

// Validate verifies token and returns its claims.
func Validate(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeGrantMissing, "operator grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("grant verifier is not configured")
	}

	var parsed operatorClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeGrantInvalid,
			"operator grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !slices.Contains([]string(parsed.Audience), cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeGrantInvalid,
			"operator grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant sub is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant exp is required")
	}
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(cfg.Now().UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeGrantExpired, "operator grant is expired")
	}

	claims := Claims{
		Subject:     parsed.Subject,
		Permissions: parsed.Permissions,
		Issuer:      parsed.Issuer,
		Audience:    []string(parsed.Audience),
		ExpiresAt:   exp,
		JWTID:       parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// MintInput describes a grant to sign.
type MintInput struct {
	Subject     string
	Permissions []string
	Issuer      string
	Audience    string
	TTL         time.Duration
	Now         time.Time
}

// Mint signs a grant with key.
func Mint(key ed25519.PrivateKey, in MintInput) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return "", errors.New("grant subject is required")
	}
	if in.Issuer == "" {
		in.Issuer = DefaultIssuer
	}
	if in.Audience == "" {
		in.Audience = DefaultAudience
	}
	if in.TTL <= 0 {
		in.TTL = DefaultTTL
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	jti, err := id.NewID()
	if err != nil {
		return "", err
	}

	claims := operatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    in.Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{in.Audience},
			ExpiresAt: jwt.NewNumericDate(in.Now.Add(in.TTL)),
			IssuedAt:  jwt.NewNumericDate(in.Now),
			ID:        jti,
		},
		Permissions: in.Permissions,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign operator grant: %w", err)
	}
	return signed, nil
}

// DecodePublicKey parses a base64 ed25519 public key.
func DecodePublicKey(value string) (ed25519.PublicKey, error) {
	keyBytes, err := decodeBase64(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("decode grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(keyBytes), nil
}

// DecodePrivateKey parses a base64 ed25519 private key.
func DecodePrivateKey(value string) (ed25519.PrivateKey, error) {
	keyBytes, err := decodeBase64(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("decode grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(keyBytes), nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.Wrap(apperrors.CodeGrantInvalid, "operator grant signature is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.Wrap(apperrors.CodeGrantInvalid, "operator grant alg is invalid", err)
	}
	return apperrors.Wrap(apperrors.CodeGrantInvalid, "operator grant is invalid", err)
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
