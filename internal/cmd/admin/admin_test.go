package admin

import (
	"flag"
	"reflect"
	"testing"

	"github.com/louisbranch/identpanel/internal/services/admin/grant"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.HealthAddr != "" {
		t.Fatalf("expected health disabled, got %q", cfg.HealthAddr)
	}
	if cfg.LocalOperator != defaultLocalOperator || cfg.LocalPermissions != defaultLocalPermissions {
		t.Fatalf("expected default local operator, got %q %q", cfg.LocalOperator, cfg.LocalPermissions)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		switch key {
		case "IDENTPANEL_ADMIN_ADDR":
			return "env-admin", true
		case "IDENTPANEL_ADMIN_HEALTH_ADDR":
			return "env-health", true
		case "IDENTPANEL_ADMIN_DB_PATH":
			return "env.db", true
		case "IDENTPANEL_ADMIN_FIXTURE":
			return "env.json", true
		default:
			return "", false
		}
	}
	args := []string{"-http-addr", "flag-admin", "-fixture", "flag.json", "-local-permissions", "players.ban,players.warn"}
	cfg, err := ParseConfig(fs, args, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-admin" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.HealthAddr != "env-health" {
		t.Fatalf("expected env health addr, got %q", cfg.HealthAddr)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.FixturePath != "flag.json" {
		t.Fatalf("expected flag fixture, got %q", cfg.FixturePath)
	}
	if cfg.LocalPermissions != "players.ban,players.warn" {
		t.Fatalf("expected flag permissions, got %q", cfg.LocalPermissions)
	}
}

func TestServerConfigWithoutGrantKey(t *testing.T) {
	t.Setenv(grant.EnvPublicKey, "")

	out, err := serverConfig(Config{
		HTTPAddr:         ":0",
		LocalOperator:    " local ",
		LocalPermissions: "players.ban, ,players.warn",
	})
	if err != nil {
		t.Fatalf("server config: %v", err)
	}
	if out.Grant != nil {
		t.Fatal("expected no grant config")
	}
	if out.LocalOperator.ID != "local" {
		t.Fatalf("operator id = %q", out.LocalOperator.ID)
	}
	if want := []string{"players.ban", "players.warn"}; !reflect.DeepEqual(out.LocalOperator.Permissions, want) {
		t.Fatalf("permissions = %v, want %v", out.LocalOperator.Permissions, want)
	}
}

func TestServerConfigRejectsBadGrantKey(t *testing.T) {
	t.Setenv(grant.EnvPublicKey, "not-a-key")

	if _, err := serverConfig(Config{HTTPAddr: ":0"}); err == nil {
		t.Fatal("expected error for invalid grant key")
	}
}
