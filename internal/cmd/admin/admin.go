package admin

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/identpanel/internal/platform/cmd"
	"github.com/louisbranch/identpanel/internal/platform/requestctx"
	"github.com/louisbranch/identpanel/internal/services/admin"
	"github.com/louisbranch/identpanel/internal/services/admin/grant"
)

const (
	defaultHTTPAddr         = ":8082"
	defaultLocalOperator    = "local"
	defaultLocalPermissions = "players.ban"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr    string
	HealthAddr  string
	DBPath      string
	FixturePath string
	// LocalOperator and LocalPermissions act on every request when no grant
	// public key is configured.
	LocalOperator    string
	LocalPermissions string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr:         envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_ADDR"}, defaultHTTPAddr),
		HealthAddr:       envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_HEALTH_ADDR"}, ""),
		DBPath:           envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_DB_PATH"}, ""),
		FixturePath:      envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_FIXTURE"}, ""),
		LocalOperator:    envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_LOCAL_OPERATOR"}, defaultLocalOperator),
		LocalPermissions: envOrDefault(lookup, []string{"IDENTPANEL_ADMIN_LOCAL_PERMISSIONS"}, defaultLocalPermissions),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "sqlite database path (default data/admin.db)")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "JSON fixture imported at startup")
	fs.StringVar(&cfg.LocalOperator, "local-operator", cfg.LocalOperator, "operator id used without grants")
	fs.StringVar(&cfg.LocalPermissions, "local-permissions", cfg.LocalPermissions, "comma-separated permissions used without grants")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the admin server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, func(ctx context.Context) error {
		serverCfg, err := serverConfig(cfg)
		if err != nil {
			return err
		}
		server, err := admin.NewServer(ctx, serverCfg)
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}

func serverConfig(cfg Config) (admin.Config, error) {
	out := admin.Config{
		HTTPAddr:    cfg.HTTPAddr,
		GRPCAddr:    cfg.HealthAddr,
		DBPath:      cfg.DBPath,
		FixturePath: cfg.FixturePath,
	}
	grantCfg, ok, err := grant.LoadConfigFromEnv(time.Now)
	if err != nil {
		return admin.Config{}, fmt.Errorf("load grant config: %w", err)
	}
	if ok {
		out.Grant = &grantCfg
		return out, nil
	}
	out.LocalOperator = requestctx.Operator{
		ID:          strings.TrimSpace(cfg.LocalOperator),
		Permissions: splitCSV(cfg.LocalPermissions),
	}
	log.Printf("no grant public key configured; acting as operator %q with %v", out.LocalOperator.ID, out.LocalOperator.Permissions)
	return out, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	output := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		output = append(output, trimmed)
	}
	return output
}

func envOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
