// Package console parses console command flags and launches the operator
// console.
package console

import (
	"context"
	"errors"
	"flag"

	"github.com/louisbranch/identpanel/internal/identifiers"
	"github.com/louisbranch/identpanel/internal/platform/config"
	platformcmd "github.com/louisbranch/identpanel/internal/platform/cmd"
	consoleapp "github.com/louisbranch/identpanel/internal/services/console"
)

// Config holds console command configuration.
type Config struct {
	AdminURL   string `env:"IDENTPANEL_CONSOLE_ADMIN_URL" envDefault:"http://localhost:8082"`
	Grant      string `env:"IDENTPANEL_CONSOLE_GRANT"`
	HealthAddr string `env:"IDENTPANEL_CONSOLE_HEALTH_ADDR"`
	Lang       string `env:"IDENTPANEL_CONSOLE_LANG" envDefault:"en"`
	LogFile    string `env:"IDENTPANEL_CONSOLE_LOG_FILE" envDefault:"console.log"`

	License  string
	Mutex    string
	NetID    int
	ActionID string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.AdminURL, "admin-url", cfg.AdminURL, "The admin service base URL")
	fs.StringVar(&cfg.Grant, "grant", cfg.Grant, "The operator grant sent as a bearer token")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "The admin gRPC health address to wait for (empty skips)")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "The console language (en or pt-BR)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "The file receiving console logs")
	fs.StringVar(&cfg.License, "player", "", "The player license to open")
	fs.StringVar(&cfg.Mutex, "mutex", "", "The session mutex of an online player")
	fs.IntVar(&cfg.NetID, "netid", 0, "The session netid of an online player")
	fs.StringVar(&cfg.ActionID, "action", "", "The moderation action id to open")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if cfg.playerRef().Validate() != nil && cfg.ActionID == "" {
		return Config{}, config.UsageError{Err: errors.New("one of -player, -mutex with -netid, or -action is required")}
	}
	return cfg, nil
}

func (c Config) playerRef() identifiers.PlayerRef {
	return identifiers.PlayerRef{License: c.License, Mutex: c.Mutex, NetID: c.NetID}
}

// Run starts the operator console.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceConsole, func(ctx context.Context) error {
		return consoleapp.Run(ctx, consoleapp.Config{
			AdminURL:   cfg.AdminURL,
			Grant:      cfg.Grant,
			HealthAddr: cfg.HealthAddr,
			Lang:       cfg.Lang,
			Player:     cfg.playerRef(),
			ActionID:   cfg.ActionID,
		})
	})
}
