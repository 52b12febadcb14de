// Package console implements the terminal operator console for identifier
// panels. It talks to the admin service over its JSON API.
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/louisbranch/identpanel/internal/identifiers"
	platformgrpc "github.com/louisbranch/identpanel/internal/platform/grpc"
	"github.com/louisbranch/identpanel/internal/platform/timeouts"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"github.com/louisbranch/identpanel/internal/services/console/adminclient"
)

// Config configures a console session.
type Config struct {
	AdminURL   string
	Grant      string
	HealthAddr string
	Lang       string
	Player     identifiers.PlayerRef
	ActionID   string
}

// Run starts the console and blocks until the operator quits or ctx ends.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	if cfg.Player.Validate() != nil && strings.TrimSpace(cfg.ActionID) == "" {
		return errors.New("a player reference or an action id is required")
	}

	if cfg.HealthAddr != "" {
		conn, err := platformgrpc.DialWithHealth(ctx, cfg.HealthAddr, platformgrpc.AdminHealthService, timeouts.GRPCDial, log.Printf)
		if err != nil {
			return fmt.Errorf("wait for admin: %w", err)
		}
		if err := conn.Close(); err != nil {
			log.Printf("close admin health conn: %v", err)
		}
	}

	tag := i18n.NormalizeTag(cfg.Lang)
	client, err := adminclient.New(cfg.AdminURL, adminclient.Options{Grant: cfg.Grant, Lang: tag.String()})
	if err != nil {
		return err
	}

	selfCtx, cancel := context.WithTimeout(ctx, timeouts.AdminRequest)
	self, err := client.Self(selfCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("load operator: %w", err)
	}
	log.Printf("console operator %s permissions=%v", self.OperatorID, self.Permissions)

	model, err := NewModel(ctx, Options{
		API:         client,
		Clipboard:   NewSystemClipboard(),
		Permissions: identifiers.PermissionSet(self.Permissions),
		Localizer:   i18n.Printer(tag),
		Player:      cfg.Player,
		ActionID:    cfg.ActionID,
	})
	if err != nil {
		return err
	}

	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, options...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
