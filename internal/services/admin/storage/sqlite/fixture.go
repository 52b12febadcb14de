package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/identpanel/internal/identifiers"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
)

// ImportFixture creates the players and actions of fixture that do not
// exist yet. Existing records are never touched, so re-importing the same
// file after unlinks does not restore revoked identifiers.
func (s *Store) ImportFixture(ctx context.Context, fixture storage.Fixture) (storage.ImportResult, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ImportResult{}, err
	}
	if err := fixture.Validate(); err != nil {
		return storage.ImportResult{}, err
	}

	var result storage.ImportResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, player := range fixture.Players {
			created, err := s.importPlayer(ctx, tx, player)
			if err != nil {
				return err
			}
			if created {
				result.Players++
			}
		}
		for _, action := range fixture.Actions {
			created, err := s.importAction(ctx, tx, action)
			if err != nil {
				return err
			}
			if created {
				result.Actions++
			}
		}
		return nil
	})
	if err != nil {
		return storage.ImportResult{}, err
	}
	return result, nil
}

func (s *Store) importPlayer(ctx context.Context, tx *sql.Tx, player storage.FixturePlayer) (bool, error) {
	license := strings.TrimSpace(player.License)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO players (license, display_name, created_at) VALUES (?, ?, ?) ON CONFLICT(license) DO NOTHING",
		license, player.DisplayName, formatTime(s.now()),
	)
	if err != nil {
		return false, fmt.Errorf("import player %s: %w", license, err)
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		return false, err
	}

	// Current ids first: the old-id inserts below are ignored for values
	// that are already active.
	groups := []struct {
		kind   identifiers.Kind
		values []string
		active bool
	}{
		{kind: identifiers.KindAccount, values: player.IDs, active: true},
		{kind: identifiers.KindHardware, values: player.HWIDs, active: true},
		{kind: identifiers.KindAccount, values: player.OldIDs},
		{kind: identifiers.KindHardware, values: player.OldHWIDs},
	}
	for _, group := range groups {
		for _, value := range identifiers.Normalize(group.values) {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO player_identifiers (license, kind, value, active) VALUES (?, ?, ?, ?)",
				license, group.kind.String(), value, group.active,
			); err != nil {
				return false, fmt.Errorf("import player %s identifier: %w", license, err)
			}
		}
	}

	if conn := player.LastConnection; conn != nil {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO player_connections (license, connected_at) VALUES (?, ?)",
			license, formatTime(storage.UnixTime(conn.Timestamp)),
		); err != nil {
			return false, fmt.Errorf("import player %s connection: %w", license, err)
		}
		if err := insertKinds(ctx, tx,
			"INSERT OR IGNORE INTO player_connection_identifiers (license, kind, value) VALUES (?, ?, ?)",
			license, conn.IDs, conn.HWIDs,
		); err != nil {
			return false, fmt.Errorf("import player %s connection: %w", license, err)
		}
	}

	for _, session := range player.Sessions {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO online_sessions (mutex, netid, license) VALUES (?, ?, ?)",
			strings.TrimSpace(session.Mutex), session.NetID, license,
		); err != nil {
			return false, fmt.Errorf("import player %s session: %w", license, err)
		}
	}
	return true, nil
}

func (s *Store) importAction(ctx context.Context, tx *sql.Tx, action storage.FixtureAction) (bool, error) {
	actionID := strings.TrimSpace(action.ID)
	createdAt := storage.UnixTime(action.Timestamp)
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO actions (id, type, reason, author, player_license, created_at) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		actionID, action.Type, action.Reason, action.Author, action.PlayerLicense, formatTime(createdAt),
	)
	if err != nil {
		return false, fmt.Errorf("import action %s: %w", actionID, err)
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		return false, err
	}
	if err := insertKinds(ctx, tx,
		"INSERT OR IGNORE INTO action_identifiers (action_id, kind, value) VALUES (?, ?, ?)",
		actionID, action.IDs, action.HWIDs,
	); err != nil {
		return false, fmt.Errorf("import action %s: %w", actionID, err)
	}
	return true, nil
}

func insertKinds(ctx context.Context, tx *sql.Tx, query, owner string, ids, hwids []string) error {
	for _, value := range identifiers.Normalize(ids) {
		if _, err := tx.ExecContext(ctx, query, owner, identifiers.KindAccount.String(), value); err != nil {
			return err
		}
	}
	for _, value := range identifiers.Normalize(hwids) {
		if _, err := tx.ExecContext(ctx, query, owner, identifiers.KindHardware.String(), value); err != nil {
			return err
		}
	}
	return nil
}
