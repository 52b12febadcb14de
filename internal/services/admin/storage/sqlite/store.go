package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/id"
	sqlitemigrate "github.com/louisbranch/identpanel/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
	"github.com/louisbranch/identpanel/internal/services/admin/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
	newID func() (string, error)
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{
		sqlDB: sqlDB,
		now:   func() time.Time { return time.Now().UTC() },
		newID: id.NewID,
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetPlayer loads the identifiers of the referenced player.
func (s *Store) GetPlayer(ctx context.Context, ref identifiers.PlayerRef) (storage.Player, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Player{}, err
	}
	license, err := resolveLicense(ctx, s.sqlDB, ref)
	if err != nil {
		return storage.Player{}, err
	}

	player := storage.Player{License: license}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT display_name FROM players WHERE license = ?", license)
	if err := row.Scan(&player.DisplayName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Player{}, playerNotFound(ref)
		}
		return storage.Player{}, fmt.Errorf("get player %s: %w", license, err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT kind, value, active FROM player_identifiers WHERE license = ? ORDER BY value",
		license,
	)
	if err != nil {
		return storage.Player{}, fmt.Errorf("list player identifiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kindName, value string
		var active bool
		if err := rows.Scan(&kindName, &value, &active); err != nil {
			return storage.Player{}, fmt.Errorf("scan player identifier: %w", err)
		}
		kind, ok := identifiers.ParseKind(kindName)
		if !ok {
			continue
		}
		switch kind {
		case identifiers.KindHardware:
			player.KnownHWIDs = append(player.KnownHWIDs, value)
			if active {
				player.HWIDs = append(player.HWIDs, value)
			}
		default:
			player.KnownIDs = append(player.KnownIDs, value)
			if active {
				player.IDs = append(player.IDs, value)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return storage.Player{}, fmt.Errorf("list player identifiers: %w", err)
	}

	conn, err := lastConnection(ctx, s.sqlDB, license)
	if err != nil {
		return storage.Player{}, err
	}
	player.LastConnection = conn
	return player, nil
}

func lastConnection(ctx context.Context, q queryer, license string) (*storage.LastConnection, error) {
	var connectedAt string
	row := q.QueryRowContext(ctx, "SELECT connected_at FROM player_connections WHERE license = ?", license)
	if err := row.Scan(&connectedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last connection: %w", err)
	}
	conn := &storage.LastConnection{ConnectedAt: parseTime(connectedAt)}

	rows, err := q.QueryContext(ctx,
		"SELECT kind, value FROM player_connection_identifiers WHERE license = ? ORDER BY value",
		license,
	)
	if err != nil {
		return nil, fmt.Errorf("list last connection identifiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kindName, value string
		if err := rows.Scan(&kindName, &value); err != nil {
			return nil, fmt.Errorf("scan last connection identifier: %w", err)
		}
		if kind, _ := identifiers.ParseKind(kindName); kind == identifiers.KindHardware {
			conn.HWIDs = append(conn.HWIDs, value)
		} else {
			conn.IDs = append(conn.IDs, value)
		}
	}
	return conn, rows.Err()
}

// UnlinkPlayerIdentifier deactivates one current identifier of a player and
// records the audit entry.
func (s *Store) UnlinkPlayerIdentifier(ctx context.Context, ref identifiers.PlayerRef, in storage.UnlinkInput) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(in.Value) == "" {
		return apperrors.New(apperrors.CodeIdentifierEmpty, "identifier is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		license, err := resolveLicense(ctx, tx, ref)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE player_identifiers SET active = 0 WHERE license = ? AND kind = ? AND value = ? AND active = 1",
			license, in.Kind.String(), in.Value,
		)
		if err != nil {
			return fmt.Errorf("unlink player identifier: %w", err)
		}
		if err := requireAffected(res, in); err != nil {
			return err
		}
		return s.insertUnlink(ctx, tx, identifiers.ScopePlayer, license, in)
	})
}

// GetAction loads an action, its identifiers and its unlink audit fields.
func (s *Store) GetAction(ctx context.Context, actionID string) (storage.Action, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Action{}, err
	}
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return storage.Action{}, apperrors.New(apperrors.CodeActionIDEmpty, "action id is required")
	}

	action := storage.Action{ID: actionID}
	var createdAt string
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT type, reason, author, player_license, created_at FROM actions WHERE id = ?",
		actionID,
	)
	if err := row.Scan(&action.Type, &action.Reason, &action.Author, &action.PlayerLicense, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Action{}, actionNotFound(actionID)
		}
		return storage.Action{}, fmt.Errorf("get action %s: %w", actionID, err)
	}
	action.CreatedAt = parseTime(createdAt)

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT kind, value FROM action_identifiers WHERE action_id = ? ORDER BY value",
		actionID,
	)
	if err != nil {
		return storage.Action{}, fmt.Errorf("list action identifiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kindName, value string
		if err := rows.Scan(&kindName, &value); err != nil {
			return storage.Action{}, fmt.Errorf("scan action identifier: %w", err)
		}
		if kind, _ := identifiers.ParseKind(kindName); kind == identifiers.KindHardware {
			action.HWIDs = append(action.HWIDs, value)
		} else {
			action.IDs = append(action.IDs, value)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.Action{}, fmt.Errorf("list action identifiers: %w", err)
	}

	row = s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM identifier_unlinks WHERE scope = ? AND subject = ?",
		identifiers.ScopeAction.String(), actionID,
	)
	if err := row.Scan(&action.UnlinkCount); err != nil {
		return storage.Action{}, fmt.Errorf("count action unlinks: %w", err)
	}
	if action.UnlinkCount > 0 {
		var lastAt string
		row = s.sqlDB.QueryRowContext(ctx,
			"SELECT operator_id, created_at FROM identifier_unlinks WHERE scope = ? AND subject = ? ORDER BY created_at DESC, id DESC LIMIT 1",
			identifiers.ScopeAction.String(), actionID,
		)
		if err := row.Scan(&action.LastUnlinkBy, &lastAt); err != nil {
			return storage.Action{}, fmt.Errorf("get last action unlink: %w", err)
		}
		action.LastUnlinkAt = parseTime(lastAt)
	}
	return action, nil
}

// UnlinkActionIdentifier removes one identifier from an action and records
// the audit entry.
func (s *Store) UnlinkActionIdentifier(ctx context.Context, actionID string, in storage.UnlinkInput) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return apperrors.New(apperrors.CodeActionIDEmpty, "action id is required")
	}
	if strings.TrimSpace(in.Value) == "" {
		return apperrors.New(apperrors.CodeIdentifierEmpty, "identifier is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM actions WHERE id = ?", actionID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return actionNotFound(actionID)
			}
			return fmt.Errorf("get action %s: %w", actionID, err)
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM action_identifiers WHERE action_id = ? AND kind = ? AND value = ?",
			actionID, in.Kind.String(), in.Value,
		)
		if err != nil {
			return fmt.Errorf("unlink action identifier: %w", err)
		}
		if err := requireAffected(res, in); err != nil {
			return err
		}
		return s.insertUnlink(ctx, tx, identifiers.ScopeAction, actionID, in)
	})
}

// ListUnlinks returns the newest unlinks of a subject first. A non-positive
// limit returns every entry.
func (s *Store) ListUnlinks(ctx context.Context, scope identifiers.ScopeKind, subject string, limit int) ([]storage.Unlink, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := "SELECT id, kind, value, operator_id, created_at FROM identifier_unlinks WHERE scope = ? AND subject = ? ORDER BY created_at DESC, id DESC"
	args := []any{scope.String(), subject}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list unlinks: %w", err)
	}
	defer rows.Close()

	var out []storage.Unlink
	for rows.Next() {
		entry := storage.Unlink{Scope: scope, Subject: subject}
		var kindName, createdAt string
		if err := rows.Scan(&entry.ID, &kindName, &entry.Value, &entry.OperatorID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan unlink: %w", err)
		}
		entry.Kind, _ = identifiers.ParseKind(kindName)
		entry.CreatedAt = parseTime(createdAt)
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) insertUnlink(ctx context.Context, tx *sql.Tx, scope identifiers.ScopeKind, subject string, in storage.UnlinkInput) error {
	auditID, err := s.newID()
	if err != nil {
		return err
	}
	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO identifier_unlinks (id, scope, subject, kind, value, operator_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		auditID, scope.String(), subject, in.Kind.String(), in.Value, in.OperatorID, at.UTC().Format(timeFormat),
	); err != nil {
		return fmt.Errorf("record unlink: %w", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func resolveLicense(ctx context.Context, q queryer, ref identifiers.PlayerRef) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", apperrors.Wrap(apperrors.CodePlayerRefInvalid, "invalid player reference", err)
	}
	if license := strings.TrimSpace(ref.License); license != "" {
		return license, nil
	}
	var license string
	row := q.QueryRowContext(ctx,
		"SELECT license FROM online_sessions WHERE mutex = ? AND netid = ?",
		strings.TrimSpace(ref.Mutex), ref.NetID,
	)
	if err := row.Scan(&license); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", playerNotFound(ref)
		}
		return "", fmt.Errorf("resolve player session: %w", err)
	}
	return license, nil
}

func requireAffected(res sql.Result, in storage.UnlinkInput) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unlink rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeIdentifierNotLinked,
			fmt.Sprintf("%s %s is not linked", in.Kind, in.Value),
			map[string]string{"Identifier": in.Value},
		)
	}
	return nil
}

func playerNotFound(ref identifiers.PlayerRef) error {
	return apperrors.WithMetadata(apperrors.CodePlayerNotFound,
		fmt.Sprintf("player %s not found", ref),
		map[string]string{"Player": ref.String()},
	)
}

func actionNotFound(actionID string) error {
	return apperrors.WithMetadata(apperrors.CodeActionNotFound,
		fmt.Sprintf("action %s not found", actionID),
		map[string]string{"Action": actionID},
	)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timeFormat)
}

var _ storage.Store = (*Store)(nil)
