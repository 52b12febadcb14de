package storage

import (
	"context"
	"time"

	"github.com/louisbranch/identpanel/internal/identifiers"
)

// Player is the identifier view of one player profile.
type Player struct {
	License     string
	DisplayName string
	// IDs and HWIDs are the currently linked identifiers. The Known slices
	// include every identifier ever linked, current ones included.
	IDs            []string
	KnownIDs       []string
	HWIDs          []string
	KnownHWIDs     []string
	LastConnection *LastConnection
}

// LastConnection is the identifier snapshot taken when the player last
// connected. ConnectedAt is zero when the time was not recorded.
type LastConnection struct {
	ConnectedAt time.Time
	IDs         []string
	HWIDs       []string
}

// Action is a moderation action plus the identifiers it targets.
type Action struct {
	ID            string
	Type          string
	Reason        string
	Author        string
	PlayerLicense string
	CreatedAt     time.Time
	IDs           []string
	HWIDs         []string
	// Audit fields derived from the unlink trail.
	UnlinkCount  int
	LastUnlinkBy string
	LastUnlinkAt time.Time
}

// Unlink is one audit trail entry.
type Unlink struct {
	ID         string
	Scope      identifiers.ScopeKind
	Subject    string
	Kind       identifiers.Kind
	Value      string
	OperatorID string
	CreatedAt  time.Time
}

// UnlinkInput describes one identifier to revoke.
type UnlinkInput struct {
	Kind       identifiers.Kind
	Value      string
	OperatorID string
	At         time.Time
}

// PlayerStore reads and mutates player identifiers.
type PlayerStore interface {
	GetPlayer(ctx context.Context, ref identifiers.PlayerRef) (Player, error)
	UnlinkPlayerIdentifier(ctx context.Context, ref identifiers.PlayerRef, in UnlinkInput) error
}

// ActionStore reads and mutates action identifiers.
type ActionStore interface {
	GetAction(ctx context.Context, actionID string) (Action, error)
	UnlinkActionIdentifier(ctx context.Context, actionID string, in UnlinkInput) error
}

// UnlinkAuditStore lists the unlink trail of a subject, newest first.
type UnlinkAuditStore interface {
	ListUnlinks(ctx context.Context, scope identifiers.ScopeKind, subject string, limit int) ([]Unlink, error)
}

// FixtureStore seeds players and actions.
type FixtureStore interface {
	ImportFixture(ctx context.Context, fixture Fixture) (ImportResult, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	PlayerStore
	ActionStore
	UnlinkAuditStore
	FixtureStore
	Close() error
}
