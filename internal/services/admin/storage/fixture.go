package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
)

// Fixture is the JSON seed document accepted by `admin -fixture`.
type Fixture struct {
	Players []FixturePlayer `json:"players"`
	Actions []FixtureAction `json:"actions"`
}

// FixturePlayer seeds one player. Timestamps are unix seconds.
type FixturePlayer struct {
	License        string                 `json:"license"`
	DisplayName    string                 `json:"displayName"`
	IDs            []string               `json:"ids"`
	OldIDs         []string               `json:"oldIds"`
	HWIDs          []string               `json:"hwids"`
	OldHWIDs       []string               `json:"oldHwids"`
	LastConnection *FixtureLastConnection `json:"lastConnection,omitempty"`
	Sessions       []FixtureSession       `json:"sessions,omitempty"`
}

// FixtureLastConnection seeds a last connection snapshot.
type FixtureLastConnection struct {
	Timestamp int64    `json:"timestamp"`
	IDs       []string `json:"ids"`
	HWIDs     []string `json:"hwids"`
}

// FixtureSession binds an online mutex/netid pair to the player.
type FixtureSession struct {
	Mutex string `json:"mutex"`
	NetID int    `json:"netid"`
}

// FixtureAction seeds one moderation action.
type FixtureAction struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Reason        string   `json:"reason"`
	Author        string   `json:"author"`
	PlayerLicense string   `json:"playerLicense"`
	Timestamp     int64    `json:"timestamp"`
	IDs           []string `json:"ids"`
	HWIDs         []string `json:"hwids"`
}

// ImportResult counts records created by an import. Records that already
// existed are left untouched.
type ImportResult struct {
	Players int
	Actions int
}

// ParseFixture decodes and validates a fixture document.
func ParseFixture(r io.Reader) (Fixture, error) {
	var fixture Fixture
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, apperrors.Wrap(apperrors.CodeFixtureInvalid, "decode fixture", err)
	}
	if err := fixture.Validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

// Validate checks required keys and uniqueness.
func (f Fixture) Validate() error {
	licenses := make(map[string]struct{}, len(f.Players))
	for i, player := range f.Players {
		license := strings.TrimSpace(player.License)
		if license == "" {
			return apperrors.New(apperrors.CodeFixtureInvalid, fmt.Sprintf("player %d: license is required", i))
		}
		if _, ok := licenses[license]; ok {
			return apperrors.New(apperrors.CodeFixtureInvalid, fmt.Sprintf("player %s: duplicate license", license))
		}
		licenses[license] = struct{}{}
		for _, session := range player.Sessions {
			if strings.TrimSpace(session.Mutex) == "" || session.NetID <= 0 {
				return apperrors.New(apperrors.CodeFixtureInvalid, fmt.Sprintf("player %s: session needs mutex and netid", license))
			}
		}
	}
	actionIDs := make(map[string]struct{}, len(f.Actions))
	for i, action := range f.Actions {
		actionID := strings.TrimSpace(action.ID)
		if actionID == "" {
			return apperrors.New(apperrors.CodeFixtureInvalid, fmt.Sprintf("action %d: id is required", i))
		}
		if _, ok := actionIDs[actionID]; ok {
			return apperrors.New(apperrors.CodeFixtureInvalid, fmt.Sprintf("action %s: duplicate id", actionID))
		}
		actionIDs[actionID] = struct{}{}
	}
	return nil
}

// UnixTime converts fixture seconds to UTC; zero stays zero.
func UnixTime(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
