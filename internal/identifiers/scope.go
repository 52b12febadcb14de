package identifiers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ScopeKind discriminates the subject an identifier block belongs to.
type ScopeKind int

const (
	// ScopeReadOnly marks snapshots that cannot be unlinked.
	ScopeReadOnly ScopeKind = iota
	// ScopePlayer addresses a player profile.
	ScopePlayer
	// ScopeAction addresses a single moderation action.
	ScopeAction
)

// String returns the scope name stored in the unlink audit trail.
func (k ScopeKind) String() string {
	switch k {
	case ScopePlayer:
		return "player"
	case ScopeAction:
		return "action"
	default:
		return "readonly"
	}
}

// PlayerRef references a player either by license or by the mutex/netid
// pair of an online session.
type PlayerRef struct {
	License string
	Mutex   string
	NetID   int
}

// ErrPlayerRefInvalid reports a player reference with neither form set.
var ErrPlayerRefInvalid = errors.New("player reference requires a license or a mutex and netid")

// Validate checks that at least one reference form is complete.
func (r PlayerRef) Validate() error {
	if strings.TrimSpace(r.License) != "" {
		return nil
	}
	if strings.TrimSpace(r.Mutex) != "" && r.NetID > 0 {
		return nil
	}
	return ErrPlayerRefInvalid
}

// Query encodes the reference as unlink/lookup query parameters.
func (r PlayerRef) Query() url.Values {
	values := url.Values{}
	if license := strings.TrimSpace(r.License); license != "" {
		values.Set("license", license)
		return values
	}
	if mutex := strings.TrimSpace(r.Mutex); mutex != "" {
		values.Set("mutex", mutex)
		values.Set("netid", strconv.Itoa(r.NetID))
	}
	return values
}

// String renders the reference for logs and audit rows.
func (r PlayerRef) String() string {
	if license := strings.TrimSpace(r.License); license != "" {
		return license
	}
	if mutex := strings.TrimSpace(r.Mutex); mutex != "" {
		return mutex + "#" + strconv.Itoa(r.NetID)
	}
	return ""
}

// ParsePlayerRef reads a reference from query parameters.
func ParsePlayerRef(values url.Values) (PlayerRef, error) {
	ref := PlayerRef{
		License: strings.TrimSpace(values.Get("license")),
		Mutex:   strings.TrimSpace(values.Get("mutex")),
	}
	if raw := strings.TrimSpace(values.Get("netid")); raw != "" {
		netID, err := strconv.Atoi(raw)
		if err != nil {
			return PlayerRef{}, ErrPlayerRefInvalid
		}
		ref.NetID = netID
	}
	if err := ref.Validate(); err != nil {
		return PlayerRef{}, err
	}
	return ref, nil
}

// Scope is the subject an unlink or copy applies to.
type Scope struct {
	kind     ScopeKind
	player   PlayerRef
	actionID string
}

// PlayerScope scopes a block to a player.
func PlayerScope(ref PlayerRef) Scope {
	return Scope{kind: ScopePlayer, player: ref}
}

// ActionScope scopes a block to a moderation action.
func ActionScope(actionID string) Scope {
	return Scope{kind: ScopeAction, actionID: strings.TrimSpace(actionID)}
}

// ReadOnlyScope is used by snapshots that expose no unlink endpoint.
func ReadOnlyScope() Scope {
	return Scope{kind: ScopeReadOnly}
}

// Kind returns the scope discriminator.
func (s Scope) Kind() ScopeKind { return s.kind }

// Player returns the player reference for player scopes.
func (s Scope) Player() (PlayerRef, bool) {
	return s.player, s.kind == ScopePlayer
}

// ActionID returns the action id for action scopes.
func (s Scope) ActionID() (string, bool) {
	return s.actionID, s.kind == ScopeAction
}

// Subject returns a printable subject key for the scope.
func (s Scope) Subject() string {
	switch s.kind {
	case ScopePlayer:
		return s.player.String()
	case ScopeAction:
		return s.actionID
	default:
		return ""
	}
}

// Query encodes the scope identifiers sent alongside an unlink request.
func (s Scope) Query() url.Values {
	switch s.kind {
	case ScopePlayer:
		return s.player.Query()
	case ScopeAction:
		values := url.Values{}
		values.Set("actionId", s.actionID)
		return values
	default:
		return url.Values{}
	}
}

// Unlinkable reports whether the scope addresses an unlink endpoint.
func (s Scope) Unlinkable() bool {
	switch s.kind {
	case ScopePlayer:
		return s.player.Validate() == nil
	case ScopeAction:
		return s.actionID != ""
	default:
		return false
	}
}

// UnlinkRequest revokes one identifier from a subject.
type UnlinkRequest struct {
	Scope Scope
	Kind  Kind
	ID    string

	// seq ties the request to the BeginUnlink call that issued it.
	seq uint64
}

// Path returns the endpoint the request addresses. There is one endpoint
// per scope and kind.
func (r UnlinkRequest) Path() string {
	var prefix string
	switch r.Scope.Kind() {
	case ScopePlayer:
		prefix = "/player"
	case ScopeAction:
		prefix = "/history"
	default:
		return ""
	}
	if r.Kind == KindHardware {
		return prefix + "/unlink_hwid"
	}
	return prefix + "/unlink_id"
}
