package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Lookup = "/lookup"
	Login  = "/login"
)

const (
	StaticPrefix = "/static/"
)

// JSON API consumed by the operator console. The unlink paths are the ones
// identifiers.UnlinkRequest.Path reports.
const (
	APIPlayer           = "/player"
	APIPlayerUnlinkID   = "/player/unlink_id"
	APIPlayerUnlinkHWID = "/player/unlink_hwid"
	APIAction           = "/history/action"
	APIActionUnlinkID   = "/history/unlink_id"
	APIActionUnlinkHWID = "/history/unlink_hwid"
	APIUnlinks          = "/history/unlinks"
	APIAuthSelf         = "/auth/self"
)

const (
	Players       = "/players"
	PlayersPrefix = "/players/"
)

const (
	Actions       = "/actions"
	ActionsPrefix = "/actions/"
)

// IsAPI reports whether path belongs to the JSON API.
func IsAPI(path string) bool {
	switch path {
	case APIPlayer, APIPlayerUnlinkID, APIPlayerUnlinkHWID,
		APIAction, APIActionUnlinkID, APIActionUnlinkHWID,
		APIUnlinks, APIAuthSelf:
		return true
	default:
		return false
	}
}

func Player(license string) string {
	return Players + "/" + escapeSegment(license)
}

func PlayerIDs(license string) string {
	return Player(license) + "/ids"
}

func PlayerIDsUnlink(license string) string {
	return PlayerIDs(license) + "/unlink"
}

func PlayerLastConnection(license string) string {
	return Player(license) + "/last-connection"
}

func Action(actionID string) string {
	return Actions + "/" + escapeSegment(actionID)
}

func ActionIDs(actionID string) string {
	return Action(actionID) + "/ids"
}

func ActionIDsUnlink(actionID string) string {
	return ActionIDs(actionID) + "/unlink"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
