// Package adminapi holds the JSON documents exchanged between the admin
// service and its clients. Timestamps are unix seconds; zero means unknown.
package adminapi

import "time"

// GrantCookieName carries the operator grant for browser sessions.
const GrantCookieName = "identpanel_grant"

// UnlinkBody is the request body of every unlink endpoint.
type UnlinkBody struct {
	ID string `json:"id"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorDetail describes a failed request. Message is localized.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// LastConnection is the identifier snapshot of a player's last connection.
type LastConnection struct {
	Timestamp int64    `json:"ts"`
	IDs       []string `json:"ids"`
	HWIDs     []string `json:"hwids"`
}

// Player is the identifier view of a player. The old slices list every
// identifier ever linked, current ones included.
type Player struct {
	License        string          `json:"license"`
	DisplayName    string          `json:"displayName"`
	IDs            []string        `json:"ids"`
	OldIDs         []string        `json:"oldIds"`
	HWIDs          []string        `json:"hwids"`
	OldHWIDs       []string        `json:"oldHwids"`
	LastConnection *LastConnection `json:"lastConnection,omitempty"`
}

// PlayerResponse is returned by GET /player.
type PlayerResponse struct {
	ServerTime int64  `json:"serverTime"`
	Player     Player `json:"player"`
}

// Action is a moderation action plus its unlink audit summary.
type Action struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Reason        string   `json:"reason"`
	Author        string   `json:"author"`
	PlayerLicense string   `json:"playerLicense,omitempty"`
	Timestamp     int64    `json:"ts"`
	IDs           []string `json:"ids"`
	HWIDs         []string `json:"hwids"`
	UnlinkCount   int      `json:"unlinkCount"`
	LastUnlinkBy  string   `json:"lastUnlinkBy,omitempty"`
	LastUnlinkAt  int64    `json:"lastUnlinkAt,omitempty"`
}

// ActionResponse is returned by GET /history/action.
type ActionResponse struct {
	ServerTime int64  `json:"serverTime"`
	Action     Action `json:"action"`
}

// Unlink is one audit trail entry.
type Unlink struct {
	ID         string `json:"id"`
	Scope      string `json:"scope"`
	Subject    string `json:"subject"`
	Kind       string `json:"kind"`
	Value      string `json:"value"`
	OperatorID string `json:"operatorId"`
	CreatedAt  int64  `json:"ts"`
}

// UnlinksResponse is returned by GET /history/unlinks.
type UnlinksResponse struct {
	Unlinks []Unlink `json:"unlinks"`
}

// SelfResponse is returned by GET /auth/self.
type SelfResponse struct {
	OperatorID  string   `json:"operatorId"`
	Permissions []string `json:"permissions"`
}

// Unix converts t to unix seconds, keeping zero as zero.
func Unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Time converts unix seconds back to a UTC time, keeping zero as zero.
func Time(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
