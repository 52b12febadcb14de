package identifiers

import (
	"context"

	"golang.org/x/text/message"
)

// PermissionPlayersBan gates the unlink controls.
const PermissionPlayersBan = "players.ban"

// PermissionAll is the master permission that implies every other one.
const PermissionAll = "all_permissions"

// Unlinker issues unlink requests against the authoritative store.
type Unlinker interface {
	Unlink(ctx context.Context, req UnlinkRequest) error
}

// UnlinkerFunc adapts a function to the Unlinker interface.
type UnlinkerFunc func(ctx context.Context, req UnlinkRequest) error

// Unlink implements Unlinker.
func (fn UnlinkerFunc) Unlink(ctx context.Context, req UnlinkRequest) error {
	return fn(ctx, req)
}

// Clipboard writes text to the operator's clipboard.
//
// A clipboard can fail in two ways: it returns an error, or it reports
// false without one (no clipboard available, write silently refused).
type Clipboard interface {
	WriteText(ctx context.Context, text string) (bool, error)
}

// Permissions answers permission lookups for the acting operator.
type Permissions interface {
	HasPermission(permission string) bool
}

// PermissionSet is a static Permissions implementation.
type PermissionSet []string

// HasPermission reports whether permission, or the master permission, is
// part of the set.
func (s PermissionSet) HasPermission(permission string) bool {
	for _, granted := range s {
		if granted == permission || granted == PermissionAll {
			return true
		}
	}
	return false
}

// NoticeCode classifies a notification for renderers that style or
// localize by code.
type NoticeCode string

const (
	// NoticeCopyFailed is raised when the clipboard reports false.
	NoticeCopyFailed NoticeCode = "copy_failed"
	// NoticeCopyError is raised when the clipboard returns an error.
	NoticeCopyError NoticeCode = "copy_error"
	// NoticeUnlinkFailed is raised when an unlink request fails.
	NoticeUnlinkFailed NoticeCode = "unlink_failed"
)

// Notification is a user-facing failure message. Title is optional.
type Notification struct {
	Code    NoticeCode
	Title   string
	Message string
}

// Notifier surfaces failure notifications to the operator.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (fn NotifierFunc) Notify(n Notification) {
	fn(n)
}

// Localizer translates message keys.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Deps bundles the collaborators a Block talks to. Every field is optional;
// missing collaborators turn the matching side effect into a failure.
type Deps struct {
	Unlinker    Unlinker
	Clipboard   Clipboard
	Notifier    Notifier
	Permissions Permissions
	Localizer   Localizer
	// Refresh re-fetches authoritative data after a successful unlink. It is
	// only called for action scopes.
	Refresh func()
}
