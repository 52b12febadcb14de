package identifiers

// Message keys shared by every surface rendering identifier panels.
const (
	MsgActionIDsTitle     = "identifiers.action.ids.title"
	MsgActionIDsEmpty     = "identifiers.action.ids.empty"
	MsgActionHWIDsTitle   = "identifiers.action.hwids.title"
	MsgActionHWIDsEmpty   = "identifiers.action.hwids.empty"
	MsgPlayerIDsTitle     = "identifiers.player.ids.title"
	MsgPlayerIDsEmpty     = "identifiers.player.ids.empty"
	MsgPlayerHWIDsTitle   = "identifiers.player.hwids.title"
	MsgPlayerHWIDsEmpty   = "identifiers.player.hwids.empty"
	MsgLastConnTitle      = "identifiers.last_connection.title"
	MsgLastConnIDsTitle   = "identifiers.last_connection.ids.title"
	MsgLastConnIDsEmpty   = "identifiers.last_connection.ids.empty"
	MsgCopied             = "identifiers.copied"
	MsgUnlinking          = "identifiers.unlinking"
	MsgCopyFailed         = "identifiers.copy.failed"
	MsgCopyErrorTitle     = "identifiers.copy.error_title"
	MsgUnlinkFailedTitle  = "identifiers.unlink.failed_title"
	MsgUnlinkNoResponse   = "identifiers.unlink.no_response"
	MsgClipboardMissing   = "identifiers.copy.unavailable"
	MsgTimestampUnknown   = "identifiers.timestamp.unknown"
	MsgUnlinkNotPermitted = "identifiers.unlink.not_permitted"
)

// DefaultMessages holds the English text used when no Localizer is set.
// Surfaces with translations register the same keys.
var DefaultMessages = map[string]string{
	MsgActionIDsTitle:     "Target Identifiers",
	MsgActionIDsEmpty:     "This action targets no identifiers.",
	MsgActionHWIDsTitle:   "Target Hardware IDs",
	MsgActionHWIDsEmpty:   "This action targets no hardware IDs.",
	MsgPlayerIDsTitle:     "Player Identifiers",
	MsgPlayerIDsEmpty:     "This player has no identifiers.",
	MsgPlayerHWIDsTitle:   "Player Hardware IDs",
	MsgPlayerHWIDsEmpty:   "This player has no hardware IDs.",
	MsgLastConnTitle:      "Last Connection",
	MsgLastConnIDsTitle:   "Ids",
	MsgLastConnIDsEmpty:   "This player has no identifiers.",
	MsgCopied:             "Copied!",
	MsgUnlinking:          "Unlinking identifier...",
	MsgCopyFailed:         "Failed to copy to clipboard :(",
	MsgCopyErrorTitle:     "Failed to copy to clipboard:",
	MsgUnlinkFailedTitle:  "Failed to unlink identifier:",
	MsgUnlinkNoResponse:   "The server did not respond.",
	MsgClipboardMissing:   "No clipboard is available.",
	MsgTimestampUnknown:   "??/??/????, ??:??",
	MsgUnlinkNotPermitted: "You do not have permission to unlink identifiers.",
}

// Text resolves key through loc, falling back to DefaultMessages.
func Text(loc Localizer, key string, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if value, ok := DefaultMessages[key]; ok {
		return value
	}
	return key
}
