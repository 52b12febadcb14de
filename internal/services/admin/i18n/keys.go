package i18n

import apperrors "github.com/louisbranch/identpanel/internal/platform/errors"

// Message keys used by admin pages and API responses.
const (
	KeyAppName        = "app.name"
	KeyLangEnglish    = "nav.lang_en"
	KeyLangPortuguese = "nav.lang_pt_br"

	KeyHomeTitle       = "home.title"
	KeyHomePlayerLabel = "home.player_label"
	KeyHomeActionLabel = "home.action_label"
	KeyHomeOpen        = "home.open"

	KeyPlayerTitle      = "player.title"
	KeyPlayerTabIDs     = "player.tab.ids"
	KeyPlayerTabLast    = "player.tab.last_connection"
	KeyActionTitle      = "action.title"
	KeyActionSummary    = "action.summary"
	KeyActionUnlinks    = "action.unlink_count"
	KeyActionLastUnlink = "action.last_unlink"

	KeyLoginTitle      = "login.title"
	KeyLoginGrantLabel = "login.grant_label"
	KeyLoginSubmit     = "login.submit"

	KeyUnlinksTitle = "unlinks.title"
	KeyUnlinksEmpty = "unlinks.empty"

	KeyLabelCopy       = "label.copy"
	KeyLabelUnlink     = "label.unlink"
	KeyLabelHistorical = "label.historical"
	KeyLabelOperator   = "label.operator"
	KeyLabelUnknown    = "label.unknown"

	KeyErrorCSRF   = "error.csrf_invalid"
	KeyErrorMethod = "error.method_not_allowed"

	KeyConsoleHelp        = "console.help"
	KeyConsoleLoading     = "console.loading"
	KeyConsoleLoadFailed  = "console.load_failed"
	KeyConsoleNoSelection = "console.no_selection"
)

// ErrorKey returns the message key describing code.
func ErrorKey(code apperrors.Code) string {
	return "error.code." + string(code)
}
