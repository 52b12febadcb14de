package i18n

import (
	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var englishMessages = map[string]string{
	KeyAppName:        "identpanel",
	KeyLangEnglish:    "English",
	KeyLangPortuguese: "Português (Brasil)",

	KeyHomeTitle:       "Identifier lookup",
	KeyHomePlayerLabel: "Player license",
	KeyHomeActionLabel: "Action ID",
	KeyHomeOpen:        "Open",

	KeyPlayerTitle:      "Player %s",
	KeyPlayerTabIDs:     "IDs",
	KeyPlayerTabLast:    "Last Connection",
	KeyActionTitle:      "Action %s",
	KeyActionSummary:    "%s by %s: %s",
	KeyActionUnlinks:    "Unlinked identifiers: %d",
	KeyActionLastUnlink: "Last unlink by %s at %s",

	KeyLoginTitle:      "Operator sign in",
	KeyLoginGrantLabel: "Operator grant",
	KeyLoginSubmit:     "Sign in",

	KeyUnlinksTitle: "Recent unlinks",
	KeyUnlinksEmpty: "No identifiers were unlinked yet.",

	KeyLabelCopy:       "Copy",
	KeyLabelUnlink:     "Unlink",
	KeyLabelHistorical: "no longer linked",
	KeyLabelOperator:   "Operator",
	KeyLabelUnknown:    "Unknown",

	KeyErrorCSRF:   "Request origin is not allowed.",
	KeyErrorMethod: "Method not allowed.",

	KeyConsoleHelp:        "tab panel · ←/→ list · ↑/↓ select · c copy · u unlink · r refresh · q quit",
	KeyConsoleLoading:     "Loading...",
	KeyConsoleLoadFailed:  "Failed to load data:",
	KeyConsoleNoSelection: "Select a linked identifier first.",

	ErrorKey(apperrors.CodeUnknown):             "Something went wrong.",
	ErrorKey(apperrors.CodeInvalidRequest):      "The request is invalid.",
	ErrorKey(apperrors.CodePlayerRefInvalid):    "A player license or a mutex and netid pair is required.",
	ErrorKey(apperrors.CodeActionIDEmpty):       "An action id is required.",
	ErrorKey(apperrors.CodeIdentifierEmpty):     "An identifier is required.",
	ErrorKey(apperrors.CodeIdentifierKindBad):   "Unknown identifier kind.",
	ErrorKey(apperrors.CodeFixtureInvalid):      "The fixture file is invalid.",
	ErrorKey(apperrors.CodeGrantMissing):        "An operator grant is required.",
	ErrorKey(apperrors.CodeGrantInvalid):        "The operator grant is invalid.",
	ErrorKey(apperrors.CodeGrantExpired):        "The operator grant has expired.",
	ErrorKey(apperrors.CodePermissionDenied):    "You don't have permission to do this.",
	ErrorKey(apperrors.CodePlayerNotFound):      "Player not found.",
	ErrorKey(apperrors.CodeActionNotFound):      "Action not found.",
	ErrorKey(apperrors.CodeIdentifierNotLinked): "This identifier is not linked anymore.",
	ErrorKey(apperrors.CodeStoreUnavailable):    "Storage is unavailable.",
}

func init() {
	lang := language.English

	for key, value := range identifiers.DefaultMessages {
		message.SetString(lang, key, value)
	}
	for key, value := range englishMessages {
		message.SetString(lang, key, value)
	}
}
