// Package errors provides structured domain errors for identpanel services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidRequest    Code = "INVALID_REQUEST"
	CodePlayerRefInvalid  Code = "PLAYER_REF_INVALID"
	CodeActionIDEmpty     Code = "ACTION_ID_EMPTY"
	CodeIdentifierEmpty   Code = "IDENTIFIER_EMPTY"
	CodeIdentifierKindBad Code = "IDENTIFIER_KIND_INVALID"
	CodeFixtureInvalid    Code = "FIXTURE_INVALID"

	// Grant errors
	CodeGrantMissing     Code = "GRANT_MISSING"
	CodeGrantInvalid     Code = "GRANT_INVALID"
	CodeGrantExpired     Code = "GRANT_EXPIRED"
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Storage errors
	CodePlayerNotFound      Code = "PLAYER_NOT_FOUND"
	CodeActionNotFound      Code = "ACTION_NOT_FOUND"
	CodeIdentifierNotLinked Code = "IDENTIFIER_NOT_LINKED"
	CodeStoreUnavailable    Code = "STORE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidRequest,
		CodePlayerRefInvalid,
		CodeActionIDEmpty,
		CodeIdentifierEmpty,
		CodeIdentifierKindBad,
		CodeFixtureInvalid:
		return http.StatusBadRequest

	case CodeGrantMissing,
		CodeGrantInvalid,
		CodeGrantExpired:
		return http.StatusUnauthorized

	case CodePermissionDenied:
		return http.StatusForbidden

	case CodePlayerNotFound,
		CodeActionNotFound:
		return http.StatusNotFound

	// Unlinking an identifier that is not linked is a generic failure for
	// clients, not a special "already removed" state.
	case CodeIdentifierNotLinked:
		return http.StatusConflict

	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
