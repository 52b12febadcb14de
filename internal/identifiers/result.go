package identifiers

import "errors"

var (
	// ErrUnlinkInFlight is returned when an unlink is already pending on the
	// block. Callers drop the request silently.
	ErrUnlinkInFlight = errors.New("unlink already in flight")
	// ErrUnlinkNotPermitted is returned when the block exposes no unlink
	// controls (read-only scope, missing permission, no unlinker).
	ErrUnlinkNotPermitted = errors.New("unlink not permitted")
	// ErrNotCurrent is returned when the identifier is not in the current set.
	ErrNotCurrent = errors.New("identifier is not currently linked")
	// ErrNoResultPending is returned when a result does not match the
	// request in flight, for example after the block was remounted.
	ErrNoResultPending = errors.New("no unlink pending for identifier")
	// ErrClipboardUnavailable is reported by Copy when no clipboard is wired.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// UnlinkResult is the outcome of one unlink request: either the identifier
// was removed or the request failed with a reason.
type UnlinkResult struct {
	Request UnlinkRequest
	Err     error
}

// UnlinkSucceeded builds a success result for req.
func UnlinkSucceeded(req UnlinkRequest) UnlinkResult {
	return UnlinkResult{Request: req}
}

// UnlinkFailed builds a failure result for req.
func UnlinkFailed(req UnlinkRequest, err error) UnlinkResult {
	if err == nil {
		err = errors.New("unlink failed")
	}
	return UnlinkResult{Request: req, Err: err}
}

// ID returns the identifier the result applies to.
func (r UnlinkResult) ID() string {
	return r.Request.ID
}

// Succeeded reports whether the identifier was removed.
func (r UnlinkResult) Succeeded() bool {
	return r.Err == nil
}

// CopyOutcome describes how a clipboard write ended.
type CopyOutcome int

const (
	// CopySucceeded means the clipboard accepted the text.
	CopySucceeded CopyOutcome = iota
	// CopyRefused means the clipboard reported false.
	CopyRefused
	// CopyErrored means the clipboard returned an error.
	CopyErrored
)

// CopyResult is the outcome of one clipboard write.
type CopyResult struct {
	OK  bool
	Err error
}

// Outcome classifies the result.
func (r CopyResult) Outcome() CopyOutcome {
	switch {
	case r.Err != nil:
		return CopyErrored
	case !r.OK:
		return CopyRefused
	default:
		return CopySucceeded
	}
}
