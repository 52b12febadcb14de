package identifiers

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Config parameterizes one identifier block.
type Config struct {
	Label        string
	EmptyMessage string
	Kind         Kind
	Scope        Scope
	// ShowHistorical renders known-but-not-current identifiers after the
	// current ones.
	ShowHistorical bool
	// AllowUnlink exposes unlink controls when the operator also holds
	// PermissionPlayersBan.
	AllowUnlink bool
}

// Source is the caller-owned identifier data for one block.
type Source struct {
	Current []string
	// Known is every identifier ever observed. Only read when the block
	// shows history.
	Known []string
}

// Row is one rendered identifier.
type Row struct {
	ID          string
	Historical  bool
	Interactive bool
	Pending     bool
}

// View is a snapshot of everything a renderer needs for one block.
type View struct {
	Label        string
	EmptyMessage string
	Kind         Kind
	Scope        Scope
	// Dense selects the compact rendering used for hardware ids.
	Dense     bool
	Rows      []Row
	Empty     bool
	Copied    bool
	Busy      bool
	PendingID string
	CanUnlink bool
	CopyText  string
}

// Block holds the derived display state of one identifier list and drives
// its copy and unlink side effects.
type Block struct {
	cfg       Config
	deps      Deps
	canUnlink bool

	mu         sync.Mutex
	seq        uint64
	current    []string
	historical []string
	copied     bool
	inFlight   bool
	pending    string
}

// NewBlock mounts a block over src. Permissions are consulted once, here.
func NewBlock(cfg Config, src Source, deps Deps) *Block {
	b := &Block{
		cfg:  cfg,
		deps: deps,
	}
	b.canUnlink = cfg.AllowUnlink &&
		cfg.Scope.Unlinkable() &&
		deps.Unlinker != nil &&
		deps.Permissions != nil &&
		deps.Permissions.HasPermission(PermissionPlayersBan)
	b.load(src)
	return b
}

// Replace swaps in fresh source data and resets the copied flag. An unlink
// already in flight stays pending: its result is still applied, and a
// second unlink on this block is refused until it arrives.
func (b *Block) Replace(src Source) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.load(src)
	b.copied = false
}

func (b *Block) load(src Source) {
	if b.cfg.ShowHistorical {
		b.current, b.historical = Partition(src.Current, src.Known)
	} else {
		b.current, b.historical = Normalize(src.Current), nil
	}
}

// Config returns the block configuration.
func (b *Block) Config() Config {
	return b.cfg
}

// CanUnlink reports whether unlink controls are exposed.
func (b *Block) CanUnlink() bool {
	return b.canUnlink
}

// Current returns a copy of the displayed current identifiers.
func (b *Block) Current() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.current...)
}

// Historical returns a copy of the displayed historical identifiers.
func (b *Block) Historical() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.historical...)
}

// Rows returns current rows followed by historical rows.
func (b *Block) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rowsLocked()
}

func (b *Block) rowsLocked() []Row {
	rows := make([]Row, 0, len(b.current)+len(b.historical))
	for _, id := range b.current {
		rows = append(rows, Row{
			ID:          id,
			Interactive: b.canUnlink,
			Pending:     b.inFlight && b.pending == id,
		})
	}
	for _, id := range b.historical {
		rows = append(rows, Row{ID: id, Historical: true})
	}
	return rows
}

// View snapshots the block for rendering.
func (b *Block) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	dense := b.cfg.Kind == KindHardware && (b.cfg.ShowHistorical || len(b.current) > 0)
	return View{
		Label:        b.cfg.Label,
		EmptyMessage: b.cfg.EmptyMessage,
		Kind:         b.cfg.Kind,
		Scope:        b.cfg.Scope,
		Dense:        dense,
		Rows:         b.rowsLocked(),
		Empty:        len(b.current) == 0,
		Copied:       b.copied,
		Busy:         b.inFlight,
		PendingID:    b.pending,
		CanUnlink:    b.canUnlink,
		CopyText:     b.copyTextLocked(),
	}
}

// CopyText returns the visually ordered identifiers joined by line breaks.
func (b *Block) CopyText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyTextLocked()
}

func (b *Block) copyTextLocked() string {
	all := make([]string, 0, len(b.current)+len(b.historical))
	all = append(all, b.current...)
	all = append(all, b.historical...)
	return strings.Join(all, "\n")
}

// Copied reports whether a copy succeeded since the last mount.
func (b *Block) Copied() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copied
}

// ResolveCopy applies a clipboard outcome. Success sets the copied flag for
// the rest of the mount; failures are notified and leave state unchanged.
func (b *Block) ResolveCopy(res CopyResult) {
	switch res.Outcome() {
	case CopySucceeded:
		b.mu.Lock()
		b.copied = true
		b.mu.Unlock()
	case CopyRefused:
		b.notify(Notification{
			Code:    NoticeCopyFailed,
			Message: Text(b.deps.Localizer, MsgCopyFailed),
		})
	case CopyErrored:
		msg := res.Err.Error()
		if errors.Is(res.Err, ErrClipboardUnavailable) {
			msg = Text(b.deps.Localizer, MsgClipboardMissing)
		}
		b.notify(Notification{
			Code:    NoticeCopyError,
			Title:   Text(b.deps.Localizer, MsgCopyErrorTitle),
			Message: msg,
		})
	}
}

// Copy writes CopyText to the clipboard and applies the outcome.
func (b *Block) Copy(ctx context.Context) CopyResult {
	var res CopyResult
	if b.deps.Clipboard == nil {
		res = CopyResult{Err: ErrClipboardUnavailable}
	} else {
		ok, err := b.deps.Clipboard.WriteText(ctx, b.CopyText())
		res = CopyResult{OK: ok, Err: err}
	}
	b.ResolveCopy(res)
	return res
}

// BeginUnlink marks an unlink of id as in flight and returns the request to
// send. It fails with ErrUnlinkInFlight while another unlink is pending on
// this block; callers drop that case silently.
func (b *Block) BeginUnlink(id string) (UnlinkRequest, error) {
	if !b.canUnlink {
		return UnlinkRequest{}, ErrUnlinkNotPermitted
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight {
		return UnlinkRequest{}, ErrUnlinkInFlight
	}
	if !contains(b.current, id) {
		return UnlinkRequest{}, ErrNotCurrent
	}
	b.seq++
	b.inFlight = true
	b.pending = id
	return UnlinkRequest{
		Scope: b.cfg.Scope,
		Kind:  b.cfg.Kind,
		ID:    id,
		seq:   b.seq,
	}, nil
}

// Resolve applies the result of a request returned by BeginUnlink.
//
// Success drops the identifier from the current list and, for action
// scopes, calls Deps.Refresh. Failure notifies the operator. Either way the
// in-flight flag is cleared. A result that matches no pending request
// returns ErrNoResultPending; a failure is still notified.
func (b *Block) Resolve(res UnlinkResult) error {
	b.mu.Lock()
	matched := b.inFlight && res.Request.seq == b.seq && res.Request.ID == b.pending
	if matched {
		b.inFlight = false
		b.pending = ""
		if res.Succeeded() {
			b.current = Without(b.current, res.Request.ID)
		}
	}
	b.mu.Unlock()

	if !res.Succeeded() {
		b.notify(Notification{
			Code:    NoticeUnlinkFailed,
			Title:   Text(b.deps.Localizer, MsgUnlinkFailedTitle),
			Message: res.Err.Error(),
		})
	}
	if !matched {
		return ErrNoResultPending
	}
	if res.Succeeded() && b.cfg.Scope.Kind() == ScopeAction && b.deps.Refresh != nil {
		b.deps.Refresh()
	}
	return nil
}

// Unlink runs BeginUnlink, the request and Resolve in one call.
func (b *Block) Unlink(ctx context.Context, id string) (UnlinkResult, error) {
	req, err := b.BeginUnlink(id)
	if err != nil {
		return UnlinkResult{}, err
	}
	var res UnlinkResult
	if err := b.deps.Unlinker.Unlink(ctx, req); err != nil {
		res = UnlinkFailed(req, err)
	} else {
		res = UnlinkSucceeded(req)
	}
	if err := b.Resolve(res); err != nil {
		return res, err
	}
	return res, nil
}

func (b *Block) notify(n Notification) {
	if b.deps.Notifier == nil {
		return
	}
	b.deps.Notifier.Notify(n)
}
