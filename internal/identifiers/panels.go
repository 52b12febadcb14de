package identifiers

import "time"

// ActionInput is the identifier data of one moderation action.
type ActionInput struct {
	ActionID string
	IDs      []string
	HWIDs    []string
}

// ActionPanel shows the identifiers targeted by a moderation action.
type ActionPanel struct {
	IDs   *Block
	HWIDs *Block
}

// NewActionPanel mounts the account and hardware blocks of an action. A
// successful unlink on either block calls deps.Refresh.
func NewActionPanel(in ActionInput, deps Deps) *ActionPanel {
	scope := ActionScope(in.ActionID)
	return &ActionPanel{
		IDs: NewBlock(Config{
			Label:        Text(deps.Localizer, MsgActionIDsTitle),
			EmptyMessage: Text(deps.Localizer, MsgActionIDsEmpty),
			Kind:         KindAccount,
			Scope:        scope,
			AllowUnlink:  true,
		}, Source{Current: in.IDs}, deps),
		HWIDs: NewBlock(Config{
			Label:        Text(deps.Localizer, MsgActionHWIDsTitle),
			EmptyMessage: Text(deps.Localizer, MsgActionHWIDsEmpty),
			Kind:         KindHardware,
			Scope:        scope,
			AllowUnlink:  true,
		}, Source{Current: in.HWIDs}, deps),
	}
}

// Blocks returns the panel blocks in display order.
func (p *ActionPanel) Blocks() []*Block {
	return []*Block{p.IDs, p.HWIDs}
}

// Replace pushes refreshed action data into both blocks.
func (p *ActionPanel) Replace(in ActionInput) {
	p.IDs.Replace(Source{Current: in.IDs})
	p.HWIDs.Replace(Source{Current: in.HWIDs})
}

// PlayerInput is the identifier data of one player. The Known slices hold
// every identifier ever observed, current ones included.
type PlayerInput struct {
	Ref        PlayerRef
	IDs        []string
	KnownIDs   []string
	HWIDs      []string
	KnownHWIDs []string
}

// PlayerPanel shows current and historical identifiers of a player.
type PlayerPanel struct {
	IDs   *Block
	HWIDs *Block
}

// NewPlayerPanel mounts the account and hardware blocks of a player.
func NewPlayerPanel(in PlayerInput, deps Deps) *PlayerPanel {
	scope := PlayerScope(in.Ref)
	return &PlayerPanel{
		IDs: NewBlock(Config{
			Label:          Text(deps.Localizer, MsgPlayerIDsTitle),
			EmptyMessage:   Text(deps.Localizer, MsgPlayerIDsEmpty),
			Kind:           KindAccount,
			Scope:          scope,
			ShowHistorical: true,
			AllowUnlink:    true,
		}, Source{Current: in.IDs, Known: in.KnownIDs}, deps),
		HWIDs: NewBlock(Config{
			Label:          Text(deps.Localizer, MsgPlayerHWIDsTitle),
			EmptyMessage:   Text(deps.Localizer, MsgPlayerHWIDsEmpty),
			Kind:           KindHardware,
			Scope:          scope,
			ShowHistorical: true,
			AllowUnlink:    true,
		}, Source{Current: in.HWIDs, Known: in.KnownHWIDs}, deps),
	}
}

// Blocks returns the panel blocks in display order.
func (p *PlayerPanel) Blocks() []*Block {
	return []*Block{p.IDs, p.HWIDs}
}

// Replace pushes refreshed player data into both blocks.
func (p *PlayerPanel) Replace(in PlayerInput) {
	p.IDs.Replace(Source{Current: in.IDs, Known: in.KnownIDs})
	p.HWIDs.Replace(Source{Current: in.HWIDs, Known: in.KnownHWIDs})
}

// LastConnection is the identifier snapshot taken when a player last
// connected. A zero Timestamp means the time was not recorded.
type LastConnection struct {
	Timestamp time.Time
	IDs       []string
	HWIDs     []string
}

// LastConnectionInput carries the snapshot plus the clocks needed to
// correct its timestamp.
type LastConnectionInput struct {
	Connection *LastConnection
	ServerTime time.Time
	FetchedAt  time.Time
}

// LastConnectionPanel is the read-only last connection view.
type LastConnectionPanel struct {
	Title     string
	Timestamp string
	IDs       *Block
}

// NewLastConnectionPanel mounts the snapshot as one block. Account and
// hardware ids share the block; it never exposes unlink controls.
func NewLastConnectionPanel(in LastConnectionInput, deps Deps, format TimestampFormatter) *LastConnectionPanel {
	deps.Unlinker = nil
	deps.Refresh = nil
	if format.Localizer == nil {
		format.Localizer = deps.Localizer
	}

	var ts time.Time
	var src Source
	if conn := in.Connection; conn != nil {
		ts = conn.Timestamp
		src.Current = append(append([]string(nil), conn.IDs...), conn.HWIDs...)
	}
	return &LastConnectionPanel{
		Title:     Text(deps.Localizer, MsgLastConnTitle),
		Timestamp: format.Format(ts, in.ServerTime, in.FetchedAt),
		IDs: NewBlock(Config{
			Label:        Text(deps.Localizer, MsgLastConnIDsTitle),
			EmptyMessage: Text(deps.Localizer, MsgLastConnIDsEmpty),
			Kind:         KindAccount,
			Scope:        ReadOnlyScope(),
		}, src, deps),
	}
}

// Blocks returns the panel blocks in display order.
func (p *LastConnectionPanel) Blocks() []*Block {
	return []*Block{p.IDs}
}
