package console

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/louisbranch/identpanel/internal/identifiers"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 6 * time.Second

const noticeLoadFailed identifiers.NoticeCode = "load_failed"

// API is the admin surface the console reads and mutates.
type API interface {
	identifiers.Unlinker
	GetPlayer(ctx context.Context, ref identifiers.PlayerRef) (adminapi.PlayerResponse, error)
	GetAction(ctx context.Context, actionID string) (adminapi.ActionResponse, error)
}

type tabKind int

const (
	tabPlayerIDs tabKind = iota
	tabLastConnection
	tabAction
)

// Options configures a Model.
type Options struct {
	API         API
	Clipboard   identifiers.Clipboard
	Permissions identifiers.Permissions
	Localizer   identifiers.Localizer
	Player      identifiers.PlayerRef
	ActionID    string
	Now         func() time.Time
	// Location renders last connection timestamps; nil uses time.Local.
	Location *time.Location
}

type (
	playerLoadedMsg struct {
		resp      adminapi.PlayerResponse
		fetchedAt time.Time
		err       error
	}
	actionLoadedMsg struct {
		resp adminapi.ActionResponse
		err  error
	}
	unlinkResultMsg struct {
		block *identifiers.Block
		res   identifiers.UnlinkResult
	}
	copyResultMsg struct {
		block *identifiers.Block
		res   identifiers.CopyResult
	}
	toastExpiredMsg struct {
		seq int
	}
)

// Model is the Bubble Tea model of the operator console. Panels are mounted
// once and refreshed in place, so block state survives reloads until
// Replace resets it.
type Model struct {
	ctx       context.Context
	api       API
	clipboard identifiers.Clipboard
	perms     identifiers.Permissions
	loc       identifiers.Localizer
	now       func() time.Time
	location  *time.Location
	keys      keyMap
	spinner   spinner.Model

	playerRef identifiers.PlayerRef
	actionID  string
	tabs      []tabKind
	active    int
	block     int
	cursor    int

	player     *identifiers.PlayerPanel
	playerName string
	lastConn   *identifiers.LastConnectionPanel
	action     *identifiers.ActionPanel
	actionDoc  adminapi.Action

	toast         *identifiers.Notification
	toastSeq      int
	toastDirty    bool
	refreshAction bool
	spinning      bool
	width         int
}

// NewModel builds the console model. At least one of a valid player
// reference or an action id is required.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.API == nil {
		return nil, errors.New("admin api is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:       ctx,
		api:       opts.API,
		clipboard: opts.Clipboard,
		perms:     opts.Permissions,
		loc:       opts.Localizer,
		now:       opts.Now,
		location:  opts.Location,
		keys:      defaultKeyMap(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		playerRef: opts.Player,
		actionID:  strings.TrimSpace(opts.ActionID),
	}
	if m.loc == nil {
		m.loc = i18n.Printer(i18n.Default())
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.playerRef.Validate() == nil {
		m.tabs = append(m.tabs, tabPlayerIDs, tabLastConnection)
	}
	if m.actionID != "" {
		m.tabs = append(m.tabs, tabAction)
	}
	if len(m.tabs) == 0 {
		return nil, errors.New("a player reference or an action id is required")
	}
	return m, nil
}

// Init loads every configured subject.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmds()...)
}

// Update applies one message and schedules the follow-up commands it needs.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.update(msg)}
	if m.toastDirty {
		m.toastDirty = false
		seq := m.toastSeq
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }))
	}
	if m.refreshAction {
		m.refreshAction = false
		cmds = append(cmds, m.loadActionCmd())
	}
	if !m.spinning && m.busy() {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case playerLoadedMsg:
		if msg.err != nil {
			m.notifyLoadError(msg.err)
			return nil
		}
		m.applyPlayer(msg)
	case actionLoadedMsg:
		if msg.err != nil {
			m.notifyLoadError(msg.err)
			return nil
		}
		m.applyAction(msg.resp.Action)
	case unlinkResultMsg:
		if err := msg.block.Resolve(msg.res); err != nil && !errors.Is(err, identifiers.ErrNoResultPending) {
			log.Printf("resolve unlink %q: %v", msg.res.ID(), err)
		}
		m.clampCursor()
	case copyResultMsg:
		msg.block.ResolveCopy(msg.res)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % len(m.tabs)
		m.block, m.cursor = 0, 0
	case key.Matches(msg, m.keys.PrevBlock):
		if m.block > 0 {
			m.block--
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.NextBlock):
		if m.block < len(m.blocks())-1 {
			m.block++
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if block := m.currentBlock(); block != nil && m.cursor < len(block.Rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Copy):
		if block := m.currentBlock(); block != nil {
			return m.copyCmd(block)
		}
	case key.Matches(msg, m.keys.Unlink):
		return m.startUnlink()
	case key.Matches(msg, m.keys.Refresh):
		return tea.Batch(m.loadCmds()...)
	}
	return nil
}

func (m *Model) loadCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if m.playerRef.Validate() == nil {
		cmds = append(cmds, m.loadPlayerCmd())
	}
	if m.actionID != "" {
		cmds = append(cmds, m.loadActionCmd())
	}
	return cmds
}

func (m *Model) loadPlayerCmd() tea.Cmd {
	api, ctx, ref, now := m.api, m.ctx, m.playerRef, m.now
	return func() tea.Msg {
		resp, err := api.GetPlayer(ctx, ref)
		return playerLoadedMsg{resp: resp, fetchedAt: now(), err: err}
	}
}

func (m *Model) loadActionCmd() tea.Cmd {
	api, ctx, actionID := m.api, m.ctx, m.actionID
	return func() tea.Msg {
		resp, err := api.GetAction(ctx, actionID)
		return actionLoadedMsg{resp: resp, err: err}
	}
}

func (m *Model) copyCmd(block *identifiers.Block) tea.Cmd {
	clip, ctx, text := m.clipboard, m.ctx, block.CopyText()
	return func() tea.Msg {
		if clip == nil {
			return copyResultMsg{block: block, res: identifiers.CopyResult{Err: identifiers.ErrClipboardUnavailable}}
		}
		ok, err := clip.WriteText(ctx, text)
		return copyResultMsg{block: block, res: identifiers.CopyResult{OK: ok, Err: err}}
	}
}

// startUnlink marks the selected identifier in flight and returns the
// command that sends the request. A second press while a request is pending
// on the same block is dropped.
func (m *Model) startUnlink() tea.Cmd {
	block := m.currentBlock()
	if block == nil || block.Config().Scope.Kind() == identifiers.ScopeReadOnly {
		return nil
	}
	if !block.CanUnlink() {
		m.notify(identifiers.Notification{
			Code:    identifiers.NoticeUnlinkFailed,
			Title:   identifiers.Text(m.loc, identifiers.MsgUnlinkFailedTitle),
			Message: identifiers.Text(m.loc, identifiers.MsgUnlinkNotPermitted),
		})
		return nil
	}
	rows := block.Rows()
	if m.cursor >= len(rows) {
		return nil
	}
	req, err := block.BeginUnlink(rows[m.cursor].ID)
	switch {
	case errors.Is(err, identifiers.ErrUnlinkInFlight):
		return nil
	case errors.Is(err, identifiers.ErrNotCurrent):
		m.notify(identifiers.Notification{
			Code:    identifiers.NoticeUnlinkFailed,
			Title:   identifiers.Text(m.loc, identifiers.MsgUnlinkFailedTitle),
			Message: m.loc.Sprintf(i18n.KeyConsoleNoSelection),
		})
		return nil
	case err != nil:
		log.Printf("begin unlink: %v", err)
		return nil
	}

	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		if err := api.Unlink(ctx, req); err != nil {
			return unlinkResultMsg{block: block, res: identifiers.UnlinkFailed(req, err)}
		}
		return unlinkResultMsg{block: block, res: identifiers.UnlinkSucceeded(req)}
	}
}

func (m *Model) deps() identifiers.Deps {
	return identifiers.Deps{
		Unlinker:    m.api,
		Clipboard:   m.clipboard,
		Notifier:    identifiers.NotifierFunc(m.notify),
		Permissions: m.perms,
		Localizer:   m.loc,
		Refresh:     func() { m.refreshAction = true },
	}
}

func (m *Model) applyPlayer(msg playerLoadedMsg) {
	doc := msg.resp.Player
	in := identifiers.PlayerInput{
		Ref:        m.playerRef,
		IDs:        doc.IDs,
		KnownIDs:   doc.OldIDs,
		HWIDs:      doc.HWIDs,
		KnownHWIDs: doc.OldHWIDs,
	}
	if m.player == nil {
		m.player = identifiers.NewPlayerPanel(in, m.deps())
	} else {
		m.player.Replace(in)
	}
	m.playerName = doc.DisplayName
	if m.playerName == "" {
		m.playerName = doc.License
	}

	conn := identifiers.LastConnectionInput{
		ServerTime: adminapi.Time(msg.resp.ServerTime),
		FetchedAt:  msg.fetchedAt,
	}
	if last := doc.LastConnection; last != nil {
		conn.Connection = &identifiers.LastConnection{
			Timestamp: adminapi.Time(last.Timestamp),
			IDs:       last.IDs,
			HWIDs:     last.HWIDs,
		}
	}
	m.lastConn = identifiers.NewLastConnectionPanel(conn, m.deps(), identifiers.TimestampFormatter{Location: m.location})
	m.clampCursor()
}

func (m *Model) applyAction(doc adminapi.Action) {
	m.actionDoc = doc
	in := identifiers.ActionInput{ActionID: m.actionID, IDs: doc.IDs, HWIDs: doc.HWIDs}
	if m.action == nil {
		m.action = identifiers.NewActionPanel(in, m.deps())
	} else {
		m.action.Replace(in)
	}
	m.clampCursor()
}

func (m *Model) notify(n identifiers.Notification) {
	m.toast = &n
	m.toastSeq++
	m.toastDirty = true
}

func (m *Model) notifyLoadError(err error) {
	m.notify(identifiers.Notification{
		Code:    noticeLoadFailed,
		Title:   m.loc.Sprintf(i18n.KeyConsoleLoadFailed),
		Message: err.Error(),
	})
}

func (m *Model) blocks() []*identifiers.Block {
	switch m.tabs[m.active] {
	case tabPlayerIDs:
		if m.player != nil {
			return m.player.Blocks()
		}
	case tabLastConnection:
		if m.lastConn != nil {
			return m.lastConn.Blocks()
		}
	case tabAction:
		if m.action != nil {
			return m.action.Blocks()
		}
	}
	return nil
}

func (m *Model) currentBlock() *identifiers.Block {
	blocks := m.blocks()
	if m.block < 0 || m.block >= len(blocks) {
		return nil
	}
	return blocks[m.block]
}

func (m *Model) busy() bool {
	var all []*identifiers.Block
	if m.player != nil {
		all = append(all, m.player.Blocks()...)
	}
	if m.action != nil {
		all = append(all, m.action.Blocks()...)
	}
	for _, block := range all {
		if block.View().Busy {
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	block := m.currentBlock()
	if block == nil {
		m.cursor = 0
		return
	}
	if rows := len(block.Rows()); m.cursor >= rows {
		m.cursor = max(rows-1, 0)
	}
}

// View renders the active tab.
func (m *Model) View() string {
	var sections []string

	tabs := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(m.tabLabel(tab)))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	tab := m.tabs[m.active]
	if tab == tabAction {
		sections = append(sections, titleStyle.Render(m.loc.Sprintf(i18n.KeyActionTitle, m.actionID)))
		if m.action != nil {
			for _, line := range m.actionDetails() {
				sections = append(sections, detailStyle.Render(line))
			}
		}
	} else {
		sections = append(sections, titleStyle.Render(m.loc.Sprintf(i18n.KeyPlayerTitle, m.subjectName())))
		if tab == tabLastConnection && m.lastConn != nil {
			sections = append(sections, detailStyle.Render(m.lastConn.Title+": "+m.lastConn.Timestamp))
		}
	}

	blocks := m.blocks()
	if blocks == nil {
		sections = append(sections, emptyStyle.Render(m.loc.Sprintf(i18n.KeyConsoleLoading)))
	} else {
		rendered := make([]string, 0, len(blocks))
		for i, block := range blocks {
			rendered = append(rendered, m.renderBlock(block.View(), i == m.block))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	if m.toast != nil {
		text := m.toast.Message
		if m.toast.Title != "" {
			text = m.toast.Title + " " + text
		}
		sections = append(sections, toastStyle.Render(text))
	}
	help := helpStyle
	if m.width > 0 {
		help = help.Width(m.width)
	}
	sections = append(sections, help.Render(m.loc.Sprintf(i18n.KeyConsoleHelp)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) renderBlock(view identifiers.View, active bool) string {
	header := titleStyle.Render(view.Label)
	if view.Copied {
		header += " " + copiedStyle.Render(identifiers.Text(m.loc, identifiers.MsgCopied))
	}
	lines := []string{header}
	if view.Empty {
		lines = append(lines, emptyStyle.Render(view.EmptyMessage))
	}
	for i, row := range view.Rows {
		line := row.ID
		switch {
		case row.Pending:
			line = m.spinner.View() + " " + line
		case row.Historical:
			line = historicalStyle.Render(line)
		}
		if active && i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := blockStyle
	if active {
		style = activeBlockStyle
	}
	if view.Dense {
		style = style.Padding(0)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) tabLabel(tab tabKind) string {
	switch tab {
	case tabPlayerIDs:
		return m.loc.Sprintf(i18n.KeyPlayerTabIDs)
	case tabLastConnection:
		return m.loc.Sprintf(i18n.KeyPlayerTabLast)
	default:
		return m.loc.Sprintf(i18n.KeyActionTitle, m.actionID)
	}
}

func (m *Model) subjectName() string {
	if m.playerName != "" {
		return m.playerName
	}
	return m.playerRef.String()
}

func (m *Model) actionDetails() []string {
	doc := m.actionDoc
	author := doc.Author
	if author == "" {
		author = m.loc.Sprintf(i18n.KeyLabelUnknown)
	}
	details := []string{
		m.loc.Sprintf(i18n.KeyActionSummary, doc.Type, author, doc.Reason),
		m.loc.Sprintf(i18n.KeyActionUnlinks, doc.UnlinkCount),
	}
	if doc.LastUnlinkBy != "" {
		at := adminapi.Time(doc.LastUnlinkAt).In(m.timeLocation()).Format(identifiers.DefaultTimestampLayout)
		details = append(details, m.loc.Sprintf(i18n.KeyActionLastUnlink, doc.LastUnlinkBy, at))
	}
	return details
}

func (m *Model) timeLocation() *time.Location {
	if m.location != nil {
		return m.location
	}
	return time.Local
}
