package console

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/louisbranch/identpanel/internal/identifiers"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/i18n"
	"golang.org/x/text/language"
)

type fakeAPI struct {
	mu        sync.Mutex
	player    adminapi.PlayerResponse
	action    adminapi.ActionResponse
	loadErr   error
	unlinkErr error
	unlinks   []identifiers.UnlinkRequest
}

func (f *fakeAPI) Unlink(_ context.Context, req identifiers.UnlinkRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlinks = append(f.unlinks, req)
	return f.unlinkErr
}

func (f *fakeAPI) GetPlayer(context.Context, identifiers.PlayerRef) (adminapi.PlayerResponse, error) {
	return f.player, f.loadErr
}

func (f *fakeAPI) GetAction(context.Context, string) (adminapi.ActionResponse, error) {
	return f.action, f.loadErr
}

type fakeClipboard struct {
	ok   bool
	err  error
	text string
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) (bool, error) {
	c.text = text
	return c.ok, c.err
}

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		player: adminapi.PlayerResponse{
			ServerTime: testNow.Unix(),
			Player: adminapi.Player{
				License:     "license:abc",
				DisplayName: "Tester",
				IDs:         []string{"license:abc", "discord:1"},
				OldIDs:      []string{"license:abc", "discord:1", "discord:0"},
				HWIDs:       []string{"2:aaa"},
				OldHWIDs:    []string{"2:aaa"},
				LastConnection: &adminapi.LastConnection{
					Timestamp: testNow.Add(-time.Hour).Unix(),
					IDs:       []string{"license:abc"},
					HWIDs:     []string{"2:aaa"},
				},
			},
		},
		action: adminapi.ActionResponse{
			ServerTime: testNow.Unix(),
			Action: adminapi.Action{
				ID:     "A1B2-C3D4",
				Type:   "ban",
				Author: "admin",
				Reason: "cheating",
				IDs:    []string{"license:abc"},
				HWIDs:  []string{"2:aaa", "3:bbb"},
			},
		},
	}
}

func newTestModel(t *testing.T, api *fakeAPI, opts Options) *Model {
	t.Helper()
	opts.API = api
	if opts.Localizer == nil {
		opts.Localizer = i18n.Printer(language.English)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	m, err := NewModel(context.Background(), opts)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func loadAll(t *testing.T, m *Model) {
	t.Helper()
	for _, cmd := range m.loadCmds() {
		m.Update(cmd())
	}
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func banPermissions() identifiers.PermissionSet {
	return identifiers.PermissionSet{identifiers.PermissionPlayersBan}
}

func TestNewModelRequiresSubject(t *testing.T) {
	if _, err := NewModel(context.Background(), Options{API: newFakeAPI()}); err == nil {
		t.Fatal("expected error without subject")
	}
	if _, err := NewModel(context.Background(), Options{ActionID: "A1"}); err == nil {
		t.Fatal("expected error without api")
	}
}

func TestNewModelTabs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []tabKind
	}{
		{name: "player", opts: Options{Player: identifiers.PlayerRef{License: "license:abc"}}, want: []tabKind{tabPlayerIDs, tabLastConnection}},
		{name: "action", opts: Options{ActionID: "A1"}, want: []tabKind{tabAction}},
		{
			name: "both",
			opts: Options{Player: identifiers.PlayerRef{Mutex: "core", NetID: 3}, ActionID: "A1"},
			want: []tabKind{tabPlayerIDs, tabLastConnection, tabAction},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestModel(t, newFakeAPI(), tc.opts)
			if len(m.tabs) != len(tc.want) {
				t.Fatalf("tabs = %v, want %v", m.tabs, tc.want)
			}
			for i := range tc.want {
				if m.tabs[i] != tc.want[i] {
					t.Fatalf("tabs = %v, want %v", m.tabs, tc.want)
				}
			}
		})
	}
}

func TestModelRendersLoadedPlayer(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), Options{Player: identifiers.PlayerRef{License: "license:abc"}})
	if view := m.View(); !strings.Contains(view, "Loading...") {
		t.Fatalf("expected loading view, got %q", view)
	}
	loadAll(t, m)

	view := m.View()
	for _, want := range []string{"Player Tester", "Player Identifiers", "discord:1", "discord:0", "Player Hardware IDs", "2:aaa"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	view = m.View()
	if !strings.Contains(view, "Last Connection: 03/14/2026, 14:09") {
		t.Fatalf("view missing last connection timestamp:\n%s", view)
	}
}

func TestModelUnlinkInPlayerScope(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{Player: identifiers.PlayerRef{License: "license:abc"}, Permissions: banPermissions()})
	loadAll(t, m)

	cmd := m.startUnlink()
	if cmd == nil {
		t.Fatal("expected unlink command")
	}
	if !m.busy() {
		t.Fatal("expected busy model while unlink is pending")
	}
	if again := m.startUnlink(); again != nil {
		t.Fatal("expected second unlink to be dropped")
	}

	m.update(cmd())
	if len(api.unlinks) != 1 {
		t.Fatalf("unlinks = %d, want 1", len(api.unlinks))
	}
	req := api.unlinks[0]
	if req.ID != "discord:1" || req.Scope.Kind() != identifiers.ScopePlayer || req.Kind != identifiers.KindAccount {
		t.Fatalf("request = %+v", req)
	}
	if m.refreshAction {
		t.Fatal("player scope must not queue a refresh")
	}
	block := m.currentBlock()
	for _, id := range block.Current() {
		if id == "discord:1" {
			t.Fatalf("discord:1 still current: %v", block.Current())
		}
	}
	if m.busy() {
		t.Fatal("expected idle model after resolve")
	}
}

func TestModelUnlinkInActionScopeQueuesRefresh(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{ActionID: "A1B2-C3D4", Permissions: banPermissions()})
	loadAll(t, m)

	m.handleKey(runeKey("l"))
	m.handleKey(runeKey("j"))
	cmd := m.startUnlink()
	if cmd == nil {
		t.Fatal("expected unlink command")
	}
	m.update(cmd())

	if got := api.unlinks[0]; got.ID != "3:bbb" || got.Kind != identifiers.KindHardware {
		t.Fatalf("request = %+v", got)
	}
	if !m.refreshAction {
		t.Fatal("expected refresh to be queued")
	}
	m.Update(nil)
	if m.refreshAction {
		t.Fatal("expected refresh flag to be consumed")
	}
}

func TestModelRefreshKeepsOtherBlockPending(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{ActionID: "A1B2-C3D4", Permissions: banPermissions()})
	loadAll(t, m)

	idsCmd := m.startUnlink()
	m.handleKey(runeKey("l"))
	hwidsCmd := m.startUnlink()
	if idsCmd == nil || hwidsCmd == nil {
		t.Fatal("expected both blocks to start an unlink")
	}

	m.Update(idsCmd())
	api.action.Action.IDs = nil
	api.action.Action.UnlinkCount = 1
	m.Update(m.loadActionCmd()())

	if !m.action.HWIDs.View().Busy {
		t.Fatal("expected hardware block to stay pending after refresh")
	}
	if cmd := m.startUnlink(); cmd != nil {
		t.Fatal("expected second unlink on pending block to be dropped")
	}

	api.unlinkErr = errors.New("identifier is not linked")
	m.Update(hwidsCmd())
	if len(api.unlinks) != 2 {
		t.Fatalf("unlinks = %d, want 2", len(api.unlinks))
	}
	if m.toast == nil || m.toast.Code != identifiers.NoticeUnlinkFailed || m.toast.Message != "identifier is not linked" {
		t.Fatalf("toast = %+v", m.toast)
	}
	if got := m.action.HWIDs.Current(); len(got) != 2 {
		t.Fatalf("hwids = %v, want unchanged", got)
	}
}

func TestModelUnlinkFailureNotifies(t *testing.T) {
	api := newFakeAPI()
	api.unlinkErr = errors.New("identifier is not linked")
	m := newTestModel(t, api, Options{Player: identifiers.PlayerRef{License: "license:abc"}, Permissions: banPermissions()})
	loadAll(t, m)

	m.update(m.startUnlink()())
	if m.toast == nil || m.toast.Code != identifiers.NoticeUnlinkFailed || m.toast.Message != "identifier is not linked" {
		t.Fatalf("toast = %+v", m.toast)
	}
	if got := m.currentBlock().Current(); len(got) != 2 {
		t.Fatalf("current = %v, want unchanged", got)
	}
	if view := m.View(); !strings.Contains(view, "Failed to unlink identifier: identifier is not linked") {
		t.Fatalf("view missing toast:\n%s", view)
	}
}

func TestModelUnlinkWithoutPermission(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{Player: identifiers.PlayerRef{License: "license:abc"}})
	loadAll(t, m)

	if cmd := m.handleKey(runeKey("u")); cmd != nil {
		t.Fatal("expected no command")
	}
	if m.toast == nil || m.toast.Message != identifiers.DefaultMessages[identifiers.MsgUnlinkNotPermitted] {
		t.Fatalf("toast = %+v", m.toast)
	}
	if len(api.unlinks) != 0 {
		t.Fatalf("unlinks = %d, want 0", len(api.unlinks))
	}
}

func TestModelUnlinkHistoricalRow(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{Player: identifiers.PlayerRef{License: "license:abc"}, Permissions: banPermissions()})
	loadAll(t, m)

	m.handleKey(runeKey("j"))
	m.handleKey(runeKey("j"))
	m.handleKey(runeKey("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	if cmd := m.startUnlink(); cmd != nil {
		t.Fatal("expected historical unlink to be refused")
	}
	if m.toast == nil || m.toast.Message != "Select a linked identifier first." {
		t.Fatalf("toast = %+v", m.toast)
	}
}

func TestModelLastConnectionIsReadOnly(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{Player: identifiers.PlayerRef{License: "license:abc"}, Permissions: banPermissions()})
	loadAll(t, m)

	m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if cmd := m.startUnlink(); cmd != nil {
		t.Fatal("expected read-only block to ignore unlink")
	}
	if m.toast != nil {
		t.Fatalf("toast = %+v, want none", m.toast)
	}
}

func TestModelCopy(t *testing.T) {
	tests := []struct {
		name       string
		clipboard  *fakeClipboard
		wantCopied bool
		wantCode   identifiers.NoticeCode
		wantText   string
	}{
		{name: "success", clipboard: &fakeClipboard{ok: true}, wantCopied: true},
		{name: "refused", clipboard: &fakeClipboard{}, wantCode: identifiers.NoticeCopyFailed},
		{name: "error", clipboard: &fakeClipboard{err: errors.New("xclip missing")}, wantCode: identifiers.NoticeCopyError},
		{name: "no clipboard", wantCode: identifiers.NoticeCopyError, wantText: "No clipboard is available."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{ActionID: "A1B2-C3D4"}
			if tc.clipboard != nil {
				opts.Clipboard = tc.clipboard
			}
			m := newTestModel(t, newFakeAPI(), opts)
			loadAll(t, m)

			cmd := m.handleKey(runeKey("c"))
			if cmd == nil {
				t.Fatal("expected copy command")
			}
			m.Update(cmd())

			block := m.currentBlock()
			if block.Copied() != tc.wantCopied {
				t.Fatalf("copied = %v, want %v", block.Copied(), tc.wantCopied)
			}
			if tc.clipboard != nil && tc.clipboard.text != "license:abc" {
				t.Fatalf("clipboard text = %q", tc.clipboard.text)
			}
			if tc.wantCopied {
				if !strings.Contains(m.View(), "Copied!") {
					t.Fatal("view missing copied marker")
				}
				return
			}
			if m.toast == nil || m.toast.Code != tc.wantCode {
				t.Fatalf("toast = %+v, want code %q", m.toast, tc.wantCode)
			}
			if tc.wantText != "" && m.toast.Message != tc.wantText {
				t.Fatalf("toast message = %q, want %q", m.toast.Message, tc.wantText)
			}
		})
	}
}

func TestModelLoadFailureAndToastExpiry(t *testing.T) {
	api := newFakeAPI()
	api.loadErr = errors.New("connection refused")
	m := newTestModel(t, api, Options{ActionID: "A1"})
	loadAll(t, m)

	if m.toast == nil || m.toast.Code != noticeLoadFailed || m.toast.Message != "connection refused" {
		t.Fatalf("toast = %+v", m.toast)
	}
	seq := m.toastSeq
	m.Update(toastExpiredMsg{seq: seq - 1})
	if m.toast == nil {
		t.Fatal("stale expiry cleared the toast")
	}
	m.Update(toastExpiredMsg{seq: seq})
	if m.toast != nil {
		t.Fatalf("toast = %+v, want cleared", m.toast)
	}
}

func TestModelActionDetailsAfterReload(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, Options{ActionID: "A1B2-C3D4", Permissions: banPermissions()})
	loadAll(t, m)
	before := m.action.IDs

	api.action.Action.IDs = nil
	api.action.Action.UnlinkCount = 1
	api.action.Action.LastUnlinkBy = "op-1"
	api.action.Action.LastUnlinkAt = testNow.Unix()
	m.Update(m.loadActionCmd()())

	if m.action.IDs != before {
		t.Fatal("expected panel blocks to be refreshed in place")
	}
	view := m.View()
	for _, want := range []string{"ban by admin: cheating", "Unlinked identifiers: 1", "Last unlink by op-1 at 03/14/2026, 15:09", "This action targets no identifiers."} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), Options{ActionID: "A1"})
	cmd := m.handleKey(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}
