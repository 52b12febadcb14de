package templates

import (
	"testing"

	"github.com/louisbranch/identpanel/internal/identifiers"
	"golang.org/x/text/message"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "hello") != "hello" {
		t.Fatal("expected key fallback")
	}

	if T(nil, message.Reference(123)) != "" {
		t.Fatal("expected empty string for non-string key")
	}
}

func TestTranslateMatchesIdentifierText(t *testing.T) {
	tests := []struct {
		name string
		loc  Localizer
	}{
		{name: "no localizer"},
		{name: "localizer", loc: fakeLocalizer{value: "translated"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := T(tc.loc, identifiers.MsgClipboardMissing)
			want := identifiers.Text(tc.loc, identifiers.MsgClipboardMissing)
			if got != want {
				t.Fatalf("T = %q, Text = %q", got, want)
			}
		})
	}
	if got := T(nil, identifiers.MsgCopied); got != identifiers.DefaultMessages[identifiers.MsgCopied] {
		t.Fatalf("T(nil, copied) = %q", got)
	}
}

func TestTranslateLocalizer(t *testing.T) {
	loc := fakeLocalizer{value: "translated"}
	if T(loc, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestUnlinkCountLabelWithoutLocalizer(t *testing.T) {
	if got := UnlinkCountLabel(nil, 3); got != "3" {
		t.Fatalf("label = %q", got)
	}
}
