package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
)

func TestParseFixture(t *testing.T) {
	doc := `{
		"players": [{
			"license": "abc",
			"displayName": "tabarra",
			"ids": ["license:abc"],
			"oldIds": ["license:abc", "discord:1"],
			"lastConnection": {"timestamp": 1700000000, "ids": ["license:abc"], "hwids": ["2:ff"]},
			"sessions": [{"mutex": "core", "netid": 4}]
		}],
		"actions": [{"id": "A1B2-C3D4", "type": "ban", "ids": ["license:abc"]}]
	}`
	fixture, err := ParseFixture(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if len(fixture.Players) != 1 || fixture.Players[0].LastConnection == nil {
		t.Fatalf("players = %+v", fixture.Players)
	}
	if got := fixture.Players[0].Sessions[0]; got.Mutex != "core" || got.NetID != 4 {
		t.Fatalf("session = %+v", got)
	}
	if len(fixture.Actions) != 1 || fixture.Actions[0].ID != "A1B2-C3D4" {
		t.Fatalf("actions = %+v", fixture.Actions)
	}
}

func TestParseFixtureRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "syntax", doc: `{"players": [`},
		{name: "unknown field", doc: `{"servers": []}`},
		{name: "missing license", doc: `{"players": [{"ids": ["a"]}]}`},
		{name: "duplicate license", doc: `{"players": [{"license": "a"}, {"license": "a"}]}`},
		{name: "bad session", doc: `{"players": [{"license": "a", "sessions": [{"mutex": "core"}]}]}`},
		{name: "missing action id", doc: `{"actions": [{"type": "ban"}]}`},
		{name: "duplicate action", doc: `{"actions": [{"id": "x"}, {"id": "x"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFixture(strings.NewReader(tc.doc))
			if !errors.Is(err, apperrors.New(apperrors.CodeFixtureInvalid, "")) {
				t.Fatalf("err = %v, want FIXTURE_INVALID", err)
			}
		})
	}
}

func TestUnixTime(t *testing.T) {
	if !UnixTime(0).IsZero() {
		t.Fatal("zero seconds should stay zero")
	}
	if got := UnixTime(1700000000); !got.Equal(time.Unix(1700000000, 0)) || got.Location() != time.UTC {
		t.Fatalf("UnixTime = %v", got)
	}
}
