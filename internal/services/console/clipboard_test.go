package console

import (
	"context"
	"errors"
	"testing"
)

func TestSystemClipboardWriteText(t *testing.T) {
	writeErr := errors.New("exit status 1")
	tests := []struct {
		name        string
		unsupported bool
		writeErr    error
		wantOK      bool
		wantErr     error
		wantWritten bool
	}{
		{name: "written", wantOK: true, wantWritten: true},
		{name: "unsupported", unsupported: true},
		{name: "write error", writeErr: writeErr, wantErr: writeErr, wantWritten: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var written string
			clip := SystemClipboard{
				unsupported: func() bool { return tc.unsupported },
				writeAll: func(text string) error {
					written = text
					return tc.writeErr
				},
			}
			ok, err := clip.WriteText(context.Background(), "discord:1\nlicense:abc")
			if ok != tc.wantOK || !errors.Is(err, tc.wantErr) {
				t.Fatalf("WriteText = %v, %v; want %v, %v", ok, err, tc.wantOK, tc.wantErr)
			}
			if got := written != ""; got != tc.wantWritten {
				t.Fatalf("written = %q", written)
			}
		})
	}
}

func TestSystemClipboardCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clip := SystemClipboard{writeAll: func(string) error {
		t.Fatal("unexpected write")
		return nil
	}}
	if ok, err := clip.WriteText(ctx, "x"); ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("WriteText = %v, %v", ok, err)
	}
}
