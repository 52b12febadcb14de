package requestctx

import (
	"context"
	"testing"
)

func TestOperatorFromContextRoundTrip(t *testing.T) {
	ctx := WithOperator(context.Background(), Operator{ID: "op-42", Permissions: []string{"players.ban"}})
	got, ok := OperatorFromContext(ctx)
	if !ok {
		t.Fatal("expected operator in context")
	}
	if got.ID != "op-42" {
		t.Fatalf("operator id = %q, want %q", got.ID, "op-42")
	}
	if OperatorIDFromContext(ctx) != "op-42" {
		t.Fatalf("OperatorIDFromContext = %q", OperatorIDFromContext(ctx))
	}
}

func TestOperatorFromContextMissing(t *testing.T) {
	if _, ok := OperatorFromContext(context.Background()); ok {
		t.Fatal("expected no operator")
	}
	if _, ok := OperatorFromContext(nil); ok {
		t.Fatal("expected no operator for nil context")
	}
	if got := OperatorIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestWithOperatorNilContext(t *testing.T) {
	ctx := WithOperator(nil, Operator{ID: "op-99"})
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if got := OperatorIDFromContext(ctx); got != "op-99" {
		t.Fatalf("OperatorIDFromContext = %q, want %q", got, "op-99")
	}
}

func TestOperatorHasPermission(t *testing.T) {
	tests := []struct {
		perms []string
		want  bool
	}{
		{perms: []string{"players.ban"}, want: true},
		{perms: []string{"all_permissions"}, want: true},
		{perms: []string{"players.warn"}, want: false},
		{perms: nil, want: false},
	}
	for _, tc := range tests {
		if got := (Operator{Permissions: tc.perms}).HasPermission("players.ban"); got != tc.want {
			t.Fatalf("HasPermission(%v) = %v, want %v", tc.perms, got, tc.want)
		}
	}
}
