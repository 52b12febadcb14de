package requestctx

import (
	"context"
	"slices"
)

// operatorContextKey is the context key for the authenticated operator.
type operatorContextKey struct{}

// Operator is the authenticated dashboard operator.
type Operator struct {
	ID          string
	Permissions []string
}

// masterPermission implies every other permission.
const masterPermission = "all_permissions"

// HasPermission reports whether the operator holds permission.
func (o Operator) HasPermission(permission string) bool {
	return slices.Contains(o.Permissions, permission) || slices.Contains(o.Permissions, masterPermission)
}

// WithOperator stores the operator in context.
func WithOperator(ctx context.Context, operator Operator) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, operatorContextKey{}, operator)
}

// OperatorFromContext returns the operator stored in context.
func OperatorFromContext(ctx context.Context) (Operator, bool) {
	if ctx == nil {
		return Operator{}, false
	}
	operator, ok := ctx.Value(operatorContextKey{}).(Operator)
	return operator, ok
}

// OperatorIDFromContext returns the operator id stored in context, or "".
func OperatorIDFromContext(ctx context.Context) string {
	operator, _ := OperatorFromContext(ctx)
	return operator.ID
}
