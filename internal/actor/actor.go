// Package actor carries the authenticated user id through context.Context.
package actor

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// User returns the acting user, or uuid.Nil when none was set.
func User(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxKey{}).(uuid.UUID)
	return id
}
