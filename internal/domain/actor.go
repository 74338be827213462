package domain

import "context"

// Permission names and scopes understood by the permission store.
const (
	PermMilestoneAccess = "milestone-access"
	ScopeCore           = "core"
)

// User is the acting user on whose behalf an operation runs.
type User struct {
	ID      string
	GroupID string
}

type actorKey struct{}

// WithActor returns a context carrying u as the acting user.
func WithActor(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

// ActorFrom returns the acting user stored in ctx, if any.
func ActorFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(actorKey{}).(User)
	return u, ok
}
