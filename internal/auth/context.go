package auth

import "context"

// Actor is the authenticated identity performing a request. It is passed
// explicitly into every operation that needs it rather than read from any
// ambient request-bound state.
type Actor struct {
	ID       string
	Role     string
	Verified bool
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

type ctxKey string

const actorKey ctxKey = "actor"

// WithActor stores the authenticated actor on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok && actor.ID != ""
}
