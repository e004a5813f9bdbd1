package engine

import "context"

type actorKey struct{}

// DefaultActor is recorded on events when the caller did not identify itself.
const DefaultActor = "local-user"

// WithActor attaches the acting user to ctx for audit events.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultActor
}
