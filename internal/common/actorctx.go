package common

import "context"

type ctxKey string

const actorIDKey ctxKey = "auth/actor-id"

// WithActorID stores the acting user identifier on the provided context.
// The surrounding auth layer populates it; settlement records it as processedBy.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorID extracts the acting user identifier from the context if present.
func ActorID(ctx context.Context) (string, bool) {
	v := ctx.Value(actorIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
