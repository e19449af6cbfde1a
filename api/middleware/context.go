package middleware

import "context"

type contextKey string

const (
	ctxUserUUID   contextKey = "user_uuid"
	ctxActorType  contextKey = "actor_type"
	ctxAuthSource contextKey = "auth_source"
)

func UserUUIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserUUID).(string); ok {
		return v
	}
	return ""
}

func ActorTypeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorType).(string); ok {
		return v
	}
	return ""
}

// AuthSourceFromContext returns the identity-provider tag from the verified
// token, used for lazy user creation.
func AuthSourceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAuthSource).(string); ok {
		return v
	}
	return ""
}

// WithUserUUID injects the user identifier into the context.
func WithUserUUID(ctx context.Context, userUUID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserUUID, userUUID)
}

// WithActorType injects the actor type into the context.
func WithActorType(ctx context.Context, actorType string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorType, actorType)
}

// WithAuthSource injects the identity-provider tag into the context.
func WithAuthSource(ctx context.Context, source string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAuthSource, source)
}
