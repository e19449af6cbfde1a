package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/api/middleware"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
)

// ActorResolver turns the verified token claims in the request context into
// an audit actor, lazily creating the user row on first reference.
type ActorResolver struct {
	users *users.Repository
}

func NewActorResolver(userRepo *users.Repository) *ActorResolver {
	return &ActorResolver{users: userRepo}
}

func (a *ActorResolver) Resolve(ctx context.Context) (auditlog.Actor, uuid.UUID, error) {
	raw := middleware.UserUUIDFromContext(ctx)
	if raw == "" {
		return auditlog.Actor{}, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userUUID, err := uuid.Parse(raw)
	if err != nil {
		return auditlog.Actor{}, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	actorType, err := enums.ParseActorType(middleware.ActorTypeFromContext(ctx))
	if err != nil {
		return auditlog.Actor{}, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}

	source := middleware.AuthSourceFromContext(ctx)
	if source == "" {
		source = "unknown"
	}

	user, err := a.users.EnsureByUUID(ctx, userUUID, source)
	if err != nil {
		return auditlog.Actor{}, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve actor")
	}

	return auditlog.Actor{ID: user.ID, Type: actorType}, userUUID, nil
}
