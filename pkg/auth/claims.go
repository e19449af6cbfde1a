package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserUUID uuid.UUID
	Actor    enums.ActorType
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserUUID uuid.UUID       `json:"user_uuid"`
	Actor    enums.ActorType `json:"actor"`
	jwt.RegisteredClaims
}
