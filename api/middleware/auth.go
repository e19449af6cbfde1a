package middleware

import (
	"net/http"
	"strings"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	pkgauth "github.com/rmirandacr/vaultkeeper-backend/pkg/auth"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserUUID(r.Context(), claims.UserUUID.String())
			ctx = WithActorType(ctx, string(claims.Actor))
			ctx = WithAuthSource(ctx, claims.Issuer)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_uuid":  claims.UserUUID.String(),
					"actor_type": string(claims.Actor),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
