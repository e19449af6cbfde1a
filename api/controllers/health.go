package controllers

import (
	"context"
	"net/http"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

const envHeader = "X-VaultKeeper-Env"

// Pinger is the readiness surface shared by the backing clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				ctx := logg.WithField(r.Context(), "dependency", name)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
