package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmirandacr/vaultkeeper-backend/api/controllers"
	webhookcontrollers "github.com/rmirandacr/vaultkeeper-backend/api/controllers/webhooks"
	"github.com/rmirandacr/vaultkeeper-backend/api/middleware"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/inventory"
	"github.com/rmirandacr/vaultkeeper-backend/internal/listings"
	"github.com/rmirandacr/vaultkeeper-backend/internal/submissions"
	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	webhookminting "github.com/rmirandacr/vaultkeeper-backend/internal/webhooks/minting"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers map[string]controllers.Pinger,
	resolver *controllers.ActorResolver,
	submissionsSvc submissions.Service,
	vaultingsSvc vaultings.Service,
	listingsSvc listings.Service,
	inventorySvc inventory.Service,
	auditSvc auditlog.Service,
	webhookGuard *webhookminting.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/minting", webhookcontrollers.MintingWebhook(vaultingsSvc, webhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/submissions", func(r chi.Router) {
			r.Post("/", controllers.SubmissionCreate(submissionsSvc, logg))
			r.Get("/", controllers.SubmissionList(submissionsSvc, logg))
			r.Get("/{submissionId}", controllers.SubmissionGet(submissionsSvc, logg))
		})

		r.Route("/items/{itemUUID}", func(r chi.Router) {
			r.Get("/vaulting", controllers.VaultingGet(vaultingsSvc, logg))
			r.Post("/vaulting/withdraw", controllers.VaultingWithdraw(vaultingsSvc, resolver, logg))

			r.Post("/listing", controllers.ListingCreate(listingsSvc, resolver, logg))
			r.Get("/listing", controllers.ListingGet(listingsSvc, logg))
			r.Patch("/listing/price", controllers.ListingUpdatePrice(listingsSvc, resolver, logg))

			r.Get("/inventory", controllers.InventoryGet(inventorySvc, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireActor(enums.ActorTypeAdmin, logg))

		r.Route("/submissions/{submissionId}", func(r chi.Router) {
			r.Post("/receive", controllers.SubmissionReceive(submissionsSvc, resolver, logg))
			r.Post("/approve", controllers.SubmissionApprove(submissionsSvc, resolver, logg))
			r.Post("/reject", controllers.SubmissionReject(submissionsSvc, resolver, logg))
		})

		r.Route("/items/{itemUUID}", func(r chi.Router) {
			r.Post("/vaulting", controllers.VaultingCreate(vaultingsSvc, resolver, logg))
			r.Post("/listing/sold", controllers.ListingMarkSold(listingsSvc, resolver, logg))
			r.Post("/listing/ended", controllers.ListingMarkEnded(listingsSvc, resolver, logg))
			r.Post("/inventory", controllers.InventoryAssign(inventorySvc, resolver, logg))
			r.Patch("/inventory", controllers.InventoryUpdate(inventorySvc, resolver, logg))
		})

		r.Get("/inventory", controllers.InventoryList(inventorySvc, logg))
		r.Get("/audit", controllers.AuditList(auditSvc, logg))
	})

	return r
}
