package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rferreira-dev/survshop-backend/api/controllers"
	"github.com/rferreira-dev/survshop-backend/api/middleware"
	catalogsvc "github.com/rferreira-dev/survshop-backend/internal/catalog"
	couponsvc "github.com/rferreira-dev/survshop-backend/internal/coupons"
	"github.com/rferreira-dev/survshop-backend/internal/delivery"
	entitlesvc "github.com/rferreira-dev/survshop-backend/internal/entitlements"
	identitysvc "github.com/rferreira-dev/survshop-backend/internal/identity"
	paymentsvc "github.com/rferreira-dev/survshop-backend/internal/payments"
	recordsvc "github.com/rferreira-dev/survshop-backend/internal/records"
	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	catalogService catalogsvc.Service,
	couponService couponsvc.Service,
	paymentService paymentsvc.Service,
	recordService recordsvc.Service,
	entitlementService entitlesvc.Service,
	identityService identitysvc.Service,
	deliveryEngine *delivery.Engine,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/items", controllers.ListCatalogItems(catalogService, logg))
		r.Get("/items/{itemID}", controllers.GetCatalogItem(catalogService, logg))
	})

	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Post("/", controllers.CreatePurchase(paymentService, logg))
		r.Post("/{paymentID}/poll", controllers.PollPurchase(paymentService, logg))
		r.Post("/{paymentID}/cancel", controllers.CancelPurchase(paymentService, logg))
		r.Get("/pending/{buyerID}", controllers.ListPendingPurchases(paymentService, logg))
		r.Get("/buyer/{buyerID}", controllers.ListBuyerPurchases(recordService, logg))
		r.Get("/player/{steamID}", controllers.ListPlayerPurchases(recordService, logg))
		r.Get("/{recordID}", controllers.GetPurchase(recordService, logg))
	})

	r.Route("/api/v1/insurance", func(r chi.Router) {
		r.Get("/balance/{steamID}", controllers.GetEntitlementBalance(entitlementService, logg))
		r.Post("/redeem", controllers.RedeemEntitlement(entitlementService, identityService, logg))
		r.Get("/redemptions/{steamID}", controllers.ListRedemptions(recordService, logg))
	})

	r.Route("/api/v1/identity", func(r chi.Router) {
		r.Post("/link", controllers.LinkSteamID(identityService, logg))
		r.Get("/{buyerID}", controllers.GetSteamLink(identityService, logg))
		r.Delete("/{buyerID}", controllers.UnlinkSteamID(identityService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.CreateCatalogItem(catalogService, logg))
			r.Post("/balance-package", controllers.CreateBalancePackage(catalogService, logg))
			r.Patch("/{itemID}", controllers.UpdateCatalogItem(catalogService, logg))
			r.Delete("/{itemID}", controllers.DeleteCatalogItem(catalogService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", controllers.CreateCoupon(couponService, logg))
			r.Get("/", controllers.ListCoupons(couponService, logg))
			r.Get("/{code}", controllers.GetCoupon(couponService, logg))
			r.Patch("/{code}", controllers.UpdateCoupon(couponService, logg))
			r.Delete("/{code}", controllers.DeleteCoupon(couponService, logg))
		})

		r.Post("/players/{steamID}/clear-file", controllers.ClearPlayerFile(deliveryEngine, logg))
		r.Post("/catalog/migrate-legacy", controllers.MigrateLegacyScripts(catalogService, logg))
	})

	return r
}
