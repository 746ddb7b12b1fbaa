package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/internal/coupons"
	"github.com/rferreira-dev/survshop-backend/internal/delivery"
	"github.com/rferreira-dev/survshop-backend/internal/entitlements"
	"github.com/rferreira-dev/survshop-backend/internal/identity"
	"github.com/rferreira-dev/survshop-backend/internal/payments"
	"github.com/rferreira-dev/survshop-backend/internal/records"
	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/notify"
	"github.com/rferreira-dev/survshop-backend/pkg/paypal"
	"github.com/rferreira-dev/survshop-backend/pkg/remotefs"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubGateway struct{}

func (stubGateway) CreateOrder(context.Context, paypal.CreateParams) (*paypal.CreatedOrder, error) {
	return &paypal.CreatedOrder{PaymentID: "PAY-1", ApprovalURL: "https://pay.example/PAY-1"}, nil
}

func (stubGateway) GetStatus(context.Context, string) (paypal.Status, error) {
	return paypal.StatusPending, nil
}

func (stubGateway) Currency() string { return "EUR" }

type stubNotifier struct{}

func (stubNotifier) Delivered(context.Context, notify.Event) {}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "router.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.CatalogItem{},
		&models.Coupon{},
		&models.PendingPayment{},
		&models.PurchaseRecord{},
		&models.EntitlementBalance{},
		&models.SteamLink{},
		&models.RedemptionEvent{},
	))

	logg := logger.New(logger.Options{ServiceName: "router-test"})
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	deliveryCfg := config.DeliveryConfig{
		Mode:        config.DeliveryModeLocal,
		PlayerPath:  "players",
		BankingPath: "banking",
		VehiclePath: "vehicles",
	}
	store, err := remotefs.NewLocal(t.TempDir())
	require.NoError(t, err)
	engine, err := delivery.NewEngine(store, deliveryCfg, logg)
	require.NoError(t, err)

	catalogService, err := catalog.NewService(catalog.NewRepository(conn), logg)
	require.NoError(t, err)
	couponService, err := coupons.NewService(coupons.NewRepository(conn), logg)
	require.NoError(t, err)
	identityService, err := identity.NewService(identity.NewRepository(conn), logg)
	require.NoError(t, err)

	purchaseRepo := records.NewRepository(conn)
	redemptionRepo := records.NewRedemptionRepository(conn)
	recordService, err := records.NewService(purchaseRepo, redemptionRepo)
	require.NoError(t, err)

	entitlementService, err := entitlements.NewService(
		entitlements.NewRepository(conn), purchaseRepo, redemptionRepo, engine, logg, nil,
	)
	require.NoError(t, err)

	paymentService, err := payments.NewService(payments.Deps{
		Pending:   payments.NewRepository(conn),
		Purchases: purchaseRepo,
		Resolver:  catalogService,
		Coupons:   couponService,
		Deliverer: engine,
		Accruer:   entitlementService,
		Gateway:   stubGateway{},
		Identity:  identityService,
		Notifier:  stubNotifier{},
		Logger:    logg,
	})
	require.NoError(t, err)

	return NewRouter(
		cfg, logg, stubPinger{},
		catalogService, couponService, paymentService,
		recordService, entitlementService, identityService,
		engine, nil,
	)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "test", rec.Header().Get("X-Survshop-Env"), path)
	}
}

func TestRouterCatalogRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"name":"AK Bundle","price":"12.50","variations":[{"name":"Default"}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "AK Bundle")
}

func TestRouterValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insurance/balance/not-a-steam-id", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"buyer_id":"buyer-1","steam_id":"123"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/identity/link", body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
