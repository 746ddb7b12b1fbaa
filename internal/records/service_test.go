package records

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "records.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.PurchaseRecord{}, &models.RedemptionEvent{}))
	return conn
}

func seedPurchase(t *testing.T, repo *Repository, buyerID, steamID string, vehicle bool, drops int, createdAt time.Time) *models.PurchaseRecord {
	t.Helper()

	record, err := repo.Create(context.Background(), &models.PurchaseRecord{
		BuyerID:        buyerID,
		ItemID:         uuid.New(),
		ItemName:       "Humvee",
		SteamID:        steamID,
		AmountPaid:     decimal.NewFromFloat(24.99),
		IsVehicle:      vehicle,
		RemainingDrops: drops,
		CreatedAt:      createdAt,
	})
	require.NoError(t, err)
	return record
}

func TestServiceGet(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, NewRedemptionRepository(conn))
	require.NoError(t, err)

	seeded := seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 2, time.Now())

	got, err := svc.Get(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "Humvee", got.ItemName)
	require.True(t, got.AmountPaid.Equal(decimal.NewFromFloat(24.99)))

	_, err = svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceListByBuyerNewestFirst(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, NewRedemptionRepository(conn))
	require.NoError(t, err)

	now := time.Now()
	older := seedPurchase(t, repo, "buyer-1", "76561197960287930", false, 0, now.Add(-time.Hour))
	newer := seedPurchase(t, repo, "buyer-1", "76561197960287930", false, 0, now)
	seedPurchase(t, repo, "buyer-2", "76561197960287931", false, 0, now)

	out, err := svc.ListByBuyer(context.Background(), "buyer-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, newer.ID, out[0].ID)
	require.Equal(t, older.ID, out[1].ID)
}

func TestListRedeemableOldestFirstAndFiltered(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	now := time.Now()
	first := seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 1, now.Add(-2*time.Hour))
	second := seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 3, now.Add(-time.Hour))
	seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 0, now.Add(-3*time.Hour))
	seedPurchase(t, repo, "buyer-1", "76561197960287930", false, 5, now)
	seedPurchase(t, repo, "buyer-2", "76561197960287930", true, 5, now)

	out, err := repo.ListRedeemable(context.Background(), "buyer-1", "76561197960287930")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, first.ID, out[0].ID)
	require.Equal(t, second.ID, out[1].ID)
}

func TestUpdateRemainingDropsFloorsAtZero(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	record := seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 2, time.Now())

	require.NoError(t, repo.UpdateRemainingDrops(context.Background(), record.ID, -3))

	got, err := repo.FindByID(context.Background(), record.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingDrops)
}

func TestRedemptionTrail(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	redemptions := NewRedemptionRepository(conn)
	svc, err := NewService(repo, redemptions)
	require.NoError(t, err)

	purchase := seedPurchase(t, repo, "buyer-1", "76561197960287930", true, 2, time.Now())
	require.NoError(t, redemptions.Append(context.Background(), &models.RedemptionEvent{
		BuyerID:    "buyer-1",
		SteamID:    "76561197960287930",
		PurchaseID: purchase.ID,
		ItemName:   purchase.ItemName,
	}))

	events, err := svc.ListRedemptions(context.Background(), "76561197960287930")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, purchase.ID, events[0].PurchaseID)
}
