package coupons

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "coupons.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Coupon{}))

	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{ServiceName: "coupons-test"}))
	require.NoError(t, err)
	return svc
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "  SUMMER10 ",
		DiscountPercent: decimal.NewFromInt(10),
		RemainingUses:   5,
	})
	require.NoError(t, err)
	require.Equal(t, "summer10", created.Code)

	// duplicate, regardless of casing
	_, err = svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "Summer10",
		DiscountPercent: decimal.NewFromInt(10),
		RemainingUses:   5,
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestCreateCouponValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{Code: "x", DiscountPercent: decimal.NewFromInt(101), RemainingUses: 1})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.CreateCoupon(ctx, CreateCouponInput{Code: "x", DiscountPercent: decimal.NewFromInt(-1), RemainingUses: 1})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.CreateCoupon(ctx, CreateCouponInput{Code: "x", DiscountPercent: decimal.NewFromInt(10), RemainingUses: -2})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestPrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "half",
		DiscountPercent: decimal.NewFromInt(50),
		RemainingUses:   models.UnlimitedUses,
	})
	require.NoError(t, err)

	price, err := svc.Price(ctx, decimal.NewFromFloat(19.90), "HALF")
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.NewFromFloat(9.95)), "got %s", price)

	_, err = svc.Price(ctx, decimal.NewFromInt(10), "missing")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPriceExhausted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "spent",
		DiscountPercent: decimal.NewFromInt(10),
		RemainingUses:   0,
	})
	require.NoError(t, err)

	_, err = svc.Price(ctx, decimal.NewFromInt(10), "spent")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeExhausted))
}

func TestPriceFullDiscountIsZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "free",
		DiscountPercent: decimal.NewFromInt(100),
		RemainingUses:   models.UnlimitedUses,
	})
	require.NoError(t, err)

	price, err := svc.Price(ctx, decimal.NewFromFloat(42.50), "free")
	require.NoError(t, err)
	require.True(t, price.IsZero())
}

func TestConsume(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "twice",
		DiscountPercent: decimal.NewFromInt(10),
		RemainingUses:   2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, "twice"))
	require.NoError(t, svc.Consume(ctx, "twice"))

	coupon, err := svc.GetCoupon(ctx, "twice")
	require.NoError(t, err)
	require.True(t, coupon.Exhausted())

	// spent codes stay at zero
	require.NoError(t, svc.Consume(ctx, "twice"))
	coupon, err = svc.GetCoupon(ctx, "twice")
	require.NoError(t, err)
	require.Equal(t, 0, coupon.RemainingUses)
}

func TestConsumeUnlimitedAndUnknown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "forever",
		DiscountPercent: decimal.NewFromInt(5),
		RemainingUses:   models.UnlimitedUses,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, "forever"))
	coupon, err := svc.GetCoupon(ctx, "forever")
	require.NoError(t, err)
	require.True(t, coupon.Unlimited())

	// unknown code is a no-op, not an error
	require.NoError(t, svc.Consume(ctx, "ghost"))
}

func TestUpdateAndDeleteCoupon(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:            "edit",
		DiscountPercent: decimal.NewFromInt(10),
		RemainingUses:   1,
	})
	require.NoError(t, err)

	uses := 10
	updated, err := svc.UpdateCoupon(ctx, "edit", UpdateCouponInput{RemainingUses: &uses})
	require.NoError(t, err)
	require.Equal(t, 10, updated.RemainingUses)

	require.NoError(t, svc.DeleteCoupon(ctx, "edit"))
	err = svc.DeleteCoupon(ctx, "edit")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
