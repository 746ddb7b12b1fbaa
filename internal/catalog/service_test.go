package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "catalog-test"}))
	require.NoError(t, err)
	return svc, repo
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{Name: " ", Price: decimal.NewFromInt(5)})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.CreateItem(ctx, CreateItemInput{Name: "AK", Price: decimal.NewFromInt(-1)})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.CreateItem(ctx, CreateItemInput{
		Name:       "AK",
		Price:      decimal.NewFromInt(5),
		Variations: []VariationInput{{Name: ""}},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestResolveVariationFallback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	vehicle := true
	drops := 3
	item, err := svc.CreateItem(ctx, CreateItemInput{
		Name:  "Humvee",
		Price: decimal.NewFromFloat(19.90),
		Variations: []VariationInput{
			{Name: "Green", Script: models.Script{Vehicle: &models.VehicleDescriptor{ClassName: "humvee_green", SpawnCount: 1}}, IsVehicle: &vehicle, InsuranceDrops: &drops},
			{Name: "Desert", Script: models.Script{Vehicle: &models.VehicleDescriptor{ClassName: "humvee_desert", SpawnCount: 1}}, IsVehicle: &vehicle},
		},
	})
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, item.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, res.VariationIndex)
	require.Equal(t, "humvee_desert", res.Script.Vehicle.ClassName)
	require.True(t, res.IsVehicle)
	require.Equal(t, 0, res.InsuranceDrops)

	// out of bounds falls back to variation 0
	res, err = svc.Resolve(ctx, item.ID, 7)
	require.NoError(t, err)
	require.Equal(t, 0, res.VariationIndex)
	require.Equal(t, "humvee_green", res.Script.Vehicle.ClassName)
	require.Equal(t, 3, res.InsuranceDrops)

	res, err = svc.Resolve(ctx, item.ID, -2)
	require.NoError(t, err)
	require.Equal(t, 0, res.VariationIndex)
}

func TestResolveNoVariationsIsEmptyScript(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{Name: "Empty", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, item.ID, 0)
	require.NoError(t, err)
	require.True(t, res.Script.IsEmpty())
	require.Empty(t, res.VariationName)
}

func TestResolveUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), uuid.New(), 0)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestMigrateLegacyScripts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	legacy := `{"itemToGive":"nvg","itemsToGive":["mag","ammo"]}`
	item := &models.CatalogItem{
		ID:           uuid.New(),
		Name:         "NVG Kit",
		Price:        decimal.NewFromInt(10),
		LegacyScript: &legacy,
	}
	_, err := repo.Create(ctx, item)
	require.NoError(t, err)

	broken := `not json`
	bad := &models.CatalogItem{
		ID:           uuid.New(),
		Name:         "Broken",
		Price:        decimal.NewFromInt(10),
		LegacyScript: &broken,
	}
	_, err = repo.Create(ctx, bad)
	require.NoError(t, err)

	migrated, err := svc.MigrateLegacyScripts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, migrated)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.Nil(t, got.LegacyScript)
	require.Len(t, got.Variations, 1)
	require.Equal(t, DefaultVariationName, got.Variations[0].Name)
	require.Equal(t, "nvg", got.Variations[0].Script.ItemToGive)
	require.Equal(t, []string{"mag", "ammo"}, got.Variations[0].Script.ItemsToGive)

	// second run is a no-op
	migrated, err = svc.MigrateLegacyScripts(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, migrated)
}

func TestResolveMigratesInline(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	legacy := `{"banking":true,"currencyAmount":5000}`
	item := &models.CatalogItem{
		ID:           uuid.New(),
		Name:         "Saldo 5k",
		Price:        decimal.NewFromInt(5),
		LegacyScript: &legacy,
	}
	_, err := repo.Create(ctx, item)
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, item.ID, 0)
	require.NoError(t, err)
	require.True(t, res.Script.Banking)
	require.Equal(t, int64(5000), res.Script.CurrencyAmount)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.Nil(t, got.LegacyScript)
}

func TestCreateBalancePackage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateBalancePackage(ctx, BalancePackageInput{
		Name:           "Saldo 10k",
		Price:          decimal.NewFromFloat(9.99),
		CurrencyAmount: 10000,
	})
	require.NoError(t, err)
	require.Len(t, dto.Variations, 1)
	require.True(t, dto.Variations[0].Script.Banking)
	require.Equal(t, int64(10000), dto.Variations[0].Script.CurrencyAmount)

	_, err = svc.CreateBalancePackage(ctx, BalancePackageInput{Name: "Zero", Price: decimal.Zero, CurrencyAmount: 0})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestUpdateAndDeleteItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{Name: "Tent", Price: decimal.NewFromInt(4)})
	require.NoError(t, err)

	newName := "Large Tent"
	newPrice := decimal.NewFromInt(6)
	updated, err := svc.UpdateItem(ctx, item.ID, UpdateItemInput{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	require.Equal(t, "Large Tent", updated.Name)
	require.True(t, updated.Price.Equal(newPrice))

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	err = svc.DeleteItem(ctx, item.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
