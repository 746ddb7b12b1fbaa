package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// DefaultVariationName is the variation created when migrating a
// pre-variation item or a balance package.
const DefaultVariationName = "Default"

// Service exposes catalog management and script resolution.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	CreateBalancePackage(ctx context.Context, input BalancePackageInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
	Resolve(ctx context.Context, itemID uuid.UUID, variationIndex int) (*Resolution, error)
	MigrateLegacyScripts(ctx context.Context) (int, error)
}

// CreateItemInput holds the validated payload to create a catalog item.
type CreateItemInput struct {
	Name           string
	Price          decimal.Decimal
	ImageURL       *string
	IsVehicle      bool
	InsuranceDrops int
	Variations     []VariationInput
}

// VariationInput defines one selectable sub-SKU.
type VariationInput struct {
	Name           string
	Script         models.Script
	ImageURL       string
	IsVehicle      *bool
	InsuranceDrops *int
}

// BalancePackageInput creates a currency-only item with a single variation.
type BalancePackageInput struct {
	Name           string
	Price          decimal.Decimal
	CurrencyAmount int64
}

// UpdateItemInput holds optional mutation values for a catalog item.
type UpdateItemInput struct {
	Name           *string
	Price          *decimal.Decimal
	ImageURL       *string
	IsVehicle      *bool
	InsuranceDrops *int
	Variations     *[]VariationInput
}

// Resolution is the outcome of resolving an item purchase to a concrete
// deliverable script with its effective vehicle flag and insurance drops.
type Resolution struct {
	Item           *models.CatalogItem
	VariationIndex int
	VariationName  string
	Script         models.Script
	IsVehicle      bool
	InsuranceDrops int
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CreateItem creates the item with its variations.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if err := validateItemBasics(input.Name, input.Price, input.InsuranceDrops); err != nil {
		return nil, err
	}
	variations, err := buildVariations(input.Variations)
	if err != nil {
		return nil, err
	}

	item := &models.CatalogItem{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(input.Name),
		Price:          input.Price,
		ImageURL:       input.ImageURL,
		IsVehicle:      input.IsVehicle,
		InsuranceDrops: input.InsuranceDrops,
		Variations:     variations,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert catalog item")
	}
	return NewItemDTO(created), nil
}

// CreateBalancePackage creates a currency-only item carrying a single
// default variation with the banking grant.
func (s *service) CreateBalancePackage(ctx context.Context, input BalancePackageInput) (*ItemDTO, error) {
	if input.CurrencyAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency amount must be positive")
	}
	return s.CreateItem(ctx, CreateItemInput{
		Name:  input.Name,
		Price: input.Price,
		Variations: []VariationInput{{
			Name: DefaultVariationName,
			Script: models.Script{
				Banking:        true,
				CurrencyAmount: input.CurrencyAmount,
			},
		}},
	})
}

// UpdateItem applies the provided mutations to an existing item.
func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}
	if input.IsVehicle != nil {
		item.IsVehicle = *input.IsVehicle
	}
	if input.InsuranceDrops != nil {
		item.InsuranceDrops = *input.InsuranceDrops
	}
	if input.Variations != nil {
		variations, err := buildVariations(*input.Variations)
		if err != nil {
			return nil, err
		}
		item.Variations = variations
		item.LegacyScript = nil
	}

	if err := validateItemBasics(item.Name, item.Price, item.InsuranceDrops); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update catalog item")
	}
	return NewItemDTO(updated), nil
}

// DeleteItem removes the item.
func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.loadItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete catalog item")
	}
	return nil
}

// GetItem loads a single item, migrating its legacy script if still present.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item, err = s.ensureMigrated(ctx, item)
	if err != nil {
		return nil, err
	}
	return NewItemDTO(item), nil
}

// ListItems returns the full catalog.
func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list catalog items")
	}
	return NewItemDTOs(items), nil
}

// Resolve maps an item purchase to its deliverable script. Out-of-bounds
// variation indexes fall back to variation 0; an item with no variations
// resolves to an empty script.
func (s *service) Resolve(ctx context.Context, itemID uuid.UUID, variationIndex int) (*Resolution, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item, err = s.ensureMigrated(ctx, item)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Item:           item,
		IsVehicle:      item.IsVehicle,
		InsuranceDrops: item.InsuranceDrops,
	}

	variation, ok := item.VariationAt(variationIndex)
	if !ok {
		return res, nil
	}

	index := variationIndex
	if index < 0 || index >= len(item.Variations) {
		index = 0
	}
	res.VariationIndex = index
	res.VariationName = variation.Name
	res.Script = variation.Script
	res.IsVehicle = item.EffectiveVehicle(variation)
	res.InsuranceDrops = item.EffectiveDrops(variation)
	return res, nil
}

// MigrateLegacyScripts rewrites every pre-variation item into a single
// default variation. Idempotent: already-migrated items carry no legacy
// script and are never revisited. Unparseable scripts are skipped and
// logged, not fatal.
func (s *service) MigrateLegacyScripts(ctx context.Context) (int, error) {
	legacy, err := s.repo.ListLegacy(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list legacy catalog items")
	}

	migrated := 0
	for i := range legacy {
		item := &legacy[i]
		ictx := s.logg.WithItemID(ctx, item.ID.String())

		if err := migrateItem(item); err != nil {
			s.logg.Error(ictx, "skipping legacy script migration", err)
			continue
		}
		if _, err := s.repo.Update(ctx, item); err != nil {
			return migrated, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist migrated item")
		}
		migrated++
		s.logg.Info(ictx, "migrated legacy script to default variation")
	}
	return migrated, nil
}

// ensureMigrated migrates a single item inline before resolution so reads
// never observe the legacy shape.
func (s *service) ensureMigrated(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	if item.LegacyScript == nil {
		return item, nil
	}
	if err := migrateItem(item); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist migrated item")
	}
	return updated, nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load catalog item")
	}
	return item, nil
}

func migrateItem(item *models.CatalogItem) error {
	if item.LegacyScript == nil {
		return nil
	}
	var script models.Script
	if err := json.Unmarshal([]byte(*item.LegacyScript), &script); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse legacy script")
	}
	if len(item.Variations) == 0 {
		item.Variations = []models.Variation{{
			Name:   DefaultVariationName,
			Script: script,
		}}
	}
	item.LegacyScript = nil
	return nil
}

func buildVariations(inputs []VariationInput) ([]models.Variation, error) {
	variations := make([]models.Variation, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variation %d: name required", i))
		}
		if in.InsuranceDrops != nil && *in.InsuranceDrops < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variation %d: insurance drops cannot be negative", i))
		}
		variations = append(variations, models.Variation{
			Name:           name,
			Script:         in.Script,
			ImageURL:       in.ImageURL,
			IsVehicle:      in.IsVehicle,
			InsuranceDrops: in.InsuranceDrops,
		})
	}
	return variations, nil
}

func validateItemBasics(name string, price decimal.Decimal, drops int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if drops < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "insurance drops cannot be negative")
	}
	return nil
}
