package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	Create(context.Context, *models.CatalogItem) (*models.CatalogItem, error)
	Update(context.Context, *models.CatalogItem) (*models.CatalogItem, error)
	Delete(context.Context, uuid.UUID) error
	FindByID(context.Context, uuid.UUID) (*models.CatalogItem, error)
	FindByName(context.Context, string) (*models.CatalogItem, error)
	List(context.Context) ([]models.CatalogItem, error)
}

// Repository implements catalog persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) Update(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CatalogItem{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the catalog ordered by name for stable listings and exports.
func (r *Repository) List(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListLegacy returns items still carrying a pre-variation script.
func (r *Repository) ListLegacy(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := r.db.WithContext(ctx).Where("legacy_script IS NOT NULL").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
