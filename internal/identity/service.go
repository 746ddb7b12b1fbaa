package identity

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// Service pins buyer identities to steam ids so purchases and redemptions
// can default their target when the caller supplies none.
type Service interface {
	Link(ctx context.Context, buyerID, steamID string) (*models.SteamLink, error)
	Unlink(ctx context.Context, buyerID string) error
	SteamIDFor(ctx context.Context, buyerID string) (string, error)
}

// Repository implements steam link persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, link *models.SteamLink) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"steam_id", "updated_at"}),
		}).
		Create(link).Error
}

func (r *Repository) FindByBuyer(ctx context.Context, buyerID string) (*models.SteamLink, error) {
	var link models.SteamLink
	if err := r.db.WithContext(ctx).First(&link, "buyer_id = ?", buyerID).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) Delete(ctx context.Context, buyerID string) error {
	return r.db.WithContext(ctx).Delete(&models.SteamLink{}, "buyer_id = ?", buyerID).Error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the identity service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("steam link repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Link records or replaces the buyer's steam id.
func (s *service) Link(ctx context.Context, buyerID, steamID string) (*models.SteamLink, error) {
	if buyerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if !models.ValidSteamID(steamID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}

	link := &models.SteamLink{BuyerID: buyerID, SteamID: steamID}
	if err := s.repo.Upsert(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert steam link")
	}

	s.logg.Info(s.logg.WithSteamID(ctx, steamID), "steam id linked")
	return link, nil
}

// Unlink removes the buyer's steam id link.
func (s *service) Unlink(ctx context.Context, buyerID string) error {
	if buyerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if _, err := s.repo.FindByBuyer(ctx, buyerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no steam id linked")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load steam link")
	}
	if err := s.repo.Delete(ctx, buyerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete steam link")
	}
	return nil
}

// SteamIDFor returns the steam id linked to the buyer.
func (s *service) SteamIDFor(ctx context.Context, buyerID string) (string, error) {
	link, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "no steam id linked")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load steam link")
	}
	return link.SteamID, nil
}
