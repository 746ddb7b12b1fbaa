package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"go.uber.org/multierr"

	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/keymutex"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/remotefs"
)

// Engine applies delivery scripts to the game server's file tree. All writes
// for one steam id are serialized so concurrent deliveries never interleave
// a read-merge-write cycle.
type Engine struct {
	store remotefs.Store
	cfg   config.DeliveryConfig
	locks *keymutex.KeyMutex
	logg  *logger.Logger
}

// NewEngine constructs a delivery engine over the configured store.
func NewEngine(store remotefs.Store, cfg config.DeliveryConfig, logg *logger.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("remote store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		locks: keymutex.New(),
		logg:  logg,
	}, nil
}

// Deliver applies every actionable component of the script for the steam id.
// Absent components are skipped; an empty script succeeds without touching
// the store. Sub-step failures are aggregated so every applicable component
// is attempted before the combined error is reported.
func (e *Engine) Deliver(ctx context.Context, steamID string, script models.Script) error {
	if !models.ValidSteamID(steamID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}

	shapes := script.Shapes()
	if len(shapes) == 0 {
		return nil
	}

	ctx = e.logg.WithSteamID(ctx, steamID)

	unlock := e.locks.Lock("deliver:" + steamID)
	defer unlock()

	var errs error
	itemsDone := false
	for _, shape := range shapes {
		var err error
		switch shape {
		case models.ShapeSingleItem, models.ShapeItemList:
			// both shapes land in the same merged grant file; run once
			if itemsDone {
				continue
			}
			itemsDone = true
			err = e.grantItems(ctx, steamID, script.Tokens())
		case models.ShapeCurrency:
			err = e.setCurrency(ctx, steamID, script.CurrencyAmount)
		case models.ShapeVehicle:
			err = e.writeVehicle(ctx, steamID, *script.Vehicle)
		}
		if err != nil {
			e.logg.Error(e.logg.WithField(ctx, "shape", string(shape)), "delivery sub-step failed", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", shape, err))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "delivery incomplete")
	}

	e.logg.Info(ctx, "delivery applied")
	return nil
}

// ClearPlayerFile resets a steam id's grant file to the empty shape.
func (e *Engine) ClearPlayerFile(ctx context.Context, steamID string) error {
	if !models.ValidSteamID(steamID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}

	unlock := e.locks.Lock("deliver:" + steamID)
	defer unlock()

	data, err := encodePlayerFile(emptyPlayerFile())
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, e.playerPath(steamID), data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: reset player file")
	}
	e.logg.Info(e.logg.WithSteamID(ctx, steamID), "player file cleared")
	return nil
}

func (e *Engine) grantItems(ctx context.Context, steamID string, tokens []string) error {
	filePath := e.playerPath(steamID)

	current := emptyPlayerFile()
	data, err := e.store.Get(ctx, filePath)
	switch {
	case err == nil:
		current, err = decodePlayerFile(data)
		if err != nil {
			return err
		}
	case remotefs.IsNotFound(err):
		// first grant for this player
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: read player file")
	}

	merged, err := encodePlayerFile(current.merge(tokens))
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, filePath, merged); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: write player file")
	}
	return nil
}

func (e *Engine) setCurrency(ctx context.Context, steamID string, amount int64) error {
	filePath := path.Join(e.cfg.BankingPath, steamID+".json")

	doc := map[string]json.RawMessage{}
	data, err := e.store.Get(ctx, filePath)
	switch {
	case err == nil:
		doc, err = decodeBankingFile(data)
		if err != nil {
			return err
		}
	case remotefs.IsNotFound(err):
		// no banking file yet, currency field only
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: read banking file")
	}

	encoded, err := encodeBankingFile(doc, amount)
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, filePath, encoded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: write banking file")
	}
	return nil
}

// writeVehicle overwrites the descriptor file for the class, stamped with
// the receiving player's steam id. The file is keyed by class name only, so
// two buyers of the same class share one descriptor; the last write wins.
func (e *Engine) writeVehicle(ctx context.Context, steamID string, descriptor models.VehicleDescriptor) error {
	descriptor.SteamID = steamID
	encoded, err := encodeVehicleFile(descriptor)
	if err != nil {
		return err
	}
	filePath := path.Join(e.cfg.VehiclePath, descriptor.ClassName+".json")
	if err := e.store.Put(ctx, filePath, encoded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store: write vehicle descriptor")
	}
	return nil
}

func (e *Engine) playerPath(steamID string) string {
	return path.Join(e.cfg.PlayerPath, steamID+".json")
}
