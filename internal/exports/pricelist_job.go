package exports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rferreira-dev/survshop-backend/internal/catalog"
)

// PriceListFileName is the published catalog snapshot consumed by the game
// server's info boards.
const PriceListFileName = "price_list.txt"

type catalogLister interface {
	ListItems(ctx context.Context) ([]catalog.ItemDTO, error)
}

// PriceListJob renders the catalog as a plain-text price list.
type PriceListJob struct {
	catalog  catalogLister
	dir      string
	currency string
	now      func() time.Time
}

// NewPriceListJob builds the price list export job.
func NewPriceListJob(lister catalogLister, dir, currency string) (*PriceListJob, error) {
	if lister == nil {
		return nil, fmt.Errorf("catalog lister required")
	}
	if dir == "" {
		return nil, fmt.Errorf("export dir required")
	}
	return &PriceListJob{
		catalog:  lister,
		dir:      dir,
		currency: currency,
		now:      time.Now,
	}, nil
}

// Name implements Job.
func (j *PriceListJob) Name() string {
	return "price_list_export"
}

// Run renders and atomically replaces the price list file.
func (j *PriceListJob) Run(ctx context.Context) error {
	items, err := j.catalog.ListItems(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SHOP PRICE LIST (updated %s)\n\n", j.now().UTC().Format("2006-01-02 15:04 MST"))
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %s %s\n", item.Name, item.Price.StringFixed(2), j.currency)
		if len(item.Variations) > 1 {
			for i, variation := range item.Variations {
				fmt.Fprintf(&b, "  [%d] %s\n", i, variation.Name)
			}
		}
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}

	target := filepath.Join(j.dir, PriceListFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write price list: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("publish price list: %w", err)
	}
	return nil
}
