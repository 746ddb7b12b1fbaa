package exports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

type fakeLister struct {
	items []catalog.ItemDTO
	err   error
}

func (f *fakeLister) ListItems(context.Context) ([]catalog.ItemDTO, error) {
	return f.items, f.err
}

func TestPriceListJobRendersCatalog(t *testing.T) {
	dir := t.TempDir()
	lister := &fakeLister{items: []catalog.ItemDTO{
		{
			Name:  "Humvee",
			Price: decimal.NewFromFloat(19.90),
			Variations: []models.Variation{
				{Name: "Green"},
				{Name: "Desert"},
			},
		},
		{
			Name:       "NVG",
			Price:      decimal.NewFromInt(5),
			Variations: []models.Variation{{Name: "Default"}},
		},
	}}

	job, err := NewPriceListJob(lister, dir, "BRL")
	require.NoError(t, err)
	job.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, PriceListFileName))
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, "updated 2025-06-10 12:00 UTC")
	require.Contains(t, content, "Humvee - 19.90 BRL")
	require.Contains(t, content, "  [0] Green")
	require.Contains(t, content, "  [1] Desert")
	require.Contains(t, content, "NVG - 5.00 BRL")
	// single-variation items list no variation lines
	require.NotContains(t, content, "[0] Default")
}

func TestPriceListJobPropagatesListError(t *testing.T) {
	job, err := NewPriceListJob(&fakeLister{err: fmt.Errorf("db down")}, t.TempDir(), "BRL")
	require.NoError(t, err)
	require.Error(t, job.Run(context.Background()))
}

func TestServiceRunsJobsUnderLock(t *testing.T) {
	dir := t.TempDir()
	lister := &fakeLister{items: []catalog.ItemDTO{{Name: "Tent", Price: decimal.NewFromInt(4)}}}

	job, err := NewPriceListJob(lister, dir, "BRL")
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     NewMutexLock(),
		Interval: time.Hour,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, PriceListFileName))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
