package identity

import (
	"context"
	"path/filepath"
	"testing"

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

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "identity.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SteamLink{}))

	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{ServiceName: "identity-test"}))
	require.NoError(t, err)
	return svc
}

func TestLinkAndLookup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Link(ctx, "buyer-1", "76561197960287930")
	require.NoError(t, err)

	steamID, err := svc.SteamIDFor(ctx, "buyer-1")
	require.NoError(t, err)
	require.Equal(t, "76561197960287930", steamID)

	// relinking replaces the previous id
	_, err = svc.Link(ctx, "buyer-1", "76561197960287931")
	require.NoError(t, err)

	steamID, err = svc.SteamIDFor(ctx, "buyer-1")
	require.NoError(t, err)
	require.Equal(t, "76561197960287931", steamID)
}

func TestLinkValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Link(ctx, "", "76561197960287930")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	for _, bad := range []string{"", "1234", "7656119796028793x", "765611979602879301"} {
		_, err = svc.Link(ctx, "buyer-1", bad)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "steam id %q", bad)
	}
}

func TestUnlink(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Link(ctx, "buyer-1", "76561197960287930")
	require.NoError(t, err)

	require.NoError(t, svc.Unlink(ctx, "buyer-1"))

	_, err = svc.SteamIDFor(ctx, "buyer-1")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = svc.Unlink(ctx, "buyer-1")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
