package offers

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/deadstock-backend/pkg/migrate"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.RunEmbedded(context.Background(), sqlDB, "sqlite3", "up"))

	seed := []string{
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", drug_id, "English name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (1, 10, 42, 'Panadol', '6221000123', '2026-09-01', 20, 35.5, 4, 'Cairo', 'available', '2026-01-01 10:00:00')`,
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", drug_id, "English name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (2, 10, 43, 'Augmentin', '6229999', '2026-04-01', 50, 80, 1, 'Cairo', 'sold', '2026-01-03 10:00:00')`,
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", drug_id, "English name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (3, 10, 44, 'Antinal', '6221111', '2026-06-01', 5, 12, 2, 'Cairo', 'available', '2026-01-02 10:00:00')`,
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", drug_id, "English name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (4, 11, 44, 'Antinal', '6221111', '2026-02-01', 5, 12, 2, 'Giza', 'sold', '2026-01-04 10:00:00')`,
	}
	for _, stmt := range seed {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return NewRepository(store.New(conn))
}

func ids(t *testing.T, got []int64, want ...int64) {
	t.Helper()
	require.Equal(t, want, got)
}

func TestRepositoryListByPharmacyOrdersByExpiry(t *testing.T) {
	repo := newTestRepo(t)
	offers, err := repo.ListByPharmacy(context.Background(), 10)
	require.NoError(t, err)

	var got []int64
	for _, o := range offers {
		got = append(got, o.ID)
	}
	ids(t, got, 2, 3, 1)
	require.Equal(t, "2026-04-01", offers[0].ExpiryDate.Format("2006-01-02"))
	require.InDelta(t, 80.0, offers[0].Price, 0.001)
	require.True(t, offers[0].Sold())
}

func TestRepositoryListRecentAndAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	recent, err := repo.ListRecentByPharmacy(ctx, 10)
	require.NoError(t, err)
	var got []int64
	for _, o := range recent {
		got = append(got, o.ID)
	}
	ids(t, got, 2, 3, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.EqualValues(t, 4, all[0].ID)
}

func TestRepositoryCountSold(t *testing.T) {
	repo := newTestRepo(t)
	count, err := repo.CountSold(context.Background(), 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	none, err := repo.CountSold(context.Background(), 99)
	require.NoError(t, err)
	require.Zero(t, none)
}
