package store_test

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

func newTestStore(t *testing.T) (*store.Client, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.RunEmbedded(context.Background(), sqlDB, "sqlite3", "up"))
	return store.New(conn), conn
}

func seedOffers(t *testing.T, conn *gorm.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", "English name", "Arabic Name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (1, 10, 'Panadol Extra', 'بانادول', '6221234', '2026-03-01', 20, 35.5, 4, 'Cairo', 'available', '2026-01-01 10:00:00')`,
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", "English name", "Arabic Name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (2, 10, 'Augmentin', 'اوجمنتين', '6229999', '2026-01-01', 50, 80, 1, 'Giza', 'sold', '2026-01-03 10:00:00')`,
		`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", "English name", "Arabic Name", barcode, "Expiry date", discount, price, "Quantity", city, status, created_at)
		 VALUES (3, 11, 'PANADOL Night', 'بانادول نايت', '6221111', '2026-09-01', 5, 40, 2, 'Alexandria', 'available', '2026-01-02 10:00:00')`,
	}
	for _, s := range stmts {
		require.NoError(t, conn.Exec(s).Error)
	}
}

func TestQueryEqOrderLimit(t *testing.T) {
	client, conn := newTestStore(t)
	seedOffers(t, conn)

	rows, err := client.From("Inventory Offers").
		Select("id", "English name", "Expiry date").
		Eq("Pharmacy ID", int64(10)).
		Order("Expiry date", true).
		Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Augmentin", rows[0]["English name"])
	require.Equal(t, "Panadol Extra", rows[1]["English name"])
	_, hasCity := rows[0]["city"]
	require.False(t, hasCity, "only selected columns are returned")

	limited, err := client.From("Inventory Offers").Order("created_at", false).Limit(1).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.EqualValues(t, 2, limited[0]["id"])
}

func TestQueryILikeAndOr(t *testing.T) {
	client, conn := newTestStore(t)
	seedOffers(t, conn)

	rows, err := client.From("Inventory Offers").ILike("English name", "panadol").Order("id", true).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = client.From("Inventory Offers").
		Or(store.ILike("Arabic Name", "اوجمنتين"), store.ILike("English name", "night")).
		Order("id", true).
		Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, 2, rows[0]["id"])
	require.EqualValues(t, 3, rows[1]["id"])
}

func TestQueryCountIsHeadOnly(t *testing.T) {
	client, conn := newTestStore(t)
	seedOffers(t, conn)

	total, err := client.From("Inventory Offers").Eq("Pharmacy ID", int64(10)).Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	sold, err := client.From("Inventory Offers").Eq("Pharmacy ID", int64(10)).Eq("status", "sold").Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, sold)
}

func TestQueryBuildersDoNotShareState(t *testing.T) {
	client, conn := newTestStore(t)
	seedOffers(t, conn)

	base := client.From("Inventory Offers").Eq("Pharmacy ID", int64(10))
	narrowed := base.Eq("status", "sold")

	all, err := base.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, all)

	some, err := narrowed.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, some)
}

func TestQueryRequiresTable(t *testing.T) {
	client, _ := newTestStore(t)
	_, err := client.From(" ").Rows(context.Background())
	require.Error(t, err)
}
