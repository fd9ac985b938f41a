package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsCreateListingTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_embedded?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.RunEmbedded(ctx, sqlDB, migrate.Dialect(config.DBDriverSQLite), "up"))

	for _, table := range []string{"Master", "Inventory Offers", "Inventory Requests"} {
		require.True(t, conn.Migrator().HasTable(table), "expected table %q", table)
	}

	require.NoError(t, conn.Exec(`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", "Expiry date", price, "Quantity") VALUES (1, 7, '2026-06-01', 10, 2)`).Error)
	err = conn.Exec(`INSERT INTO "Inventory Offers" (id, "Pharmacy ID", "Expiry date", price, "Quantity", discount) VALUES (2, 7, '2026-06-01', 10, 2, 140)`).Error
	require.Error(t, err, "discount above 100 must violate the check constraint")

	require.NoError(t, migrate.RunEmbedded(ctx, sqlDB, "sqlite3", "down-to", "0"))
	require.False(t, conn.Migrator().HasTable("Inventory Offers"))
}

func TestDialect(t *testing.T) {
	require.Equal(t, "sqlite3", migrate.Dialect(config.DBDriverSQLite))
	require.Equal(t, "postgres", migrate.Dialect(config.DBDriverPostgres))
	require.Equal(t, "postgres", migrate.Dialect(""))
}

func TestMigrationFilesAreValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))

	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory_offers.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	for _, sub := range []string{`"Pharmacy ID" BIGINT NOT NULL`, `"Expiry date" DATE NOT NULL`, `DROP TABLE IF EXISTS "Inventory Offers"`} {
		require.True(t, strings.Contains(string(data), sub), "missing %q", sub)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Offer Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_offer_notes.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "  !!  ")
	require.Error(t, err)
}
