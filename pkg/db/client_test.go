package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
)

type listingRow struct {
	ID       int
	NameEN   string
	Quantity int
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&listingRow{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return NewFromGorm(conn)
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&listingRow{NameEN: "Panadol", Quantity: 3}).Error
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&listingRow{NameEN: "Augmentin", Quantity: 1}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}

	var count int64
	if err := client.DB().Model(&listingRow{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 row, got %d", count)
	}
}

func TestPingDialectAndSQL(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if got := client.Dialect(); got != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", got)
	}
	sqlDB, err := client.SQL()
	if err != nil || sqlDB == nil {
		t.Fatalf("expected sql handle, got %v", err)
	}
	applyPoolSettings(sqlDB, config.DBConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	if got := sqlDB.Stats().MaxOpenConnections; got != 4 {
		t.Fatalf("expected 4 max open conns, got %d", got)
	}
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		driver string
		want   string
		ok     bool
	}{
		{"", "postgres", true},
		{config.DBDriverPostgres, "postgres", true},
		{config.DBDriverSQLite, "sqlite", true},
		{"mysql", "", false},
	}
	for _, tt := range tests {
		d, err := dialectorFor(config.DBConfig{Driver: tt.driver, DSN: "file::memory:"})
		if (err == nil) != tt.ok {
			t.Fatalf("driver %q: unexpected error %v", tt.driver, err)
		}
		if tt.ok && d.Name() != tt.want {
			t.Fatalf("driver %q: expected %s, got %s", tt.driver, tt.want, d.Name())
		}
	}
}
