package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"
	// EmbeddedDir is the migrations path inside Embedded.
	EmbeddedDir = "migrations"
)

// Embedded carries the SQL mirror of the listing tables so binaries can migrate without a checkout.
//
//go:embed migrations/*.sql
var Embedded embed.FS

// goose keeps dialect and base FS as package globals.
var gooseMu sync.Mutex

// Dialect maps the configured DB driver onto a goose dialect name.
func Dialect(driver string) string {
	if driver == config.DBDriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Run executes a goose command against dir on the local filesystem.
func Run(ctx context.Context, db *sql.DB, dialect, dir, command string, args ...string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return run(ctx, os.DirFS("."), db, dialect, dir, command, args...)
}

// RunEmbedded executes a goose command against the embedded migrations.
func RunEmbedded(ctx context.Context, db *sql.DB, dialect, command string, args ...string) error {
	return run(ctx, Embedded, db, dialect, EmbeddedDir, command, args...)
}

func run(ctx context.Context, fsys fs.FS, db *sql.DB, dialect, dir, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(os.DirFS("."))
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}
