// Package storage opens the bun database for the configured driver and
// creates the academy tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/runtimeconfig"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

var ErrDriverUnsupported = errors.New("storage: unsupported driver")

// Open connects to the configured database and wraps it in bun.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
	case "postgres", "postgresql":
		sqlDB, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// Models lists the tables in creation order.
func Models() []any {
	return []any{
		(*categories.Category)(nil),
		(*posts.Post)(nil),
		(*pages.Page)(nil),
		(*menus.Menu)(nil),
		(*menus.MenuItem)(nil),
	}
}

// CreateSchema creates every academy table that does not exist yet.
func CreateSchema(ctx context.Context, db *bun.DB, logger interfaces.Logger) error {
	if db == nil {
		return errors.New("storage: database not configured")
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			logging.WithFields(logger, map[string]any{
				"model": fmt.Sprintf("%T", model),
				"error": err.Error(),
			}).Error("storage.schema.create_failed")
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	logger.Debug("storage.schema.ready", "tables", len(Models()))
	return nil
}
