package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-academy-cms/internal/runtimeconfig"
	"github.com/goliatone/go-academy-cms/internal/storage"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := storage.Open(runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"})
	if !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(runtimeconfig.StorageConfig{
		Driver: "sqlite",
		DSN:    "file:storage_schema_test?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := storage.CreateSchema(ctx, db, nil); err != nil {
			t.Fatalf("create schema pass %d: %v", i+1, err)
		}
	}

	var count int
	if err := db.NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('categories','posts','pages','menus','menu_items')").Scan(ctx, &count); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 tables, got %d", count)
	}
}
