package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tbourn/go-dm-backend/internal/config"
)

func TestOpenStore_SQLite(t *testing.T) {
	s, err := openStore(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		DBPath: filepath.Join(t.TempDir(), "app.db"),
	})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer s.Close()

	names, err := s.CollectionNames(context.Background())
	if err != nil {
		t.Fatalf("CollectionNames: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected migrated tables, got %v", names)
	}
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := openStore(ctx, config.StoreConfig{Driver: "redis"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := openStore(ctx, config.StoreConfig{Driver: config.DriverMongo}); err == nil {
		t.Fatalf("expected error for empty mongo uri")
	}
	if _, err := openStore(ctx, config.StoreConfig{Driver: config.DriverSQLite, DBPath: filepath.Join(t.TempDir(), "missing", "app.db")}); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}
