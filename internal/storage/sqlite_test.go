package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()

	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatalf("fresh db should be empty, got %v", got)
	}

	if err := store.SetTheme(ctx, core.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := store.Theme(ctx); got != core.ThemeDark {
		t.Fatalf("theme = %s, want dark", got)
	}

	// Overwrite must replace, not append.
	if err := store.SetTheme(ctx, core.ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := store.Theme(ctx); got != core.ThemeLight {
		t.Fatalf("theme = %s, want light", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
