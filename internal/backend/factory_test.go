package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/log"
)

func TestCreateStoreMemory(t *testing.T) {
	factory := NewFactory(log.New("backend-test"))
	cfg := &config.Config{DataBackend: "memory"}

	res, err := factory.CreateStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Store == nil {
		t.Fatalf("nil store")
	}
	if res.Cleanup != nil {
		t.Fatalf("memory backend should need no cleanup")
	}
}

func TestCreateStoreSQLite(t *testing.T) {
	factory := NewFactory(log.New("backend-test"))
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "fintrack.db"),
	}

	res, err := factory.CreateStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatalf("sqlite backend should return a cleanup")
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateStoreInvalidType(t *testing.T) {
	factory := NewFactory(log.New("backend-test"))
	cfg := &config.Config{DataBackend: "redis"}

	_, err := factory.CreateStore(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid backend type") {
		t.Fatalf("got %v, want invalid backend type error", err)
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, valid := range []Type{MemoryBackend, SQLiteBackend, PostgresBackend} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	if Type("sheets").IsValid() {
		t.Errorf("unknown type reported valid")
	}
}
