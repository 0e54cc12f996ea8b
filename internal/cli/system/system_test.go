package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/config"
	"github.com/julianstephens/learnlit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Target:   config.Target{Value: dbPath, Kind: config.KindSQLite},
		Clock:    clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		Timezone: "UTC",
		Out:      out,
		ErrOut:   &bytes.Buffer{},
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}
