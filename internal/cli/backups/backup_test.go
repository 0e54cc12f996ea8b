package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/config"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/storage/sqlite"
)

const testKey = "learn-Spanish-Week-learned"

func setupTestDB(t *testing.T, input string) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:  store,
		Target: config.Target{Value: dbPath, Kind: config.KindSQLite},
		Out:    out,
		ErrOut: &bytes.Buffer{},
		In:     strings.NewReader(input),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func setValue(t *testing.T, ctx *cli.Context, value string) {
	t.Helper()
	if err := ctx.Store.Set(testKey, []byte(value)); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
}

func getValue(t *testing.T, ctx *cli.Context) string {
	t.Helper()
	v, err := ctx.Store.Get(testKey)
	if err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	return string(v)
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, "")
	defer cleanup()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", out)
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: learnlit-") {
		t.Errorf("unexpected output: %q", out)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, "")
	defer cleanup()

	setValue(t, ctx, "3")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatal(err)
	}
	latest, err := mgr.Latest()
	if err != nil {
		t.Fatal(err)
	}

	setValue(t, ctx, "5")
	out.Reset()
	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(latest.Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if got := getValue(t, ctx); got != "3" {
		t.Errorf("value after restore = %q, want 3", got)
	}
	if !strings.Contains(out.String(), "Previous store saved as:") {
		t.Errorf("expected safety backup notice, got %q", out)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t, "n\n")
	defer cleanup()

	setValue(t, ctx, "3")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mgr, _ := ctx.BackupManager()
	latest, err := mgr.Latest()
	if err != nil {
		t.Fatal(err)
	}
	setValue(t, ctx, "5")

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: latest.Path}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", out)
	}
	if got := getValue(t, ctx); got != "5" {
		t.Errorf("value changed to %q after a cancelled restore", got)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t, "")
	defer cleanup()

	cmd := &BackupRestoreCmd{BackupFile: "learnlit-20200101-000000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupRequiresFileStore(t *testing.T) {
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:  storage.NewMemoryStore(),
		Target: config.Target{Value: ":memory:", Kind: config.KindMemory},
		Out:    out,
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be refused for a memory store")
	}
}
