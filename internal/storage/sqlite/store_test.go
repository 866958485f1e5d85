package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/storage"
	"github.com/julianstephens/focusday/internal/storage/storagetest"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

func TestProviderContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		store, cleanup := setupTestSQLiteStore(t)
		t.Cleanup(cleanup)
		return store
	})
}

func TestInitSeedsPreferences(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	value, ok, err := store.GetValue(constants.SettingNotificationsEnabled)
	if err != nil || !ok {
		t.Fatalf("GetValue() = ok %v, err %v", ok, err)
	}
	if string(value) != "true" {
		t.Errorf("notifications_enabled = %s, want true", value)
	}
}

func TestInitPreservesExistingPreferences(t *testing.T) {
	store, _ := setupTestSQLiteStore(t)
	if err := store.SetValue(constants.SettingNotificationsEnabled, []byte("false")); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	store.Close()

	reopened := NewStore(store.GetConfigPath())
	if err := reopened.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer reopened.Close()

	value, _, _ := reopened.GetValue(constants.SettingNotificationsEnabled)
	if string(value) != "false" {
		t.Errorf("Init overwrote preference, got %s", value)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() error = %v, want not initialized error", err)
	}
}

func TestLoadAfterInit(t *testing.T) {
	store, _ := setupTestSQLiteStore(t)
	store.Close()

	loaded := NewStore(store.GetConfigPath())
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer loaded.Close()

	if loaded.GetDB() == nil {
		t.Error("GetDB() returned nil after Load")
	}
}

func TestMigrate(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	var _ storage.Migrator = store

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if current != latest || latest < 2 {
		t.Errorf("SchemaVersion() = %d, %d; want current == latest >= 2", current, latest)
	}

	applied, err := store.Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate() on an up to date database applied %d", applied)
	}
}

func TestMigrateRequiresOpen(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "closed.db"))
	if _, err := store.Migrate(nil); err == nil {
		t.Error("Migrate() on a closed store succeeded")
	}
	if _, _, err := store.SchemaVersion(); err == nil {
		t.Error("SchemaVersion() on a closed store succeeded")
	}
}
