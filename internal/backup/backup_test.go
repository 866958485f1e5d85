package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/constants"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/storage/sqlite"
	"github.com/julianstephens/focusday/internal/storage/storagetest"
)

var backupTime = time.Date(2025, 3, 12, 9, 30, 0, 0, time.Local)

// setupTestDB initializes a focusday database holding one habit.
func setupTestDB(t *testing.T) (string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focusday.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	habit := storagetest.NewHabit("Read", backupTime)
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath, habit.ID
}

func TestCreate(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, clock.NewFake(backupTime))

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := filepath.Join(mgr.Dir(), "focusday-20250312-093000.db"); path != want {
		t.Errorf("Create() = %s, want %s", path, want)
	}
	if err := verify(path); err != nil {
		t.Errorf("backup is not a valid database: %v", err)
	}
	info, err := os.Stat(mgr.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("backup dir mode = %o, want 700", perm)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), nil)
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() error = nil for missing database")
	}
}

func TestUniqueNames(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, clock.NewFake(backupTime))

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() = %d backups, want 3", len(backups))
	}
	if got := backups[0].Name(); got != "focusday-20250312-093000-2.db" {
		t.Errorf("newest = %s, want the highest counter", got)
	}
}

func TestRotation(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	c := clock.NewFake(backupTime)
	mgr := NewManager(dbPath, c)

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		c.Advance(time.Minute)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	oldestKept := backupTime.Add(3 * time.Minute)
	if got := backups[len(backups)-1].Timestamp; !got.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", got, oldestKept)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, clock.NewFake(backupTime))
	if _, err := mgr.Create(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"notes.txt", "focusday-latest.db", "focusday-20250312-093000-x.db", "other-20250312-093000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("List() = %d backups, want 1", len(backups))
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "focusday.db"), nil)
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %v, %v, want empty", backups, err)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantOK  bool
		wantSeq int
	}{
		{"focusday-20250312-093000.db", true, 0},
		{"focusday-20250312-093000-7.db", true, 7},
		{"focusday-20250312-093000-0.db", false, 0},
		{"focusday-20250312-0930.db", false, 0},
		{"focusday-20250312-093000.sqlite", false, 0},
		{"focusday-20250312-093000x.db", false, 0},
	}

	for _, tt := range tests {
		got, seq, ok := parseName(tt.name)
		if ok != tt.wantOK {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if !got.Equal(backupTime) || seq != tt.wantSeq {
			t.Errorf("parseName(%q) = %v, %d, want %v, %d", tt.name, got, seq, backupTime, tt.wantSeq)
		}
	}
}

func TestRestore(t *testing.T) {
	dbPath, habitID := setupTestDB(t)
	c := clock.NewFake(backupTime)
	mgr := NewManager(dbPath, c)

	snapshotPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteHabit(habitID); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	c.Advance(time.Hour)
	previous, err := mgr.Restore(snapshotPath)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if previous == "" || !strings.HasPrefix(filepath.Base(previous), constants.BackupFilePrefix) {
		t.Errorf("Restore() previous = %q, want a pre-restore snapshot", previous)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.GetHabit(habitID); err != nil {
		t.Errorf("habit missing after restore: %v", err)
	}

	// The pre-restore snapshot holds the state without the habit.
	before := sqlite.NewStore(previous)
	if err := before.Load(); err != nil {
		t.Fatal(err)
	}
	defer before.Close()
	if _, err := before.GetHabit(habitID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("pre-restore snapshot GetHabit() error = %v, want ErrNotFound", err)
	}

	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalid(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, nil)

	corrupt := filepath.Join(t.TempDir(), "corrupt.db")
	if err := os.WriteFile(corrupt, []byte("definitely not sqlite"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(t.TempDir(), "nope.db")},
		{name: "corrupt", path: corrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Restore(tt.path); err == nil {
				t.Error("Restore() error = nil")
			}
		})
	}

	if backups, _ := mgr.List(); len(backups) != 0 {
		t.Errorf("rejected restore created %d backups", len(backups))
	}
}

func TestResolve(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, clock.NewFake(backupTime))
	path, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	for _, in := range []string{path, filepath.Base(path)} {
		got, err := mgr.Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", in, err)
			continue
		}
		if got != path {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, path)
		}
	}
	if _, err := mgr.Resolve("focusday-19990101-000000.db"); err == nil {
		t.Error("Resolve() of unknown backup error = nil")
	}
}
