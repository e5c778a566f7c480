package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eosindex/internal/engine/parser"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Run{
		SDKDir:    "/sdk/Include",
		Output:    "-",
		Timestamp: base,
		Duration:  1500 * time.Millisecond,
		FileCount: 12,
		Counts:    map[string]int{parser.KindFunction: 40, parser.KindStruct: 7},
		Digest:    "0123456789abcdef",
	}
	second := Run{
		SDKDir:    "/sdk/Include",
		Timestamp: base.Add(time.Hour),
		FileCount: 13,
		Counts:    map[string]int{parser.KindFunction: 41},
	}

	saved, err := store.SaveRun(first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated run id")
	}
	if _, err := store.SaveRun(second); err != nil {
		t.Fatalf("save second run: %v", err)
	}
	if _, err := store.SaveRun(Run{SDKDir: "/other", Timestamp: base}); err != nil {
		t.Fatalf("save other run: %v", err)
	}

	runs, err := store.LoadRuns("/sdk/Include", 0)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for sdk, got %d", len(runs))
	}
	if runs[0].FileCount != 13 {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}

	old := runs[1]
	if old.ID != saved.ID || old.Digest != first.Digest || old.Output != "-" {
		t.Fatalf("run did not roundtrip: %+v", old)
	}
	if old.Duration != 1500*time.Millisecond || !old.Timestamp.Equal(base) {
		t.Fatalf("unexpected timing: %v at %v", old.Duration, old.Timestamp)
	}
	if old.Counts[parser.KindFunction] != 40 || old.Counts[parser.KindStruct] != 7 || old.Counts[parser.KindEnum] != 0 {
		t.Fatalf("unexpected counts: %v", old.Counts)
	}
	if old.Total() != 47 {
		t.Fatalf("expected total 47, got %d", old.Total())
	}

	limited, err := store.LoadRuns("/sdk/Include", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestStore_LatestRun(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, ok, err := store.LatestRun("/sdk"); err != nil || ok {
		t.Fatalf("expected no run, got ok=%v err=%v", ok, err)
	}

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	for i, digest := range []string{"aaaa", "bbbb"} {
		run := Run{SDKDir: "/sdk", Timestamp: base.Add(time.Duration(i) * time.Minute), Digest: digest}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatal(err)
		}
	}

	latest, ok, err := store.LatestRun("/sdk")
	if err != nil || !ok {
		t.Fatalf("expected latest run, got ok=%v err=%v", ok, err)
	}
	if latest.Digest != "bbbb" {
		t.Fatalf("expected newest digest, got %q", latest.Digest)
	}
}

func TestStore_SaveRunRequiresSDKDir(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.SaveRun(Run{}); err == nil {
		t.Fatal("expected error for empty sdk_dir")
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
	if IsCorruptError(errors.New("database is locked")) {
		t.Fatal("lock errors are not corruption")
	}
}
