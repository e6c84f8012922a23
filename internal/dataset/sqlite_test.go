package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestStore_ReplaceAllAndAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.db")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	if err := s.ReplaceAll(Fallback()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	assertFallback(t, got)

	small := New([]Item{{Cluster: 1, Factor1: 1, Factor2: 2, Name: "only", RecommendedOrder: 1}})
	if err := s.ReplaceAll(small); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err = s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if got.Len() != 1 || got.Items[0].Name != "only" {
		t.Fatalf("ReplaceAll did not replace: %+v", got.Items)
	}
	if got.Items[0].Description != DescriptionPlaceholder {
		t.Fatalf("empty description = %q, want placeholder", got.Items[0].Description)
	}
}

func TestLoad_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.sqlite")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if err := s.ReplaceAll(Fallback()); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	res := Loader{}.Load(path)
	if res.Fallback {
		t.Fatalf("unexpected fallback: %v", res.Reason)
	}
	assertFallback(t, res.Dataset)

	bogus := filepath.Join(dir, "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database at all, just text padding the header out"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := (Loader{}).Load(bogus); !res.Fallback {
		t.Fatal("unreadable database should fall back")
	}

	other := filepath.Join(dir, "other.db")
	db, err := sqlx.Connect("sqlite3", other)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE unrelated (x INTEGER)`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()
	res = Loader{}.Load(other)
	if !res.Fallback || !errors.Is(res.Reason, ErrNoCoursesTable) {
		t.Fatalf("database without courses table: fallback=%v reason=%v", res.Fallback, res.Reason)
	}
	assertFallback(t, res.Dataset)
	db, err = sqlx.Connect("sqlite3", other)
	if err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Get(&n, `SELECT count(*) FROM sqlite_master WHERE name = 'courses'`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()
	if n != 0 {
		t.Fatal("loading must not create the courses table")
	}

	empty := filepath.Join(dir, "empty.sqlite")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res = Loader{}.Load(empty)
	if !res.Fallback || !errors.Is(res.Reason, ErrNoCoursesTable) {
		t.Fatalf("zero-byte database: fallback=%v reason=%v", res.Fallback, res.Reason)
	}
	if st, err := os.Stat(empty); err != nil || st.Size() != 0 {
		t.Fatal("zero-byte database was modified")
	}

	missing := filepath.Join(dir, "missing.db")
	if res := (Loader{WriteFallback: true}).Load(missing); !res.Fallback {
		t.Fatal("missing database should fall back")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatal("fallback must not be written as CSV to a database path")
	}
}

func TestIsSQLitePath(t *testing.T) {
	for path, want := range map[string]bool{
		"a.db": true, "a.SQLITE": true, "x/y.sqlite3": true, "a.csv": false, "db": false,
	} {
		if got := IsSQLitePath(path); got != want {
			t.Fatalf("IsSQLitePath(%q) = %v", path, got)
		}
	}
}
