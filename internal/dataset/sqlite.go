package dataset

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists a course table in SQLite.
type Store struct {
	db *sqlx.DB
}

// OpenStore connects to the SQLite database at path and ensures the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open course database %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY,
		cluster INTEGER NOT NULL,
		factor1_score REAL NOT NULL,
		factor2_score REAL NOT NULL,
		display_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		recommended_order INTEGER NOT NULL
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("cannot create courses table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceAll swaps the stored table for ds in a single transaction.
func (s *Store) ReplaceAll(ds Dataset) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM courses`); err != nil {
		return fmt.Errorf("cannot clear courses: %w", err)
	}
	const insert = `INSERT INTO courses
		(id, cluster, factor1_score, factor2_score, display_name, description, recommended_order)
		VALUES (:id, :cluster, :factor1_score, :factor2_score, :display_name, :description, :recommended_order)`
	for _, it := range ds.Items {
		if _, err := tx.NamedExec(insert, it); err != nil {
			return fmt.Errorf("cannot insert course %d: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit courses: %w", err)
	}
	return nil
}

// All reads every stored course ordered by id. IDs are reassigned to the
// row index so they match CSV-loaded datasets.
func (s *Store) All() (Dataset, error) {
	var items []Item
	err := s.db.Select(&items, `SELECT id, cluster, factor1_score, factor2_score,
		display_name, description, recommended_order FROM courses ORDER BY id`)
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot read courses: %w", err)
	}
	for i := range items {
		if strings.TrimSpace(items[i].Description) == "" {
			items[i].Description = DescriptionPlaceholder
		}
	}
	return New(items), nil
}

// ErrNoCoursesTable is returned by ReadStore when the database has no
// courses table.
var ErrNoCoursesTable = errors.New("no courses table")

// ReadStore reads the course table from an existing SQLite database without
// modifying it. Zero-byte files, foreign files and databases lacking the
// courses table are errors.
func ReadStore(path string) (Dataset, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot open course database %s: %w", path, err)
	}
	if st.Size() == 0 {
		return Dataset{}, fmt.Errorf("course database %s is empty: %w", path, ErrNoCoursesTable)
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot open course database %s: %w", path, err)
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'courses'`); err != nil {
		return Dataset{}, fmt.Errorf("cannot read course database %s: %w", path, err)
	}
	if n == 0 {
		return Dataset{}, fmt.Errorf("course database %s: %w", path, ErrNoCoursesTable)
	}
	return (&Store{db: db}).All()
}

// IsSQLitePath reports whether path names a SQLite course database.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
