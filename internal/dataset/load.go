package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/kamusis/coursepath/internal/logging"
)

// LoadResult describes where a Dataset came from.
type LoadResult struct {
	Dataset  Dataset
	Path     string
	Fallback bool
	// Reason is set when Fallback is true and explains why the source was
	// not used. It is informational only.
	Reason error
}

// Loader reads course tables, substituting the built-in fallback dataset
// whenever the source is missing or unreadable.
type Loader struct {
	// WriteFallback persists the fallback dataset to the source path when
	// the path does not exist yet.
	WriteFallback bool
	// LockTimeout bounds the wait for the fallback write lock.
	LockTimeout time.Duration
}

// Load never fails: every source problem degrades to the fallback dataset.
// An empty result (header-only source) is returned as-is; callers must
// treat it as fatal before matching.
func (l Loader) Load(path string) LoadResult {
	res := LoadResult{Path: path}

	if _, err := os.Stat(path); err != nil {
		res.Dataset = Fallback()
		res.Fallback = true
		res.Reason = fmt.Errorf("course table %s not found: %w", path, err)
		if errors.Is(err, os.ErrNotExist) && l.WriteFallback && !IsSQLitePath(path) {
			if werr := l.writeFallback(path, res.Dataset); werr != nil {
				logging.Warn().Err(werr).Str("path", path).Msg("cannot persist fallback course table")
			} else {
				logging.Info().Str("path", path).Msg("fallback course table written")
			}
		}
		logging.Warn().Err(res.Reason).Msg("using built-in course table")
		return res
	}

	ds, err := readSource(path)
	if err != nil {
		res.Dataset = Fallback()
		res.Fallback = true
		res.Reason = err
		logging.Warn().Err(err).Str("path", path).Msg("course table unreadable, using built-in course table")
		return res
	}
	res.Dataset = ds
	logging.Debug().Str("path", path).Int("items", ds.Len()).Msg("course table loaded")
	return res
}

func readSource(path string) (Dataset, error) {
	if IsSQLitePath(path) {
		return ReadStore(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot open course table %s: %w", path, err)
	}
	defer f.Close()
	ds, err := Read(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot read course table %s: %w", path, err)
	}
	return ds, nil
}

func (l Loader) writeFallback(path string, ds Dataset) error {
	timeout := l.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	unlock, err := AcquireLock(path, timeout)
	if err != nil {
		return err
	}
	defer unlock()

	// Another process may have written the table while we waited.
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return WriteFile(path, ds)
}

// WriteFile writes ds as CSV to path via a temp file and rename.
func WriteFile(path string, ds Dataset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".coursepath-*.csv")
	if err != nil {
		return fmt.Errorf("cannot create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if err := Write(tmp, ds); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot write course table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot install course table %s: %w", path, err)
	}
	return nil
}

// AcquireLock takes an exclusive lock on path+".lock", polling until timeout.
// The returned func releases it.
func AcquireLock(path string, timeout time.Duration) (func(), error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create lock directory: %w", err)
	}
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire lock %s: %w", lockPath, err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another process holds %s", lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
