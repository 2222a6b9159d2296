// Package jsondb stores feedback as one pretty-printed JSON array on disk.
//
// Every read loads the whole file and every mutation rewrites it. Writers are
// serialized per file within the process and the new content is moved into
// place with a rename, so a crash mid-write leaves the previous version intact.
package jsondb

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/sauti/core"
	"github.com/trezcool/sauti/core/feedback"
)

const snapshotTimeLayout = "20060102T150405.000Z"

var (
	nowFunc = time.Now // mockable

	// one lock per absolute file path, shared by every DB opened on it
	fileLocks   = make(map[string]*sync.RWMutex)
	fileLocksMu sync.Mutex
)

type DB struct {
	path   string
	mu     *sync.RWMutex
	logger core.Logger
}

// Open prepares a DB backed by the file at `path`. The file itself is created on first write.
func Open(path string, logger core.Logger) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving store path")
	}
	if err = os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	return &DB{path: abs, mu: fileLock(abs), logger: logger}, nil
}

func fileLock(path string) *sync.RWMutex {
	fileLocksMu.Lock()
	defer fileLocksMu.Unlock()
	mu, ok := fileLocks[path]
	if !ok {
		mu = new(sync.RWMutex)
		fileLocks[path] = mu
	}
	return mu
}

func (db *DB) Path() string {
	return db.path
}

// View calls fn with the current records.
func (db *DB) View(fn func(fbs []feedback.Feedback) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	fbs, err := db.read()
	if err != nil {
		return err
	}
	return fn(fbs)
}

// Update calls fn with the current records and writes back what it returns.
// Nothing is written when fn fails.
func (db *DB) Update(fn func(fbs []feedback.Feedback) ([]feedback.Feedback, error)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	fbs, err := db.read()
	if err != nil {
		return err
	}
	if fbs, err = fn(fbs); err != nil {
		return err
	}
	return db.write(fbs)
}

// read loads the whole file. A missing, empty or malformed file reads as no records.
func (db *DB) read() ([]feedback.Feedback, error) {
	data, err := ioutil.ReadFile(db.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []feedback.Feedback{}, nil
		}
		return nil, errors.Wrap(err, "reading store")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []feedback.Feedback{}, nil
	}

	var fbs []feedback.Feedback
	if err = json.Unmarshal(data, &fbs); err != nil {
		db.logger.Warn("malformed feedback store, reading it as empty", errors.Wrap(err, db.path))
		return []feedback.Feedback{}, nil
	}
	if fbs == nil {
		fbs = []feedback.Feedback{}
	}
	return fbs, nil
}

func (db *DB) write(fbs []feedback.Feedback) error {
	if fbs == nil {
		fbs = []feedback.Feedback{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fbs); err != nil {
		return errors.Wrap(err, "encoding store")
	}
	return errors.Wrap(writeFileAtomic(db.path, buf.Bytes()), "writing store")
}

// Snapshot copies the store into `dir` and returns the new file's path.
func (db *DB) Snapshot(dir string) (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	data, err := ioutil.ReadFile(db.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", errors.Wrap(err, "reading store")
		}
		data = []byte("[]\n")
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating snapshot directory")
	}

	name := db.snapshotPrefix() + nowFunc().UTC().Format(snapshotTimeLayout) + ".json"
	path := filepath.Join(dir, name)
	if err = writeFileAtomic(path, data); err != nil {
		return "", errors.Wrap(err, "writing snapshot")
	}
	return path, nil
}

// Prune removes the oldest snapshots of this store in `dir`, keeping the `keep` most recent.
// It returns the removed paths.
func (db *DB) Prune(dir string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing snapshots")
	}

	prefix := db.snapshotPrefix()
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil, nil
	}
	sort.Strings(names) // timestamps sort lexically

	var removed []string
	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(dir, name)
		if err = os.Remove(path); err != nil {
			return removed, errors.Wrap(err, "removing snapshot")
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// snapshotPrefix is "<store file name without extension>-".
func (db *DB) snapshotPrefix() string {
	base := filepath.Base(db.path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-"
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op once renamed

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
