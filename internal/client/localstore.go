// Package client implements the browser-equivalent side of the system:
// a stable per-profile identity, a persisted local cache of "my seat"
// and the last known reset marker, and the reconciler that decides when
// the cache is stale against an authoritative server snapshot.
package client

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketIdentity = []byte("identity")
	bucketCache    = []byte("cache")
)

// LocalStore is the BoltDB file backing one client profile.  It plays
// the role localStorage plays in a browser: it survives restarts and is
// private to this profile.
type LocalStore struct {
	db *bbolt.DB
}

// OpenLocalStore opens (or creates) the profile database at path and
// ensures the buckets exist.
func OpenLocalStore(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create profile dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	ls := &LocalStore{db: db}
	if err := ls.initBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ls, nil
}

// Close closes the underlying database.
func (ls *LocalStore) Close() error {
	if ls == nil || ls.db == nil {
		return nil
	}
	return ls.db.Close()
}

func (ls *LocalStore) initBuckets() error {
	return ls.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketIdentity); err != nil {
			return fmt.Errorf("create identity bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists(bucketCache); err != nil {
			return fmt.Errorf("create cache bucket: %w", err)
		}
		return nil
	})
}
