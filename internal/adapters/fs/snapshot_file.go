// Package fs persists host state to the local file system.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/bft-labs/ans/internal/domain"
)

// SnapshotFileName is the name of the snapshot file inside the state directory.
const SnapshotFileName = "registry.json"

// LockFileName is the advisory lock file guarding the state directory.
const LockFileName = "registry.lock"

const lockRetryDelay = 10 * time.Millisecond

// SnapshotFileRepository implements ports.SnapshotRepository using a JSON file.
type SnapshotFileRepository struct {
	dir string
}

// NewSnapshotFileRepository creates a new SnapshotFileRepository for the given directory.
func NewSnapshotFileRepository(dir string) *SnapshotFileRepository {
	return &SnapshotFileRepository{dir: dir}
}

// Load retrieves the last saved snapshot from disk.
// Returns an empty snapshot and nil error if no snapshot file exists.
func (r *SnapshotFileRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode %s: %w", r.Path(), err)
	}
	if snap.Version > domain.SnapshotVersion {
		return domain.Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, domain.SnapshotVersion)
	}

	return snap, nil
}

// Save persists the snapshot atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (r *SnapshotFileRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmp, path)
}

// Lock takes an exclusive advisory lock on the state directory, waiting until
// it is free or ctx is done. Every process sharing the directory must lock
// before reading a snapshot it intends to overwrite.
func (r *SnapshotFileRepository) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return nil, err
	}

	fl := flock.New(filepath.Join(r.dir, LockFileName))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", fl.Path())
	}
	return fl.Unlock, nil
}

// Path returns the full path to the snapshot file.
func (r *SnapshotFileRepository) Path() string {
	return filepath.Join(r.dir, SnapshotFileName)
}

// Dir returns the state directory.
func (r *SnapshotFileRepository) Dir() string {
	return r.dir
}
