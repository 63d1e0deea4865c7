package ports

import (
	"context"

	"github.com/bft-labs/ans/internal/domain"
)

// SnapshotRepository handles durable storage of the host's state.
type SnapshotRepository interface {
	// Load retrieves the last saved snapshot.
	// Returns an empty snapshot and nil error if none exists.
	// Returns an error only for actual read failures.
	Load(ctx context.Context) (domain.Snapshot, error)

	// Save persists the snapshot atomically.
	// The implementation should use atomic writes (e.g., write to temp file, then rename)
	// so a crash never leaves a half-written snapshot behind.
	Save(ctx context.Context, snap domain.Snapshot) error
}

// SnapshotLocker is implemented by repositories that other processes may
// share. The host holds the lock across load, apply and save.
type SnapshotLocker interface {
	// Lock blocks until the caller has exclusive access or ctx is done.
	// The returned func releases the lock.
	Lock(ctx context.Context) (unlock func() error, err error)
}
