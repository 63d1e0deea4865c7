// Package watch follows a registry snapshot file and reports journal records
// appended by other processes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/ans/internal/adapters/fs"
	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
)

// Handler is called for every new journal record, in sequence order.
type Handler func(rec domain.Record)

// Config holds watcher options.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// FromStart replays the existing journal before following new records.
	FromStart bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 100 * time.Millisecond}
}

// Watcher reloads the snapshot in a state directory whenever it changes.
type Watcher struct {
	repo    *fs.SnapshotFileRepository
	cfg     Config
	logger  ports.Logger
	handler Handler
	lastSeq uint64
	ready   chan struct{}
}

// New creates a watcher for the snapshot kept in dir.
func New(dir string, cfg Config, logger ports.Logger, handler Handler) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultConfig().DebounceDelay
	}
	return &Watcher{
		repo:    fs.NewSnapshotFileRepository(dir),
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the watcher is subscribed to file system events.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is canceled or the file system watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	dir := w.repo.Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	snap, err := w.repo.Load(ctx)
	if err != nil {
		w.logger.Warn("initial snapshot load failed", ports.Err(err))
	} else if w.cfg.FromStart {
		w.emit(snap)
	} else {
		w.lastSeq = snap.LastSeq()
	}

	w.logger.Info("watching registry",
		ports.String("path", w.repo.Path()),
		ports.Uint64("last_seq", w.lastSeq))
	close(w.ready)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != fs.SnapshotFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.DebounceDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.DebounceDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	snap, err := w.repo.Load(ctx)
	if err != nil {
		w.logger.Warn("snapshot reload failed", ports.Err(err))
		return
	}
	if snap.LastSeq() < w.lastSeq {
		w.logger.Warn("journal went backwards, resyncing",
			ports.Uint64("had", w.lastSeq),
			ports.Uint64("now", snap.LastSeq()))
		w.lastSeq = snap.LastSeq()
		return
	}
	w.emit(snap)
}

func (w *Watcher) emit(snap domain.Snapshot) {
	for _, rec := range snap.EventsAfter(w.lastSeq) {
		w.handler(rec)
		w.lastSeq = rec.Seq
	}
}
