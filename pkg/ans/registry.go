package ans

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bft-labs/ans/internal/adapters/fs"
	"github.com/bft-labs/ans/internal/adapters/memory"
	"github.com/bft-labs/ans/internal/app"
	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
	"github.com/bft-labs/ans/internal/registry"
)

// Registry hosts the reservation policy: it serializes operations, keeps the
// balance ledger and event journal, and persists a snapshot after each commit.
//
// When the snapshot repository can be locked (the file repository can),
// every commit holds that lock while it reloads the snapshot, applies the
// operation and saves, so several processes may share one StateDir. Reads
// return the state as of this Registry's last load or commit.
type Registry struct {
	cfg    Config
	opts   options
	logger ports.Logger
	repo   ports.SnapshotRepository

	mu      sync.Mutex
	kv      *memory.KVStore
	ledger  *memory.Ledger
	store   *registry.Store
	policy  *app.Policy
	journal []domain.Record
	pending []domain.Event
}

// New creates a Registry and loads any existing snapshot from cfg.StateDir.
// Returns an error if configuration is invalid or the snapshot can't be read.
func New(ctx context.Context, cfg Config, opts ...Option) (*Registry, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = defaultOptions().logger
	}

	repo := o.repo
	if repo == nil && cfg.StateDir != "" {
		repo = fs.NewSnapshotFileRepository(cfg.StateDir)
	}

	r := &Registry{
		cfg:    cfg,
		opts:   o,
		logger: o.logger,
		repo:   repo,
		kv:     memory.NewKVStore(),
		ledger: memory.NewLedger(),
	}
	r.store = registry.New(r.kv)

	snap := domain.Snapshot{}
	if repo != nil {
		var err error
		snap, err = repo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}
	if err := r.checkSettings(snap); err != nil {
		return nil, err
	}
	if err := r.restoreLocked(snap); err != nil {
		return nil, err
	}

	r.logger.Info("registry loaded",
		ports.Int("registrations", len(snap.Registrations)),
		ports.Int("events", len(snap.Events)),
		ports.Bool("paid", cfg.Paid),
		ports.Bool("initialized", snap.Initialized))
	return r, nil
}

// Genesis mints the initial balances and applies the fee settings.
// It may be called once per registry.
func (r *Registry) Genesis(ctx context.Context, g GenesisConfig) error {
	return r.commit(ctx, "genesis", func() error {
		if r.policy.Initialized() {
			return domain.ErrAlreadyInitialized
		}
		for who, amount := range g.Balances {
			if r.ledger.BalanceOf(who) > math.MaxUint64-amount {
				return fmt.Errorf("%w: genesis balance for %s overflows", domain.ErrInvalidAmount, who)
			}
		}
		for who, amount := range g.Balances {
			if err := r.ledger.Mint(who, amount); err != nil {
				return err
			}
		}
		return r.policy.Initialize(domain.Genesis{
			ReservationFee:     g.ReservationFee,
			ReservationAccount: g.ReservationAccount,
		})
	})
}

// Reserve claims a free name for caller, who must already be authenticated.
func (r *Registry) Reserve(ctx context.Context, caller AccountID, name Name) error {
	return r.commit(ctx, "reserve", func() error {
		return r.policy.Reserve(caller, name)
	})
}

// TransferTo hands a name owned by caller to another account.
func (r *Registry) TransferTo(ctx context.Context, caller AccountID, name Name, to AccountID) error {
	return r.commit(ctx, "transfer", func() error {
		return r.policy.TransferTo(caller, name, to)
	})
}

// OwnerOf returns the current owner of name, or false if it is free.
func (r *Registry) OwnerOf(name Name) (AccountID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy.OwnerOf(name)
}

// BalanceOf returns an account's ledger balance.
func (r *Registry) BalanceOf(who AccountID) Balance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.BalanceOf(who)
}

// Registrations returns every registration in ascending name order.
func (r *Registry) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Registrations()
}

// Events returns journal records with Seq greater than after.
func (r *Registry) Events(after uint64) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := domain.Snapshot{Events: r.journal}
	return append([]Record(nil), snap.EventsAfter(after)...)
}

// Settings returns the registry's parameters and genesis state.
func (r *Registry) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.policy.Genesis()
	return Settings{
		MinLength:          r.cfg.MinLength,
		MaxLength:          r.cfg.MaxLength,
		Paid:               r.cfg.Paid,
		Initialized:        r.policy.Initialized(),
		ReservationFee:     g.ReservationFee,
		ReservationAccount: g.ReservationAccount,
	}
}

// Snapshot returns a copy of the registry's full state.
func (r *Registry) Snapshot() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// commit runs fn under the registry lock. fn must either fully apply or
// return an error having changed nothing. On success the deposited events are
// journaled and the snapshot is saved; if the save fails the pre-operation
// state is restored so callers never observe a commit that isn't durable.
func (r *Registry) commit(ctx context.Context, op string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if locker, ok := r.repo.(ports.SnapshotLocker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return fmt.Errorf("lock state: %w", err)
		}
		defer func() {
			if err := unlock(); err != nil {
				r.logger.Warn("unlock state failed", ports.String("op", op), ports.Err(err))
			}
		}()
	}

	var prev domain.Snapshot
	if r.repo != nil {
		if err := r.reloadLocked(ctx); err != nil {
			return err
		}
		prev = r.snapshotLocked()
	}
	r.pending = r.pending[:0]

	if err := fn(); err != nil {
		return err
	}

	seq := domain.Snapshot{Events: r.journal}.LastSeq()
	added := make([]domain.Record, 0, len(r.pending))
	for _, ev := range r.pending {
		seq++
		added = append(added, domain.NewRecord(seq, ev))
	}
	r.journal = append(r.journal, added...)

	if r.repo != nil {
		snap := r.snapshotLocked()
		snap.SavedAt = time.Now().UTC()
		if err := r.repo.Save(ctx, snap); err != nil {
			r.logger.Error("snapshot save failed",
				ports.String("op", op),
				ports.Err(err))
			r.rollbackLocked(op, prev)
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	if r.opts.eventHandler != nil {
		for _, rec := range added {
			r.opts.eventHandler.OnEvent(rec)
		}
	}
	return nil
}

// reloadLocked replaces in-memory state with the repository's latest snapshot,
// picking up commits made by other processes sharing the repository.
func (r *Registry) reloadLocked(ctx context.Context) error {
	snap, err := r.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := r.checkSettings(snap); err != nil {
		return err
	}
	return r.restoreLocked(snap)
}

// checkSettings rejects a configuration whose variant or name bounds differ
// from the ones the persisted registry was created with.
func (r *Registry) checkSettings(snap domain.Snapshot) error {
	if !snap.HasSettings() {
		return nil
	}
	if snap.Paid == r.cfg.Paid && snap.MinLength == r.cfg.MinLength && snap.MaxLength == r.cfg.MaxLength {
		return nil
	}
	return fmt.Errorf("%w: state was created with paid=%t length %d..%d, opened with paid=%t length %d..%d",
		ErrInvalidConfig,
		snap.Paid, snap.MinLength, snap.MaxLength,
		r.cfg.Paid, r.cfg.MinLength, r.cfg.MaxLength)
}

func (r *Registry) rollbackLocked(op string, prev domain.Snapshot) {
	if err := r.restoreLocked(prev); err != nil {
		// prev was produced by snapshotLocked, so restoring it only fails
		// if the in-memory state was already inconsistent.
		r.logger.Error("rollback failed", ports.String("op", op), ports.Err(err))
	}
}

func (r *Registry) snapshotLocked() domain.Snapshot {
	g := r.policy.Genesis()
	return domain.Snapshot{
		Version:            domain.SnapshotVersion,
		Paid:               r.cfg.Paid,
		MinLength:          r.cfg.MinLength,
		MaxLength:          r.cfg.MaxLength,
		Initialized:        r.policy.Initialized(),
		ReservationFee:     g.ReservationFee,
		ReservationAccount: g.ReservationAccount,
		Registrations:      r.store.Registrations(),
		Balances:           r.ledger.Balances(),
		Events:             append([]domain.Record(nil), r.journal...),
	}
}

// restoreLocked replaces all in-memory state with snap and rebuilds the policy.
func (r *Registry) restoreLocked(snap domain.Snapshot) error {
	r.kv.Reset()
	for _, reg := range snap.Registrations {
		r.store.Put(reg.Name, reg.Owner)
	}
	r.ledger.Restore(snap.Balances)
	r.journal = append([]domain.Record(nil), snap.Events...)

	var currency ports.Currency
	if r.cfg.Paid {
		currency = r.ledger
	}
	sink := ports.EventSinkFunc(func(ev domain.Event) {
		r.pending = append(r.pending, ev)
	})

	policy, err := app.NewPolicy(r.cfg.policyConfig(), r.store, currency, sink, r.logger)
	if err != nil {
		return err
	}
	if snap.Initialized {
		if err := policy.Restore(domain.Genesis{
			ReservationFee:     snap.ReservationFee,
			ReservationAccount: snap.ReservationAccount,
		}); err != nil {
			return err
		}
	}
	r.policy = policy
	return nil
}
