package ans

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/ans/internal/domain"
)

// memRepo is an in-memory SnapshotRepository that can be told to fail.
type memRepo struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	saves   int
	failErr error
}

func (m *memRepo) Load(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memRepo) Save(ctx context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.snap = snap
	return nil
}

func treasury() *AccountID {
	a := AccountID("treasury")
	return &a
}

func newPaidRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	cfg := Config{MinLength: 3, MaxLength: 16, Paid: true}
	reg, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = reg.Genesis(context.Background(), GenesisConfig{
		ReservationFee:     10,
		ReservationAccount: treasury(),
		Balances:           map[AccountID]Balance{"alice": 25, "bob": 5},
	})
	if err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	return reg
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{MinLength: 10, MaxLength: 5})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg != DefaultConfig() {
		t.Fatalf("SetDefaults = %+v, want %+v", cfg, DefaultConfig())
	}

	cfg = Config{MaxLength: 4}
	cfg.SetDefaults()
	if cfg.MinLength != 0 || cfg.MaxLength != 4 {
		t.Fatalf("SetDefaults overrode explicit bounds: %+v", cfg)
	}
}

func TestRegistry_PaidFlow(t *testing.T) {
	ctx := context.Background()
	reg := newPaidRegistry(t)

	if err := reg.Reserve(ctx, "alice", Name("alice")); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if got := reg.BalanceOf("alice"); got != 15 {
		t.Errorf("alice = %d, want 15", got)
	}
	if got := reg.BalanceOf("treasury"); got != 10 {
		t.Errorf("treasury = %d, want 10", got)
	}

	if err := reg.Reserve(ctx, "bob", Name("bobby")); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("bob reserve err = %v, want ErrInsufficientBalance", err)
	}
	if _, ok := reg.OwnerOf(Name("bobby")); ok {
		t.Fatal("bobby registered without payment")
	}
	if got := reg.BalanceOf("bob"); got != 5 {
		t.Errorf("bob = %d, want 5", got)
	}

	if err := reg.TransferTo(ctx, "alice", Name("alice"), "bob"); err != nil {
		t.Fatalf("TransferTo: %v", err)
	}
	if owner, _ := reg.OwnerOf(Name("alice")); owner != "bob" {
		t.Fatalf("owner = %q, want bob", owner)
	}

	want := []Record{
		{Seq: 1, Kind: EventReserved, Who: "alice", Name: Name("alice")},
		{Seq: 2, Kind: EventTransferred, From: "alice", To: "bob", Name: Name("alice")},
	}
	if diff := cmp.Diff(want, reg.Events(0)); diff != "" {
		t.Fatalf("journal mismatch (-want +got):\n%s", diff)
	}
	if got := reg.Events(1); len(got) != 1 || got[0].Seq != 2 {
		t.Fatalf("Events(1) = %+v", got)
	}
}

func TestRegistry_GenesisOnce(t *testing.T) {
	reg := newPaidRegistry(t)

	err := reg.Genesis(context.Background(), GenesisConfig{Balances: map[AccountID]Balance{"mallory": 1000}})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("err = %v, want ErrAlreadyInitialized", err)
	}
	if reg.BalanceOf("mallory") != 0 {
		t.Fatal("rejected genesis minted balances")
	}
}

func TestRegistry_GenesisOverflowMintsNothing(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{snap: domain.Snapshot{
		Version:  domain.SnapshotVersion,
		Balances: map[AccountID]Balance{"alice": math.MaxUint64},
	}}
	reg, err := New(ctx, Config{MinLength: 1, MaxLength: 8, Paid: true}, WithSnapshotRepository(repo))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = reg.Genesis(ctx, GenesisConfig{Balances: map[AccountID]Balance{"alice": 1, "bob": 1}})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if reg.BalanceOf("bob") != 0 {
		t.Fatal("overflowing genesis minted bob")
	}
	if reg.Settings().Initialized {
		t.Fatal("overflowing genesis initialized the registry")
	}
}

func TestRegistry_NotConfiguredBeforeGenesis(t *testing.T) {
	reg, err := New(context.Background(), Config{MinLength: 3, MaxLength: 16, Paid: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := reg.Reserve(context.Background(), "alice", Name("alice")); !errors.Is(err, ErrReserveAccountNotConfigured) {
		t.Fatalf("err = %v, want ErrReserveAccountNotConfigured", err)
	}
}

func TestRegistry_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	reg := newPaidRegistry(t, WithSnapshotRepository(repo))

	repo.failErr = errors.New("disk full")

	err := reg.Reserve(ctx, "alice", Name("alice"))
	if err == nil || !errors.Is(err, repo.failErr) {
		t.Fatalf("err = %v, want wrapped disk full", err)
	}
	if _, ok := reg.OwnerOf(Name("alice")); ok {
		t.Fatal("registration survived a failed save")
	}
	if got := reg.BalanceOf("alice"); got != 25 {
		t.Fatalf("alice = %d after rollback, want 25", got)
	}
	if got := reg.BalanceOf("treasury"); got != 0 {
		t.Fatalf("treasury = %d after rollback, want 0", got)
	}
	if len(reg.Events(0)) != 0 {
		t.Fatal("journal kept an event from a failed save")
	}

	// Registry keeps working once storage recovers.
	repo.failErr = nil
	if err := reg.Reserve(ctx, "alice", Name("alice")); err != nil {
		t.Fatalf("Reserve after recovery: %v", err)
	}
	if got := reg.Settings(); !got.Initialized || got.ReservationFee != 10 {
		t.Fatalf("settings after rollback = %+v", got)
	}
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := Config{StateDir: dir, MinLength: 3, MaxLength: 16, Paid: true}

	first, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Genesis(ctx, GenesisConfig{
		ReservationFee:     10,
		ReservationAccount: treasury(),
		Balances:           map[AccountID]Balance{"alice": 30},
	}); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	if err := first.Reserve(ctx, "alice", Name("alice")); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	second, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if owner, ok := second.OwnerOf(Name("alice")); !ok || owner != "alice" {
		t.Fatalf("OwnerOf after reopen = (%q, %v)", owner, ok)
	}
	if got := second.BalanceOf("treasury"); got != 10 {
		t.Fatalf("treasury after reopen = %d, want 10", got)
	}
	if err := second.Reserve(ctx, "alice", Name("second")); err != nil {
		t.Fatalf("Reserve after reopen: %v", err)
	}
	if got := second.Events(0); len(got) != 2 || got[1].Seq != 2 {
		t.Fatalf("journal after reopen = %+v", got)
	}
	if err := second.Genesis(ctx, GenesisConfig{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("genesis after reopen err = %v", err)
	}
}

func TestRegistry_EventHandler(t *testing.T) {
	ctx := context.Background()
	var got []Record
	reg := newPaidRegistry(t, WithEventHandler(EventHandlerFunc(func(rec Record) {
		got = append(got, rec)
	})))

	if err := reg.Reserve(ctx, "alice", Name("alice")); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := reg.Reserve(ctx, "alice", Name("alice")); err == nil {
		t.Fatal("duplicate reserve succeeded")
	}

	if len(got) != 1 || got[0].Kind != EventReserved {
		t.Fatalf("handler saw %+v, want one reserved event", got)
	}
}

func TestRegistry_CanceledContext(t *testing.T) {
	reg := newPaidRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := reg.Reserve(ctx, "alice", Name("alice")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, ok := reg.OwnerOf(Name("alice")); ok {
		t.Fatal("canceled reserve registered the name")
	}
}

func TestRegistry_ConcurrentReserveSameName(t *testing.T) {
	ctx := context.Background()
	reg, err := New(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, who := range []AccountID{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(who AccountID) {
			defer wg.Done()
			if err := reg.Reserve(ctx, who, Name("contested")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(who)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d callers reserved the same name, want 1", wins)
	}
	if n := len(reg.Registrations()); n != 1 {
		t.Fatalf("registrations = %d, want 1", n)
	}
}

func TestRegistry_RejectsChangedSettings(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	created := Config{StateDir: dir, MinLength: 1, MaxLength: 8, Paid: true}

	reg, err := New(ctx, created)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := reg.Genesis(ctx, GenesisConfig{ReservationFee: 10, ReservationAccount: treasury()}); err != nil {
		t.Fatalf("Genesis: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"free", Config{StateDir: dir, MinLength: 1, MaxLength: 8}},
		{"longer names", Config{StateDir: dir, MinLength: 1, MaxLength: 32, Paid: true}},
		{"shorter minimum", Config{StateDir: dir, MinLength: 0, MaxLength: 8, Paid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(ctx, tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("New err = %v, want ErrInvalidConfig", err)
			}
		})
	}

	reopened, err := New(ctx, created)
	if err != nil {
		t.Fatalf("reopen with original settings: %v", err)
	}
	if err := reopened.Reserve(ctx, "alice", Name("a-very-long-name-20b")); !errors.Is(err, ErrTooLong) {
		t.Fatalf("long name err = %v, want ErrTooLong", err)
	}
	if err := reopened.Reserve(ctx, "alice", Name("alice")); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("unfunded reserve err = %v, want ErrInsufficientBalance", err)
	}
	if n := len(reopened.Registrations()); n != 0 {
		t.Fatalf("registrations = %d, want 0", n)
	}
}

func TestRegistry_ReservationAccountPaysItsOwnFee(t *testing.T) {
	ctx := context.Background()
	reg := newPaidRegistry(t)

	if err := reg.Reserve(ctx, "treasury", Name("vault")); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if _, ok := reg.OwnerOf(Name("vault")); ok {
		t.Fatal("vault registered without payment")
	}
}

func TestRegistry_SharedStateDir(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.StateDir = t.TempDir()

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New a: %v", err)
	}
	b, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New b: %v", err)
	}

	if err := a.Reserve(ctx, "alice", Name("alice")); err != nil {
		t.Fatalf("a Reserve: %v", err)
	}
	if err := b.Reserve(ctx, "bob", Name("alice")); !errors.Is(err, ErrAlreadyReserved) {
		t.Fatalf("b Reserve err = %v, want ErrAlreadyReserved", err)
	}
	if owner, _ := b.OwnerOf(Name("alice")); owner != "alice" {
		t.Fatalf("b sees owner %q, want alice", owner)
	}

	if err := b.Reserve(ctx, "bob", Name("bobby")); err != nil {
		t.Fatalf("b Reserve bobby: %v", err)
	}
	if err := a.TransferTo(ctx, "alice", Name("alice"), "carol"); err != nil {
		t.Fatalf("a TransferTo: %v", err)
	}

	fresh, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New fresh: %v", err)
	}
	want := []Registration{
		{Name: Name("alice"), Owner: "carol"},
		{Name: Name("bobby"), Owner: "bob"},
	}
	if diff := cmp.Diff(want, fresh.Registrations()); diff != "" {
		t.Fatalf("registrations mismatch (-want +got):\n%s", diff)
	}
	var seqs []uint64
	for _, rec := range fresh.Events(0) {
		seqs = append(seqs, rec.Seq)
	}
	if diff := cmp.Diff([]uint64{1, 2, 3}, seqs); diff != "" {
		t.Fatalf("journal seqs mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ConcurrentReserveAcrossInstances(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.StateDir = t.TempDir()

	var regs []*Registry
	for i := 0; i < 4; i++ {
		reg, err := New(ctx, cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		regs = append(regs, reg)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i, reg := range regs {
		wg.Add(1)
		go func(reg *Registry, who AccountID) {
			defer wg.Done()
			if err := reg.Reserve(ctx, who, Name("contested")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(reg, AccountID([]string{"a", "b", "c", "d"}[i]))
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d instances reserved the same name, want 1", wins)
	}
	fresh, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New fresh: %v", err)
	}
	if n := len(fresh.Events(0)); n != 1 {
		t.Fatalf("journal has %d events, want 1", n)
	}
}
