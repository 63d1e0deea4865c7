// Package app implements the reservation policy: the only code allowed to
// write to the registry store.
//
// Every operation runs all of its checks before touching state. In the paid
// variant the fee is collected after validation and before the name is
// written, so a failed payment leaves nothing behind and a written name always
// has a completed payment.
//
// The policy does no locking. The host must serialize calls.
package app

import (
	"fmt"

	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
	"github.com/bft-labs/ans/internal/registry"
)

// Policy validates and applies reserve and transfer operations.
type Policy struct {
	cfg      Config
	store    *registry.Store
	currency ports.Currency
	events   ports.EventSink
	logger   ports.Logger

	initialized bool
	fee         domain.Balance
	account     *domain.AccountID
}

// NewPolicy creates a policy over store. currency is required when cfg.Paid
// is set and ignored otherwise. events may be nil; logger may not.
func NewPolicy(cfg Config, store *registry.Store, currency ports.Currency, events ports.EventSink, logger ports.Logger) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: registry store is required", domain.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger is required", domain.ErrInvalidConfig)
	}
	if cfg.Paid && currency == nil {
		return nil, fmt.Errorf("%w: paid registry requires a currency", domain.ErrInvalidConfig)
	}
	if events == nil {
		events = ports.EventSinkFunc(func(domain.Event) {})
	}

	return &Policy{
		cfg:      cfg,
		store:    store,
		currency: currency,
		events:   events,
		logger:   logger,
	}, nil
}

// Initialize applies genesis. It may be called once, before the first
// reservation is processed.
func (p *Policy) Initialize(g domain.Genesis) error {
	if err := p.applyGenesis(g); err != nil {
		return err
	}

	fields := []ports.Field{
		ports.Bool("paid", p.cfg.Paid),
		ports.Uint64("fee", uint64(p.fee)),
	}
	if p.account != nil {
		fields = append(fields, ports.String("reservation_account", string(*p.account)))
	}
	p.logger.Info("genesis applied", fields...)
	return nil
}

// Restore reinstates genesis settings loaded from persisted state. It has the
// same once-only rule as Initialize but does not announce a new genesis.
func (p *Policy) Restore(g domain.Genesis) error {
	return p.applyGenesis(g)
}

func (p *Policy) applyGenesis(g domain.Genesis) error {
	if p.initialized {
		return domain.ErrAlreadyInitialized
	}

	p.initialized = true
	p.fee = g.ReservationFee
	if g.ReservationAccount != nil {
		acct := *g.ReservationAccount
		p.account = &acct
	}
	return nil
}

// Config returns the policy's parameters.
func (p *Policy) Config() Config {
	return p.cfg
}

// Genesis returns the fee settings currently in force.
func (p *Policy) Genesis() domain.Genesis {
	g := domain.Genesis{ReservationFee: p.fee}
	if p.account != nil {
		acct := *p.account
		g.ReservationAccount = &acct
	}
	return g
}

// Initialized reports whether genesis has been applied.
func (p *Policy) Initialized() bool {
	return p.initialized
}

// Reserve claims a free name for caller.
func (p *Policy) Reserve(caller domain.AccountID, name domain.Name) error {
	if name.Len() > p.cfg.MaxLength {
		return p.reject("reserve", caller, name, domain.ErrTooLong)
	}
	if name.Len() < p.cfg.MinLength {
		return p.reject("reserve", caller, name, domain.ErrTooShort)
	}
	if p.store.Exists(name) {
		return p.reject("reserve", caller, name, domain.ErrAlreadyReserved)
	}

	if p.cfg.Paid {
		if err := p.collectFee(caller); err != nil {
			return p.reject("reserve", caller, name, err)
		}
	}

	p.store.Put(name.Clone(), caller)
	p.events.Deposit(domain.Reserved{Who: caller, Name: name.Clone()})

	p.logger.Info("name reserved",
		ports.String("who", string(caller)),
		ports.String("name", name.String()))
	return nil
}

// TransferTo hands a name owned by caller to another account.
func (p *Policy) TransferTo(caller domain.AccountID, name domain.Name, to domain.AccountID) error {
	if name.Len() > p.cfg.MaxLength {
		return p.reject("transfer", caller, name, domain.ErrTooLong)
	}

	owner, ok := p.store.OwnerOf(name)
	if !ok {
		return p.reject("transfer", caller, name, domain.ErrNotFound)
	}
	if owner != caller {
		return p.reject("transfer", caller, name, domain.ErrNotOwner)
	}

	p.store.Put(name.Clone(), to)
	p.events.Deposit(domain.Transferred{From: caller, To: to, Name: name.Clone()})

	p.logger.Info("name transferred",
		ports.String("from", string(caller)),
		ports.String("to", string(to)),
		ports.String("name", name.String()))
	return nil
}

// OwnerOf returns the current owner of name, or false if it is free.
func (p *Policy) OwnerOf(name domain.Name) (domain.AccountID, bool) {
	return p.store.OwnerOf(name)
}

// collectFee moves the reservation fee from caller to the reservation account.
// The transfer may drain the caller's balance.
func (p *Policy) collectFee(caller domain.AccountID) error {
	if p.account == nil {
		return domain.ErrReserveAccountNotConfigured
	}
	if p.fee == 0 {
		return nil
	}
	return p.currency.Transfer(caller, *p.account, p.fee, ports.AllowDeath)
}

func (p *Policy) reject(op string, caller domain.AccountID, name domain.Name, err error) error {
	p.logger.Debug("operation rejected",
		ports.String("op", op),
		ports.String("caller", string(caller)),
		ports.String("name", name.String()),
		ports.Err(err))
	return err
}
