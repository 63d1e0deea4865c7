package memory

import (
	"fmt"
	"math"
	"sync"

	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
)

// Ledger is an in-memory balance ledger implementing ports.Currency.
// Every transfer is all-or-nothing.
type Ledger struct {
	mu       sync.RWMutex
	balances map[domain.AccountID]domain.Balance
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[domain.AccountID]domain.Balance)}
}

// Transfer moves amount from one account to another.
// A zero amount moves nothing and succeeds. A transfer to self moves nothing
// but still requires from to hold amount.
func (l *Ledger) Transfer(from, to domain.AccountID, amount domain.Balance, existence ports.Existence) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == 0 {
		return nil
	}

	have := l.balances[from]
	if have < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", domain.ErrInsufficientBalance, from, have, amount)
	}
	if from == to {
		return nil
	}
	if existence == ports.KeepAlive && have == amount {
		return fmt.Errorf("%w: transfer would drain %s", domain.ErrInsufficientBalance, from)
	}
	if l.balances[to] > math.MaxUint64-amount {
		return fmt.Errorf("%w: credit to %s overflows", domain.ErrInvalidAmount, to)
	}

	l.setLocked(from, have-amount)
	l.balances[to] += amount
	return nil
}

// BalanceOf returns the balance of who.
func (l *Ledger) BalanceOf(who domain.AccountID) domain.Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[who]
}

// Mint credits amount to who. Hosts use it to seed genesis balances.
func (l *Ledger) Mint(who domain.AccountID, amount domain.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[who] > math.MaxUint64-amount {
		return fmt.Errorf("%w: mint to %s overflows", domain.ErrInvalidAmount, who)
	}
	l.setLocked(who, l.balances[who]+amount)
	return nil
}

// Balances returns a copy of all non-zero balances.
func (l *Ledger) Balances() map[domain.AccountID]domain.Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[domain.AccountID]domain.Balance, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// Restore replaces every balance with the given set.
func (l *Ledger) Restore(balances map[domain.AccountID]domain.Balance) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[domain.AccountID]domain.Balance, len(balances))
	for k, v := range balances {
		l.setLocked(k, v)
	}
}

// setLocked writes a balance, dropping accounts that reach zero.
func (l *Ledger) setLocked(who domain.AccountID, amount domain.Balance) {
	if amount == 0 {
		delete(l.balances, who)
		return
	}
	l.balances[who] = amount
}
