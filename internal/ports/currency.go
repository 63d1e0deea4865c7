package ports

import "github.com/bft-labs/ans/internal/domain"

// Existence controls whether a transfer may drain the sender's account.
type Existence int

const (
	// AllowDeath lets a transfer reduce the sender's balance to zero.
	AllowDeath Existence = iota
	// KeepAlive refuses transfers that would leave the sender with nothing.
	KeepAlive
)

// Currency is the host's value transfer primitive.
type Currency interface {
	// Transfer moves amount from one account to another. It either moves the
	// full amount or returns an error and moves nothing.
	Transfer(from, to domain.AccountID, amount domain.Balance, existence Existence) error

	// BalanceOf returns the free balance of an account.
	BalanceOf(who domain.AccountID) domain.Balance
}
