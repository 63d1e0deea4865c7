package ans

import (
	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
)

// Re-export domain types so embedders don't import internal packages.
type (
	// AccountID identifies an account.
	AccountID = domain.AccountID

	// Balance is an amount of currency.
	Balance = domain.Balance

	// Name is a registry key, compared byte for byte.
	Name = domain.Name

	// Registration associates a name with its owner.
	Registration = domain.Registration

	// Event is emitted after a successful mutation.
	Event = domain.Event

	// Reserved is emitted when a free name is claimed.
	Reserved = domain.Reserved

	// Transferred is emitted when a name changes owner.
	Transferred = domain.Transferred

	// Record is a sequenced journal entry.
	Record = domain.Record

	// EventKind tags a Record.
	EventKind = domain.EventKind

	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// LogField represents a structured log field.
	LogField = ports.Field

	// Snapshot is the registry's full persisted state.
	Snapshot = domain.Snapshot

	// SnapshotRepository persists the registry's state.
	SnapshotRepository = ports.SnapshotRepository
)

// Event kinds.
const (
	EventReserved    = domain.EventReserved
	EventTransferred = domain.EventTransferred
)

// Errors returned by registry operations. Check them with errors.Is.
var (
	ErrTooShort                    = domain.ErrTooShort
	ErrTooLong                     = domain.ErrTooLong
	ErrAlreadyReserved             = domain.ErrAlreadyReserved
	ErrNotFound                    = domain.ErrNotFound
	ErrNotOwner                    = domain.ErrNotOwner
	ErrReserveAccountNotConfigured = domain.ErrReserveAccountNotConfigured
	ErrInsufficientBalance         = domain.ErrInsufficientBalance
	ErrInvalidAmount               = domain.ErrInvalidAmount
	ErrAlreadyInitialized          = domain.ErrAlreadyInitialized
	ErrInvalidConfig               = domain.ErrInvalidConfig
)

// EventHandler receives journal records after they are committed.
// It is called synchronously while the registry lock is held and must not
// call back into the Registry.
type EventHandler interface {
	OnEvent(rec Record)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(rec Record)

// OnEvent calls f(rec).
func (f EventHandlerFunc) OnEvent(rec Record) { f(rec) }

// GenesisConfig seeds a new registry.
type GenesisConfig struct {
	// ReservationFee is the flat fee charged per reservation (paid variant)
	ReservationFee Balance

	// ReservationAccount receives fees; nil leaves paid reservations disabled
	ReservationAccount *AccountID

	// Balances are minted into the ledger before the first operation
	Balances map[AccountID]Balance
}

// Settings describes the registry's fixed parameters and genesis state.
type Settings struct {
	MinLength          int
	MaxLength          int
	Paid               bool
	Initialized        bool
	ReservationFee     Balance
	ReservationAccount *AccountID
}
