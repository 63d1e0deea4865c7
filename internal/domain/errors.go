package domain

import "errors"

// Registry errors are returned by reserve and transfer operations.
// None of them leaves a partial mutation behind.
var (
	// ErrTooShort is returned when a name is shorter than MinLength.
	ErrTooShort = errors.New("ans: name too short")

	// ErrTooLong is returned when a name is longer than MaxLength.
	ErrTooLong = errors.New("ans: name too long")

	// ErrAlreadyReserved is returned when reserving a name that has an owner.
	ErrAlreadyReserved = errors.New("ans: name already reserved")

	// ErrNotFound is returned when transferring a name nobody has reserved.
	ErrNotFound = errors.New("ans: reservation not found")

	// ErrNotOwner is returned when the caller does not own the name.
	ErrNotOwner = errors.New("ans: caller is not the owner")

	// ErrReserveAccountNotConfigured is returned by the paid variant when no
	// account has been configured to collect reservation fees.
	ErrReserveAccountNotConfigured = errors.New("ans: reservation account not configured")
)

// Ledger errors are produced by the host's value transfer and propagated
// verbatim when a reservation fee cannot be paid.
var (
	// ErrInsufficientBalance is returned when the payer cannot cover the amount.
	ErrInsufficientBalance = errors.New("ans: insufficient balance")

	// ErrInvalidAmount is returned for transfers that would overflow the payee.
	ErrInvalidAmount = errors.New("ans: invalid amount")
)

// Setup errors.
var (
	// ErrAlreadyInitialized is returned when genesis is applied twice.
	ErrAlreadyInitialized = errors.New("ans: already initialized")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("ans: invalid configuration")
)
