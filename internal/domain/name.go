package domain

import (
	"bytes"
	"strconv"
)

// AccountID identifies an account. The host authenticates it before any
// registry operation sees it.
type AccountID string

// Balance is an amount of the host's currency.
type Balance uint64

// Name is a registry key. It is compared byte for byte; no case folding or
// trimming is applied.
type Name []byte

// Len returns the length of the name in bytes.
func (n Name) Len() int {
	return len(n)
}

// Equal reports whether two names hold the same bytes.
func (n Name) Equal(other Name) bool {
	return bytes.Equal(n, other)
}

// Clone returns a copy that does not alias n.
func (n Name) Clone() Name {
	if n == nil {
		return nil
	}
	return append(Name(nil), n...)
}

// String renders the name for logs. Non-printable bytes are escaped.
func (n Name) String() string {
	s := strconv.Quote(string(n))
	return s[1 : len(s)-1]
}

// Registration associates a name with its owner.
// At most one Registration exists per distinct name.
type Registration struct {
	Name  Name      `json:"name"`
	Owner AccountID `json:"owner"`
}

// Genesis holds the fee settings applied once before any reservation.
// ReservationAccount may be nil; the paid registry then refuses reservations.
type Genesis struct {
	ReservationFee     Balance
	ReservationAccount *AccountID
}
