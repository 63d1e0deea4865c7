package domain

import "time"

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the host's complete persisted state.
// It is written after every committed operation and read on startup.
type Snapshot struct {
	// Version is the snapshot format version
	Version int `json:"version"`

	// Paid records whether the registry charges the reservation fee
	Paid bool `json:"paid"`

	// MinLength and MaxLength record the registry's name bounds.
	// MaxLength is zero only in snapshots written before bounds were stored.
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`

	// Initialized is true once genesis has been applied
	Initialized bool `json:"initialized"`

	// ReservationFee is the flat fee charged by the paid variant
	ReservationFee Balance `json:"reservation_fee"`

	// ReservationAccount receives reservation fees; nil when unset
	ReservationAccount *AccountID `json:"reservation_account,omitempty"`

	// Registrations holds every name and its owner, sorted by name
	Registrations []Registration `json:"registrations"`

	// Balances holds the ledger's account balances
	Balances map[AccountID]Balance `json:"balances"`

	// Events is the ordered journal of emitted events
	Events []Record `json:"events"`

	// SavedAt is the time of the last write
	SavedAt time.Time `json:"saved_at"`
}

// IsEmpty returns true if nothing has ever been written.
func (s Snapshot) IsEmpty() bool {
	return s.Version == 0 && !s.Initialized && len(s.Registrations) == 0 && len(s.Events) == 0
}

// HasSettings reports whether the snapshot records the registry's variant
// and name bounds.
func (s Snapshot) HasSettings() bool {
	return s.MaxLength > 0
}

// LastSeq returns the sequence number of the newest event, or 0.
func (s Snapshot) LastSeq() uint64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Seq
}

// EventsAfter returns the journal entries with Seq greater than seq.
func (s Snapshot) EventsAfter(seq uint64) []Record {
	for i, r := range s.Events {
		if r.Seq > seq {
			return s.Events[i:]
		}
	}
	return nil
}
