package domain

// EventKind tags the concrete type of an Event.
type EventKind string

const (
	EventReserved    EventKind = "reserved"
	EventTransferred EventKind = "transferred"
)

// Event is emitted after a successful registry mutation.
type Event interface {
	Kind() EventKind
}

// Reserved is emitted when a free name is claimed.
type Reserved struct {
	Who  AccountID
	Name Name
}

// Kind implements Event.
func (Reserved) Kind() EventKind { return EventReserved }

// Transferred is emitted when an owner hands a name to another account.
type Transferred struct {
	From AccountID
	To   AccountID
	Name Name
}

// Kind implements Event.
func (Transferred) Kind() EventKind { return EventTransferred }

// Record is the sequenced form of an event kept in the host's journal.
type Record struct {
	Seq  uint64    `json:"seq"`
	Kind EventKind `json:"kind"`
	Who  AccountID `json:"who,omitempty"`
	From AccountID `json:"from,omitempty"`
	To   AccountID `json:"to,omitempty"`
	Name Name      `json:"name"`
}

// NewRecord flattens ev into a Record with the given sequence number.
func NewRecord(seq uint64, ev Event) Record {
	switch e := ev.(type) {
	case Reserved:
		return Record{Seq: seq, Kind: EventReserved, Who: e.Who, Name: e.Name.Clone()}
	case Transferred:
		return Record{Seq: seq, Kind: EventTransferred, From: e.From, To: e.To, Name: e.Name.Clone()}
	default:
		return Record{Seq: seq, Kind: ev.Kind()}
	}
}

// Event rebuilds the typed event. Unknown kinds return nil.
func (r Record) Event() Event {
	switch r.Kind {
	case EventReserved:
		return Reserved{Who: r.Who, Name: r.Name}
	case EventTransferred:
		return Transferred{From: r.From, To: r.To, Name: r.Name}
	default:
		return nil
	}
}
