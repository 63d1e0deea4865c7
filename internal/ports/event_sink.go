package ports

import "github.com/bft-labs/ans/internal/domain"

// EventSink receives events deposited by the registry core.
// Deposit is called synchronously after the mutation is applied.
type EventSink interface {
	Deposit(ev domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev domain.Event)

// Deposit calls f(ev).
func (f EventSinkFunc) Deposit(ev domain.Event) { f(ev) }
