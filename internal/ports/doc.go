// Package ports defines the interfaces (ports) that connect the registry core
// to the host that embeds it.
//
// The core never authenticates callers, never persists anything itself and
// never moves value on its own. It consumes those capabilities through the
// interfaces below, and the host supplies concrete adapters.
//
// # Port Interfaces
//
//   - [KVStore]: Byte-keyed storage backing the registry's name map
//   - [Currency]: The host's value transfer primitive (paid variant)
//   - [EventSink]: Receives events emitted by successful operations
//   - [SnapshotRepository]: Persists and loads the host's full state
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with an in-memory ledger,
// a snapshot file and zerolog.
package ports
