// Package domain contains the core domain entities and value objects for ans.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (storage, balances, logging) and
// contains only the registry's vocabulary.
//
// # Entities
//
//   - [Name]: A byte string key, compared byte for byte with no normalization
//   - [Registration]: The association of a name with its owning account
//   - [Reserved], [Transferred]: Events emitted by successful operations
//   - [Record]: A sequenced, serializable form of an event
//   - [Genesis]: Fee settings applied once before the first reservation
//
// # Errors
//
// Every rejection is a sentinel error that callers test with errors.Is.
// Rejections are terminal: the registry is unchanged and the caller must
// correct the input and resubmit.
package domain
