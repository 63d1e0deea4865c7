package ports

// KVStore is the key-value abstraction behind the registry's name map.
// Keys are raw name bytes. Implementations must copy keys and values they
// retain so callers may reuse their buffers.
type KVStore interface {
	// Get returns the value stored under key and whether it was present.
	Get(key []byte) ([]byte, bool)

	// Put inserts or overwrites the value stored under key.
	Put(key, value []byte)

	// Contains reports whether key is present.
	Contains(key []byte) bool

	// Range calls fn for every entry in ascending key order until fn returns false.
	Range(fn func(key, value []byte) bool)
}
