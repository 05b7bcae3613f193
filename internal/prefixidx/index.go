package prefixidx

// Index is the prefix-matching engine boundary. Implementations store byte
// keys with caller-opaque references and answer prefix queries.
type Index interface {
	// Insert registers a key with an opaque reference. Multiple references
	// may share one key; their relative order must be preserved.
	Insert(key []byte, ref uint64) error

	// Search begins an iteration over the references of all stored keys
	// that are byte-prefixes of the query key, ordered from shortest to
	// longest key. It returns false when no stored key qualifies; in that
	// case no cursor is allocated and nothing needs to be stopped.
	Search(key []byte) (Cursor, bool)

	// Close releases the engine. The owner must guarantee no cursor is
	// outstanding and no Search is in flight.
	Close() error
}

// Cursor is a lazy, finite, non-restartable iteration over one Search.
type Cursor interface {
	// Next returns the next reference, or false when the iteration is
	// exhausted.
	Next() (uint64, bool)

	// Stop releases the cursor. It must be called exactly once per
	// successful Search; extra calls are ignored so it is safe under
	// defer on every exit path.
	Stop()
}
