package prefixidx

import (
	"sync"
	"sync/atomic"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/vyrodovalexey/routematch/internal/util"
)

// RadixIndex is the default prefix-matching engine, backed by an immutable
// radix tree. Walking the tree along the query key yields exactly the stored
// keys that are byte-prefixes of the query, shortest first.
type RadixIndex struct {
	mu      sync.Mutex
	tree    *iradix.Tree
	closed  bool
	cursors atomic.Int64
}

// NewRadixIndex creates a new empty radix-backed index.
func NewRadixIndex() *RadixIndex {
	return &RadixIndex{tree: iradix.New()}
}

// Insert registers a key with an opaque reference. References sharing a key
// accumulate in insertion order.
func (x *RadixIndex) Insert(key []byte, ref uint64) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return util.NewResourceError("insert", util.ErrTableClosed)
	}
	if len(key) == 0 {
		return util.NewResourceError("insert", util.ErrInvalidArgument)
	}

	var refs []uint64
	if existing, ok := x.tree.Get(key); ok {
		prev := existing.([]uint64)
		refs = make([]uint64, len(prev), len(prev)+1)
		copy(refs, prev)
	}
	refs = append(refs, ref)

	x.tree, _, _ = x.tree.Insert(key, refs)
	return nil
}

// Search returns a cursor over the references of all stored keys that are
// byte-prefixes of the query key.
func (x *RadixIndex) Search(key []byte) (Cursor, bool) {
	x.mu.Lock()
	tree := x.tree
	closed := x.closed
	x.mu.Unlock()

	if closed {
		return nil, false
	}

	// The walk visits at most len(key) nodes, so materializing it keeps the
	// cursor trivially safe for concurrent use on other cursors.
	var refs []uint64
	tree.Root().WalkPath(key, func(_ []byte, v interface{}) bool {
		refs = append(refs, v.([]uint64)...)
		return false
	})

	if len(refs) == 0 {
		return nil, false
	}

	x.cursors.Add(1)
	return &radixCursor{index: x, refs: refs}, true
}

// Close releases the index. It fails when cursors are still outstanding or
// when the index was already closed.
func (x *RadixIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return util.NewResourceError("close", util.ErrTableClosed)
	}
	if n := x.cursors.Load(); n != 0 {
		return util.NewResourceError("close", util.ErrResource)
	}

	x.closed = true
	x.tree = nil
	return nil
}

// Len returns the number of distinct keys stored.
func (x *RadixIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return 0
	}
	return x.tree.Len()
}

// ActiveCursors reports the number of cursors that were searched but not yet
// stopped.
func (x *RadixIndex) ActiveCursors() int64 {
	return x.cursors.Load()
}

// radixCursor serves one Search result set step at a time.
type radixCursor struct {
	index   *RadixIndex
	refs    []uint64
	pos     int
	stopped bool
}

// Next returns the next reference in shortest-to-longest key order.
func (c *radixCursor) Next() (uint64, bool) {
	if c.stopped || c.pos >= len(c.refs) {
		return 0, false
	}
	ref := c.refs[c.pos]
	c.pos++
	return ref, true
}

// Stop releases the cursor. Extra calls are ignored.
func (c *radixCursor) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.index.cursors.Add(-1)
}
