package routing

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/prefixidx"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// Query carries the request attributes evaluated against route constraints.
// Empty Host and RemoteAddr skip the corresponding constraint; an empty
// Method matches only routes without a method restriction.
type Query struct {
	Method     string
	Host       string
	RemoteAddr string
}

// options holds Build configuration.
type options struct {
	index  prefixidx.Index
	logger observability.Logger
}

// Option configures a table build.
type Option func(*options)

// WithIndex injects the prefix-matching engine. The table takes ownership
// and releases it on Close, or before Build returns on a failed build.
// Defaults to the radix engine.
func WithIndex(idx prefixidx.Index) Option {
	return func(o *options) { o.index = idx }
}

// WithLogger sets the logger used for registration and lifecycle events.
// Defaults to a no-op logger.
func WithLogger(logger observability.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Table maps request attributes to the metadata of the most specific
// registered route. It is immutable after Build; concurrent Match calls are
// safe until Close. Registration indices are dense, start at 1 and are never
// reused.
type Table struct {
	id      string
	entries []*entry
	index   prefixidx.Index
	logger  observability.Logger
	closed  atomic.Bool
}

// Build normalizes the definitions and registers them in one shot. Any
// invalid definition or engine failure aborts the whole call: the prefix
// index is released and no table is returned.
func Build(defs []config.Route, opts ...Option) (*Table, error) {
	o := options{logger: observability.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	idx := o.index
	if idx == nil {
		idx = prefixidx.NewRadixIndex()
	}

	t := &Table{
		id:      uuid.NewString(),
		entries: make([]*entry, 0, len(defs)),
		index:   idx,
	}
	t.logger = o.logger.With(observability.String("table_id", t.id))

	for i, def := range defs {
		e, unknown, err := newEntry(def)
		if err != nil {
			releaseIndex(idx, t.logger)
			return nil, util.WrapError(err, fmt.Sprintf("route %d (%s)", i, def.Path))
		}
		if len(unknown) > 0 {
			t.logger.Warn("ignoring unknown method names",
				observability.String("path", def.Path),
				observability.Strings("methods", unknown))
		}

		t.entries = append(t.entries, e)
		if err := idx.Insert(e.path, uint64(len(t.entries))); err != nil {
			releaseIndex(idx, t.logger)
			return nil, util.NewResourceError("insert", err)
		}
	}

	m := getTableMetrics()
	m.tablesBuilt.Inc()
	m.routes.Add(float64(len(t.entries)))

	t.logger.Info("route table built", observability.Int("routes", len(t.entries)))
	return t, nil
}

// releaseIndex closes the engine during an aborted build. The build error
// takes precedence, so a close failure is only logged.
func releaseIndex(idx prefixidx.Index, logger observability.Logger) {
	if err := idx.Close(); err != nil {
		logger.Error("failed to release prefix index", observability.Error(err))
	}
}

// candidatePool recycles per-call candidate slices so concurrent Match calls
// never share mutable scratch state.
var candidatePool = sync.Pool{
	New: func() any {
		s := make([]uint64, 0, 16)
		return &s
	},
}

// Match resolves a request path against the table. It returns the metadata
// of the most specific accepting route, or false when no route matches.
// Not-found is a regular result; errors are reserved for an empty path and
// for use after Close.
func (t *Table) Match(path string, q Query) (any, bool, error) {
	if t.closed.Load() {
		return nil, false, util.ErrTableClosed
	}
	if path == "" {
		return nil, false, util.NewInvalidArgumentError("path", "must not be empty")
	}

	m := getTableMetrics()

	cur, ok := t.index.Search([]byte(path))
	if !ok {
		m.matches.WithLabelValues(resultNoMatch).Inc()
		return nil, false, nil
	}
	defer cur.Stop()

	cp := candidatePool.Get().(*[]uint64)
	candidates := (*cp)[:0]
	defer func() {
		*cp = candidates[:0]
		candidatePool.Put(cp)
	}()

	for {
		ref, more := cur.Next()
		if !more {
			break
		}
		candidates = append(candidates, ref)
	}
	m.candidates.Observe(float64(len(candidates)))

	// Longer registered paths win; equal lengths keep candidate order,
	// which is registration order for routes sharing a path.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(t.entries[candidates[i]-1].path) > len(t.entries[candidates[j]-1].path)
	})

	for _, ref := range candidates {
		e := t.entries[ref-1]
		if e.accepts(q) {
			m.matches.WithLabelValues(resultMatch).Inc()
			return e.metadata, true, nil
		}
	}

	m.matches.WithLabelValues(resultNoMatch).Inc()
	return nil, false, nil
}

// Close releases the prefix index. It is idempotent; the first call wins and
// subsequent calls return nil. Match calls issued after Close fail with
// util.ErrTableClosed.
func (t *Table) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	getTableMetrics().routes.Sub(float64(len(t.entries)))

	if err := t.index.Close(); err != nil {
		return err
	}
	t.logger.Info("route table released")
	return nil
}

// ID returns the table's build identifier, as carried in log fields.
func (t *Table) ID() string {
	return t.id
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.entries)
}
