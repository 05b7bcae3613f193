package routing

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/prefixidx"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// trackingIndex wraps an engine and records lifecycle calls.
type trackingIndex struct {
	prefixidx.Index
	closes     int
	insertErr  error
	inserts    int
	failAfterN int
}

func (x *trackingIndex) Insert(key []byte, ref uint64) error {
	x.inserts++
	if x.insertErr != nil && x.inserts > x.failAfterN {
		return x.insertErr
	}
	return x.Index.Insert(key, ref)
}

func (x *trackingIndex) Close() error {
	x.closes++
	return x.Index.Close()
}

func mustBuild(t *testing.T, defs []config.Route, opts ...Option) *Table {
	t.Helper()

	table, err := Build(defs, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = table.Close() })
	return table
}

func TestMatchLongestPrefixWins(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api"},
		{Path: "/api/v1", Metadata: "api-v1"},
		{Path: "/api/v1/users", Metadata: "users"},
	})

	meta, ok, err := table.Match("/api/v1/users/123", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "users", meta)

	meta, ok, err = table.Match("/api/v1/orders", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "api-v1", meta)
}

func TestMatchFallsBackWhenConstraintsReject(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "any-method"},
		{Path: "/api/v1", Metadata: "get-only", Method: config.StringList{"GET"}},
	})

	// The longer prefix is preferred when its constraints accept.
	meta, ok, err := table.Match("/api/v1/users", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "get-only", meta)

	// When the most specific candidate rejects the method, the next
	// candidate is consulted.
	meta, ok, err = table.Match("/api/v1/users", Query{Method: "POST"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "any-method", meta)
}

func TestMatchTieBreakPreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/svc", Metadata: "first"},
		{Path: "/svc", Metadata: "second"},
	})

	meta, ok, err := table.Match("/svc/x", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", meta)
}

func TestMatchTieBreakSkipsRejectingDuplicate(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/svc", Metadata: "internal", RemoteAddr: "10.0.0.0/8"},
		{Path: "/svc", Metadata: "public"},
	})

	meta, ok, err := table.Match("/svc", Query{Method: "GET", RemoteAddr: "10.1.2.3"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "internal", meta)

	meta, ok, err = table.Match("/svc", Query{Method: "GET", RemoteAddr: "192.0.2.1"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "public", meta)
}

func TestMatchMethodFiltering(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api", Method: config.StringList{"GET", "POST"}},
	})

	for _, method := range []string{"GET", "POST"} {
		meta, ok, err := table.Match("/api", Query{Method: method})
		require.NoError(t, err)
		require.True(t, ok, "method %s", method)
		assert.Equal(t, "api", meta)
	}

	_, ok, err := table.Match("/api", Query{Method: "DELETE"})
	require.NoError(t, err)
	assert.False(t, ok)

	// Empty query method only matches methodless routes.
	_, ok, err = table.Match("/api", Query{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchHostFiltering(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "wildcard", Host: "*.example.com"},
	})

	meta, ok, err := table.Match("/api", Query{Method: "GET", Host: "api.example.com"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "wildcard", meta)

	_, ok, err = table.Match("/api", Query{Method: "GET", Host: "example.com"})
	require.NoError(t, err)
	assert.False(t, ok)

	// "*.example.com" requires the literal ".example.com" suffix, so a
	// host without the leading dot boundary does not match here.
	_, ok, err = table.Match("/api", Query{Method: "GET", Host: "evilexample.com"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchAddressFiltering(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/v4", Metadata: "v4", RemoteAddr: "10.0.0.0/8"},
		{Path: "/v6", Metadata: "v6", RemoteAddr: "2001:db8::/32"},
	})

	meta, ok, err := table.Match("/v4", Query{Method: "GET", RemoteAddr: "10.1.2.3"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v4", meta)

	_, ok, err = table.Match("/v4", Query{Method: "GET", RemoteAddr: "11.0.0.0"})
	require.NoError(t, err)
	assert.False(t, ok)

	meta, ok, err = table.Match("/v6", Query{Method: "GET", RemoteAddr: "2001:db8::1"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v6", meta)

	_, ok, err = table.Match("/v6", Query{Method: "GET", RemoteAddr: "2001:db9::1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchNotFound(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api"},
	})

	meta, ok, err := table.Match("/not/registered", Query{Method: "GET"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, meta)
}

func TestMatchEmptyPath(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api"},
	})

	_, ok, err := table.Match("", Query{Method: "GET"})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, util.ErrInvalidArgument))
}

func TestMatchAfterClose(t *testing.T) {
	t.Parallel()

	table, err := Build([]config.Route{
		{Path: "/api", Metadata: "api"},
	})
	require.NoError(t, err)

	require.NoError(t, table.Close())

	_, ok, err := table.Match("/api", Query{Method: "GET"})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, util.ErrTableClosed))

	// Close is idempotent.
	assert.NoError(t, table.Close())
}

func TestMatchReleasesCursor(t *testing.T) {
	t.Parallel()

	idx := prefixidx.NewRadixIndex()
	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api"},
		{Path: "/api/v1", Metadata: "api-v1"},
	}, WithIndex(idx))

	// Accepted on the most specific candidate.
	_, ok, err := table.Match("/api/v1/users", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(0), idx.ActiveCursors())

	// Exhausted without acceptance.
	_, ok, err = table.Match("/api", Query{Host: "nowhere.invalid", Method: "GET"})
	require.NoError(t, err)
	_ = ok
	assert.Equal(t, int64(0), idx.ActiveCursors())
}

func TestBuildAbortsOnInvalidAddress(t *testing.T) {
	t.Parallel()

	idx := &trackingIndex{Index: prefixidx.NewRadixIndex()}
	table, err := Build([]config.Route{
		{Path: "/ok", Metadata: "ok"},
		{Path: "/bad", Metadata: "bad", RemoteAddr: "not-an-ip"},
	}, WithIndex(idx))

	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, util.ErrAddressParse))
	// The partially populated index is released before Build returns.
	assert.Equal(t, 1, idx.closes)
}

func TestBuildAbortsOnMissingFields(t *testing.T) {
	t.Parallel()

	_, err := Build([]config.Route{{Path: "", Metadata: "x"}})
	assert.True(t, errors.Is(err, util.ErrInvalidArgument))

	_, err = Build([]config.Route{{Path: "/x", Metadata: nil}})
	assert.True(t, errors.Is(err, util.ErrInvalidArgument))
}

func TestBuildAbortsOnEngineFailure(t *testing.T) {
	t.Parallel()

	idx := &trackingIndex{
		Index:      prefixidx.NewRadixIndex(),
		insertErr:  fmt.Errorf("out of memory"),
		failAfterN: 1,
	}

	table, err := Build([]config.Route{
		{Path: "/a", Metadata: "a"},
		{Path: "/b", Metadata: "b"},
	}, WithIndex(idx))

	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, util.ErrResource))
	assert.Equal(t, 1, idx.closes)
}

func TestBuildEmptyTable(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, nil)
	assert.Equal(t, 0, table.Len())

	_, ok, err := table.Match("/anything", Query{Method: "GET"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoundTripAllRoutes(t *testing.T) {
	t.Parallel()

	const n = 50
	defs := make([]config.Route, 0, n)
	for i := 0; i < n; i++ {
		defs = append(defs, config.Route{
			Path:     fmt.Sprintf("/service/%02d/endpoint", i),
			Metadata: i,
		})
	}

	table := mustBuild(t, defs)
	require.Equal(t, n, table.Len())

	for i := 0; i < n; i++ {
		meta, ok, err := table.Match(fmt.Sprintf("/service/%02d/endpoint", i), Query{Method: "GET"})
		require.NoError(t, err)
		require.True(t, ok, "route %d", i)
		assert.Equal(t, i, meta)
	}
}

func TestMatchConcurrent(t *testing.T) {
	t.Parallel()

	table := mustBuild(t, []config.Route{
		{Path: "/api", Metadata: "api"},
		{Path: "/api/v1", Metadata: "api-v1", Method: config.StringList{"GET"}},
		{Path: "/internal", Metadata: "internal", RemoteAddr: "10.0.0.0/8"},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				meta, ok, err := table.Match("/api/v1/users", Query{Method: "GET"})
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "api-v1", meta)

				_, ok, err = table.Match("/internal", Query{Method: "GET", RemoteAddr: "192.0.2.1"})
				assert.NoError(t, err)
				assert.False(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestTableID(t *testing.T) {
	t.Parallel()

	a := mustBuild(t, nil)
	b := mustBuild(t, nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEmpty(t, b.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestBuildMetadataReturnedVerbatim(t *testing.T) {
	t.Parallel()

	type handlerRef struct{ Name string }
	ref := &handlerRef{Name: "users"}

	table := mustBuild(t, []config.Route{
		{Path: "/users", Metadata: ref},
	})

	meta, ok, err := table.Match("/users", Query{Method: "GET"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, ref, meta)
}
