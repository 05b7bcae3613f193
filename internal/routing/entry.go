package routing

import (
	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// entry is one normalized registered route. Entries are append-only and
// never mutated after registration; Match only reads them.
type entry struct {
	path     []byte
	methods  methodSet
	host     *hostMatcher
	addr     *addressMatcher
	metadata any
}

// newEntry normalizes a raw definition. The returned slice lists method
// names that resolved to no known method bit.
func newEntry(def config.Route) (*entry, []string, error) {
	if def.Path == "" {
		return nil, nil, util.NewInvalidArgumentError("path", "must not be empty")
	}
	if def.Metadata == nil {
		return nil, nil, util.NewInvalidArgumentError("metadata", "is required")
	}

	e := &entry{
		path:     []byte(def.Path),
		metadata: def.Metadata,
	}

	var unknown []string
	e.methods, unknown = newMethodSet(def.Method)

	if def.Host != "" {
		e.host = newHostMatcher(def.Host)
	}
	if def.RemoteAddr != "" {
		m, err := parseAddressMatcher(def.RemoteAddr)
		if err != nil {
			return nil, nil, err
		}
		e.addr = m
	}

	return e, unknown, nil
}

// accepts applies the method, host and address constraints to a query.
// Absent constraints always accept.
func (e *entry) accepts(q Query) bool {
	if !e.methods.matches(q.Method) {
		return false
	}
	if e.host != nil && !e.host.matches(q.Host) {
		return false
	}
	if e.addr != nil && !e.addr.matches(q.RemoteAddr) {
		return false
	}
	return true
}
