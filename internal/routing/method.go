package routing

import (
	"net/http"
	"strings"
)

// methodSet encodes a set of HTTP methods as a bitmask. The zero value
// matches any method.
type methodSet uint32

const (
	methodGet methodSet = 1 << iota
	methodPost
	methodPut
	methodDelete
	methodPatch
	methodHead
	methodOptions
	methodConnect
	methodTrace
)

var methodBits = map[string]methodSet{
	http.MethodGet:     methodGet,
	http.MethodPost:    methodPost,
	http.MethodPut:     methodPut,
	http.MethodDelete:  methodDelete,
	http.MethodPatch:   methodPatch,
	http.MethodHead:    methodHead,
	http.MethodOptions: methodOptions,
	http.MethodConnect: methodConnect,
	http.MethodTrace:   methodTrace,
}

// methodBit resolves a method name to its bit. Unknown names resolve to
// zero.
func methodBit(name string) methodSet {
	return methodBits[strings.ToUpper(name)]
}

// newMethodSet folds method names into a bitmask and reports the names that
// resolved to no known method. Unknown names contribute nothing to the mask;
// callers decide whether that deserves a warning.
func newMethodSet(names []string) (set methodSet, unknown []string) {
	for _, name := range names {
		bit := methodBit(name)
		if bit == 0 {
			unknown = append(unknown, name)
			continue
		}
		set |= bit
	}
	return set, unknown
}

// matches reports whether the query method is accepted. A zero set accepts
// any method; an empty or unknown query method matches no nonzero set.
func (s methodSet) matches(method string) bool {
	if s == 0 {
		return true
	}
	return s&methodBit(method) != 0
}
