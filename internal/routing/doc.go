// Package routing implements the route-matching core: raw route definitions
// are normalized once into an immutable Table, and per-request Match calls
// resolve the most specific registered path prefix whose method, host and
// client-address constraints accept the query.
//
// Candidate paths come from a prefix index (see prefixidx); ties among
// candidates are broken by descending registered path length, with
// registration order preserved among equal lengths. A failed match is a
// regular result, not an error.
//
// A Table is read-only after Build, so concurrent Match calls need no
// locking. Close releases the prefix index deterministically; Match after
// Close fails with util.ErrTableClosed.
package routing
