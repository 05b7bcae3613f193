// Package prefixidx defines the prefix-matching engine boundary used by the
// routing core and provides a default engine backed by an immutable radix
// tree.
//
// The engine stores byte-string keys with opaque integer references and,
// given a query key, produces the set of stored keys that are byte-prefixes
// of the query. Candidates are consumed through a Cursor that must be stopped
// exactly once per successful Search, including on early termination, so that
// the engine's iterator resources are never leaked.
//
// Engines must tolerate concurrent Search/Next/Stop sequences on distinct
// cursors while no Insert or Close is in flight; the routing core freezes the
// table before serving concurrent matches.
package prefixidx
