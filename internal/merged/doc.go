// Package merged flattens the selection trees of client selectables into
// deduplicated, normalized selection maps, one per traversal root, and
// collects the imperative selections that must be fetched by secondary
// refetch queries.
//
// A Builder resolves selections through an ir.Catalog and caches the result
// of every client selectable it traverses in a Memo. The memo also detects
// selection cycles: a client selectable that is re-entered while its own
// selection set is still being merged yields a *SelectionCycleError.
package merged
