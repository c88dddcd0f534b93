package merged

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// RefetchSource tells where the selections of a refetch query come from.
type RefetchSource int

const (
	// SourceLoadable refetches the merged reader of the selectable itself.
	SourceLoadable RefetchSource = iota
	// SourceImperative refetches whatever the root map holds at the path.
	SourceImperative
	// SourcePointer refetches the selections made through a pointer.
	SourcePointer
)

func (s RefetchSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s RefetchSource) String() string {
	switch s {
	case SourceLoadable:
		return "loadable"
	case SourceImperative:
		return "imperative"
	case SourcePointer:
		return "pointer"
	default:
		return "unknown"
	}
}

type RefetchPathKey struct {
	path      string
	FieldName string
	Directive selection.DirectiveKind
}

// RootRefetchedPath describes one imperative selection found while merging:
// where it is, which selectable it is, and how to reach it from a root
// fetchable type.
type RootRefetchedPath struct {
	Path       Path
	FieldName  string
	Directive  selection.DirectiveKind
	Selectable ir.SelectableID
	Source     RefetchSource
	Strategy   *ir.RefetchStrategy
	// Selections is set for SourcePointer only.
	Selections *Map
}

func (r *RootRefetchedPath) Key() RefetchPathKey {
	return RefetchPathKey{path: r.Path.key(), FieldName: r.FieldName, Directive: r.Directive}
}

func (r *RootRefetchedPath) clone(prefix Path) *RootRefetchedPath {
	out := *r
	out.Path = r.Path.Prefixed(prefix)
	if r.Selections != nil {
		out.Selections = r.Selections.Clone()
	}
	return &out
}

// TraversalState holds the refetch paths discovered under one traversal
// root.
type TraversalState struct {
	RefetchPaths map[RefetchPathKey]*RootRefetchedPath
}

func NewTraversalState() *TraversalState {
	return &TraversalState{RefetchPaths: make(map[RefetchPathKey]*RootRefetchedPath)}
}

func (s *TraversalState) Len() int { return len(s.RefetchPaths) }

// add records r. When the key is already present, pointer selections are
// merged into the existing entry.
func (s *TraversalState) add(r *RootRefetchedPath) {
	k := r.Key()
	existing, ok := s.RefetchPaths[k]
	if !ok {
		s.RefetchPaths[k] = r
		return
	}
	if existing.Selections != nil && r.Selections != nil {
		existing.Selections.MergeFrom(r.Selections)
	}
}

// mergeWithPrefix copies the refetch paths of other into s, each with
// prefix prepended to its path.
func (s *TraversalState) mergeWithPrefix(other *TraversalState, prefix Path) {
	for _, r := range other.RefetchPaths {
		s.add(r.clone(prefix))
	}
}
