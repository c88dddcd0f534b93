package merged

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// RefetchQuery is a secondary query split out of a traversal root. Index is
// its position in the sorted refetch list.
type RefetchQuery struct {
	Index             int                     `json:"index"`
	Path              Path                    `json:"-"`
	PathString        string                  `json:"path"`
	FieldName         string                  `json:"fieldName"`
	Directive         selection.DirectiveKind `json:"directive"`
	Selectable        ir.SelectableID         `json:"selectable"`
	Source            RefetchSource           `json:"source"`
	RootFetchableType string                  `json:"rootFetchableType"`
	Selections        *Map                    `json:"selections"`
	Variables         []string                `json:"variables"`
	// VariableDefinitions are the strategy's variables, the arguments of the
	// refetched selectable and the enclosing root's variables, pruned to
	// Variables.
	VariableDefinitions []*ir.ArgumentDefinition `json:"variableDefinitions,omitempty"`
	// RefetchQueries are the queries split out of a loadable's own traversal.
	RefetchQueries []*RefetchQuery `json:"refetchQueries,omitempty"`
}

// RefetchIndex is the ordered list of refetch queries of one root.
type RefetchIndex struct {
	Queries []*RefetchQuery
}

// Lookup returns the index of the refetch query for field at path.
func (x *RefetchIndex) Lookup(path Path, field string) (int, bool) {
	for _, q := range x.Queries {
		if q.FieldName == field && q.Path.Equal(path) {
			return q.Index, true
		}
	}
	return 0, false
}

func (x *RefetchIndex) Len() int { return len(x.Queries) }

// SortRefetchPaths orders refetch paths by path, then field name, then
// directive.
func SortRefetchPaths(state *TraversalState) []*RootRefetchedPath {
	paths := make([]*RootRefetchedPath, 0, len(state.RefetchPaths))
	for _, r := range state.RefetchPaths {
		paths = append(paths, r)
	}
	sort.Slice(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		if c := a.Path.Compare(b.Path); c != 0 {
			return c < 0
		}
		if a.FieldName != b.FieldName {
			return a.FieldName < b.FieldName
		}
		return a.Directive < b.Directive
	})
	return paths
}

// IndexRefetchPaths drains the refetch paths of a traversal root into an
// ordered list of refetch queries. root is the merged map of that root and
// scope the variables the root declares. Selections copied from root may use
// them, so they are declared by the refetch queries that do.
//
// A loadable field is fetched on its own, so the refetch paths of its own
// traversal are indexed into the loadable's RefetchQueries, with paths
// relative to the loadable.
func (b *Builder) IndexRefetchPaths(root *Map, state *TraversalState, scope []*ir.ArgumentDefinition) (*RefetchIndex, error) {
	return b.indexRefetchPaths(root, state, scope, nil)
}

// loading holds the loadables whose nested queries are being indexed.
func (b *Builder) indexRefetchPaths(root *Map, state *TraversalState, scope []*ir.ArgumentDefinition, loading []ir.SelectableID) (*RefetchIndex, error) {
	index := &RefetchIndex{}
	sorted := SortRefetchPaths(state)
	for i, r := range sorted {
		selections, err := b.refetchSelections(root, sorted, r)
		if err != nil {
			return nil, err
		}
		wrapped, err := Wrap(b.catalog, r.Strategy, selections)
		if err != nil {
			return nil, err
		}
		variables := ReachableVariables(wrapped)
		defs := b.refetchScope(r, scope)
		q := &RefetchQuery{
			Index:               i,
			Path:                r.Path,
			PathString:          r.Path.String(),
			FieldName:           r.FieldName,
			Directive:           r.Directive,
			Selectable:          r.Selectable,
			Source:              r.Source,
			RootFetchableType:   r.Strategy.RootFetchableType,
			Selections:          wrapped,
			Variables:           variables,
			VariableDefinitions: PruneVariables(defs, variables),
		}
		if r.Source == SourceLoadable && !slices.Contains(loading, r.Selectable) {
			result, err := b.traverse(r.Selectable)
			if err != nil {
				return nil, err
			}
			if result.State.Len() > 0 {
				nested, err := b.indexRefetchPaths(result.Selections, result.State, defs, append(slices.Clip(loading), r.Selectable))
				if err != nil {
					return nil, err
				}
				q.RefetchQueries = nested.Queries
			}
		}
		index.Queries = append(index.Queries, q)
	}
	return index, nil
}

func (b *Builder) refetchSelections(root *Map, all []*RootRefetchedPath, r *RootRefetchedPath) (*Map, error) {
	switch r.Source {
	case SourceLoadable:
		result, err := b.traverse(r.Selectable)
		if err != nil {
			return nil, err
		}
		return result.Selections, nil
	case SourceImperative:
		if m, ok := root.FindByPath(r.Path); ok {
			return m, nil
		}
		// The path may lead through a pointer, whose selections live in the
		// pointer's own map.
		for _, p := range all {
			if p.Source != SourcePointer || !r.Path.HasPrefix(p.Path) {
				continue
			}
			if m, ok := p.Selections.FindByPath(r.Path[len(p.Path):]); ok {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: no selections at refetch path %q", ErrInternal, r.Path)
	case SourcePointer:
		return r.Selections, nil
	default:
		panic("unreachable")
	}
}

// refetchScope lists every variable a refetch query for r may declare: the
// strategy's variables, the refetched selectable's arguments, then scope.
// Earlier definitions win on name clashes.
func (b *Builder) refetchScope(r *RootRefetchedPath, scope []*ir.ArgumentDefinition) []*ir.ArgumentDefinition {
	var defs []*ir.ArgumentDefinition
	seen := make(map[string]struct{})
	add := func(list []*ir.ArgumentDefinition) {
		for _, def := range list {
			if _, ok := seen[def.Name]; ok {
				continue
			}
			seen[def.Name] = struct{}{}
			defs = append(defs, def)
		}
	}
	add(r.Strategy.Variables)
	if s, ok := b.catalog.Selectable(r.Selectable.Parent, r.Selectable.Name); ok {
		add(s.Arguments)
	}
	add(scope)
	return defs
}
