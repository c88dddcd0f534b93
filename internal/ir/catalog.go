package ir

import (
	"sort"

	selection "github.com/hanpama/selectiongraph/internal/selection"
)

// Catalog is the read-only view of a built project that the validator and
// the merged selection builder consume.
type Catalog interface {
	Selectable(parent, name string) (*Selectable, bool)
	Entity(name string) (*Entity, bool)
	ReaderSelectionSet(id SelectableID) (selection.SelectionSet, bool)
	RefetchStrategy(id SelectableID) (*RefetchStrategy, bool)
}

var _ Catalog = (*Project)(nil)

func (p *Project) Entity(name string) (*Entity, bool) {
	e, ok := p.Entities[name]
	return e, ok
}

func (p *Project) Selectable(parent, name string) (*Selectable, bool) {
	e, ok := p.Entities[parent]
	if !ok {
		return nil, false
	}
	s, ok := e.Selectables[name]
	return s, ok
}

func (p *Project) lookup(id SelectableID) *Selectable {
	s, _ := p.Selectable(id.Parent, id.Name)
	return s
}

// ReaderSelectionSet returns the selection set a client selectable reads.
// Server selectables have none.
func (p *Project) ReaderSelectionSet(id SelectableID) (selection.SelectionSet, bool) {
	s := p.lookup(id)
	if s == nil || !s.IsClient() {
		return nil, false
	}
	return s.Reader, true
}

func (p *Project) RefetchStrategy(id SelectableID) (*RefetchStrategy, bool) {
	s := p.lookup(id)
	if s == nil || s.Refetch == nil {
		return nil, false
	}
	return s.Refetch, true
}

// IsFetchable reports whether name is a root operation type.
func (p *Project) IsFetchable(name string) bool {
	if p.Schema == nil || name == "" {
		return false
	}
	return name == p.Schema.QueryType || name == p.Schema.MutationType
}

// OperationFor returns the operation keyword used to fetch from a root type.
func (p *Project) OperationFor(rootType string) string {
	if p.Schema != nil && rootType == p.Schema.MutationType {
		return "mutation"
	}
	return "query"
}

// Entrypoints returns every entrypoint in a stable order.
func (p *Project) Entrypoints() []SelectableID {
	var ids []SelectableID
	for _, id := range p.ClientSelectables() {
		if p.lookup(id).Entrypoint {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClientSelectables returns every client selectable in a stable order,
// including synthesised ones.
func (p *Project) ClientSelectables() []SelectableID {
	var ids []SelectableID
	for _, e := range p.Entities {
		for _, s := range e.Selectables {
			if s.IsClient() {
				ids = append(ids, s.ID)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// OrderedEntities returns entities sorted by name.
func (p *Project) OrderedEntities() []*Entity {
	entities := make([]*Entity, 0, len(p.Entities))
	for _, e := range p.Entities {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities
}
