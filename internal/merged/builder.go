package merged

import (
	"fmt"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// Builder merges validated selection trees. Selection sets passed to it
// must have been accepted by the validator; anything the catalog cannot
// resolve is reported as ErrInternal.
type Builder struct {
	catalog ir.Catalog
	memo    *Memo
	// client selectables currently being traversed, outermost first
	stack []ir.SelectableID
}

func NewBuilder(catalog ir.Catalog, memo *Memo) *Builder {
	if memo == nil {
		memo = NewMemo()
	}
	return &Builder{catalog: catalog, memo: memo}
}

func (b *Builder) Memo() *Memo { return b.memo }

// MergeClientSelectable returns the merged reader of a client selectable,
// computing it on first use.
func (b *Builder) MergeClientSelectable(id ir.SelectableID) (*FieldTraversalResult, error) {
	return b.traverse(id)
}

// Merge merges every set, all selected on parent, into one fresh map.
func (b *Builder) Merge(parent string, sets ...selection.SelectionSet) (*FieldTraversalResult, error) {
	result := &FieldTraversalResult{Selections: NewMap(), State: NewTraversalState()}
	for _, set := range sets {
		if err := b.MergeInto(result.Selections, result.State, parent, set); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// MergeInto merges set, selected on parent, into m and state.
func (b *Builder) MergeInto(m *Map, state *TraversalState, parent string, set selection.SelectionSet) error {
	return b.merge(set, parent, nil, m, state)
}

func (b *Builder) merge(set selection.SelectionSet, parent string, path Path, m *Map, state *TraversalState) error {
	for _, sel := range set {
		s, ok := b.catalog.Selectable(parent, sel.Name)
		if !ok {
			return fmt.Errorf("%w: selectable %s.%s not found", ErrInternal, parent, sel.Name)
		}

		var err error
		switch s.Kind() {
		case ir.ServerScalar:
			m.Put(&MergedSelection{
				Kind:       SelectionScalar,
				Name:       sel.Name,
				Selectable: s.ID,
				Arguments:  selection.SortedArguments(sel.Arguments),
			})
		case ir.ServerObject:
			err = b.mergeLinked(sel, s, path, m, state)
		case ir.ClientScalar:
			if sel.Directive.Kind == selection.DirectiveLoadable {
				err = b.mergeImperative(sel, s, SourceLoadable, parent, path, m, state)
				break
			}
			switch s.Variant {
			case ir.VariantUserWritten, ir.VariantLink:
				err = b.mergeClientField(s, path, m, state)
			case ir.VariantImperativelyLoaded:
				err = b.mergeImperative(sel, s, SourceImperative, parent, path, m, state)
			default:
				panic("unreachable")
			}
		case ir.ClientObject:
			err = b.mergePointer(sel, s, path, m, state)
		default:
			panic("unreachable")
		}
		if err != nil {
			return err
		}
	}
	return b.complete(parent, m)
}

func (b *Builder) mergeLinked(sel *selection.Selection, s *ir.Selectable, path Path, m *Map, state *TraversalState) error {
	entry := m.Put(&MergedSelection{
		Kind:       SelectionLinked,
		Name:       sel.Name,
		Selectable: s.ID,
		Arguments:  selection.SortedArguments(sel.Arguments),
	})
	return b.merge(sel.Selections, s.TargetEntity(), path.Append(entry.Key()), entry.Selections, state)
}

func (b *Builder) mergeClientField(s *ir.Selectable, path Path, m *Map, state *TraversalState) error {
	result, err := b.traverse(s.ID)
	if err != nil {
		return err
	}
	m.MergeFrom(result.Selections)
	state.mergeWithPrefix(result.State, path)
	return nil
}

func (b *Builder) mergeImperative(sel *selection.Selection, s *ir.Selectable, source RefetchSource, parent string, path Path, m *Map, state *TraversalState) error {
	strategy, ok := b.catalog.RefetchStrategy(s.ID)
	if !ok {
		return fmt.Errorf("%w: %s has no refetch strategy", ErrInternal, s.ID)
	}
	if err := b.merge(strategy.RequiredSelections, parent, path, m, state); err != nil {
		return err
	}
	state.add(&RootRefetchedPath{
		Path:       path,
		FieldName:  s.ID.Name,
		Directive:  sel.Directive.Kind,
		Selectable: s.ID,
		Source:     source,
		Strategy:   strategy,
	})
	return nil
}

// mergePointer inlines the reader of the pointer and diverts the selections
// made through it into a separate map, fetched by its refetch query.
func (b *Builder) mergePointer(sel *selection.Selection, s *ir.Selectable, path Path, m *Map, state *TraversalState) error {
	if err := b.mergeClientField(s, path, m, state); err != nil {
		return err
	}
	strategy, ok := b.catalog.RefetchStrategy(s.ID)
	if !ok {
		return fmt.Errorf("%w: pointer %s has no refetch strategy", ErrInternal, s.ID)
	}

	target := s.TargetEntity()
	nestedPath := path.Append(InlineFragmentKey(target))
	nested := NewMap()
	if err := b.merge(sel.Selections, target, nestedPath, nested, state); err != nil {
		return err
	}
	state.add(&RootRefetchedPath{
		Path:       nestedPath,
		FieldName:  s.ID.Name,
		Directive:  sel.Directive.Kind,
		Selectable: s.ID,
		Source:     SourcePointer,
		Strategy:   strategy,
		Selections: nested,
	})
	return nil
}

func (b *Builder) traverse(id ir.SelectableID) (*FieldTraversalResult, error) {
	switch b.memo.status(id) {
	case memoDone:
		result, _ := b.memo.Lookup(id)
		return result, nil
	case memoInProgress:
		return nil, b.cycle(id)
	case memoNotStarted:
	default:
		panic("unreachable")
	}

	reader, ok := b.catalog.ReaderSelectionSet(id)
	if !ok {
		return nil, fmt.Errorf("%w: client selectable %s not found", ErrInternal, id)
	}

	b.memo.start(id)
	b.stack = append(b.stack, id)
	result := &FieldTraversalResult{Selections: NewMap(), State: NewTraversalState()}
	err := b.merge(reader, id.Parent, nil, result.Selections, result.State)
	b.stack = b.stack[:len(b.stack)-1]
	if err != nil {
		b.memo.abort(id)
		return nil, err
	}
	b.memo.finish(id, result)
	return result, nil
}

func (b *Builder) cycle(id ir.SelectableID) error {
	start := 0
	for i, s := range b.stack {
		if s == id {
			start = i
			break
		}
	}
	path := append([]ir.SelectableID(nil), b.stack[start:]...)
	return &SelectionCycleError{Path: append(path, id)}
}

// complete adds the fields every map for entity must contain: the id field,
// and __typename for abstract entities.
func (b *Builder) complete(entity string, m *Map) error {
	e, ok := b.catalog.Entity(entity)
	if !ok {
		return fmt.Errorf("%w: entity %q not found", ErrInternal, entity)
	}
	if !e.IsObject() {
		return nil
	}
	if e.IDField != "" {
		m.Put(&MergedSelection{
			Kind:       SelectionScalar,
			Name:       e.IDField,
			Selectable: ir.SelectableID{Parent: entity, Name: e.IDField},
		})
	}
	if !e.Concrete {
		m.Put(&MergedSelection{
			Kind:       SelectionScalar,
			Name:       "__typename",
			Selectable: ir.SelectableID{Parent: entity, Name: "__typename"},
		})
	}
	return nil
}
