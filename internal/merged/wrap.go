package merged

import (
	"fmt"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// Wrap nests selections inside the wrapper selections of strategy, so that
// the result can be selected on strategy.RootFetchableType. Refine steps
// become inline fragments that also select __typename.
func Wrap(catalog ir.Catalog, strategy *ir.RefetchStrategy, selections *Map) (*Map, error) {
	// Resolve the entity at every level first, outermost to innermost.
	parents := make([]string, len(strategy.Wrap))
	current := strategy.RootFetchableType
	for i, step := range strategy.Wrap {
		parents[i] = current
		switch step.Kind {
		case ir.WrapLinked:
			s, ok := catalog.Selectable(current, step.Name)
			if !ok || s.IsClient() {
				return nil, fmt.Errorf("%w: wrapper field %s.%s not found", ErrInternal, current, step.Name)
			}
			current = s.TargetEntity()
		case ir.WrapRefine:
			current = step.Type
		default:
			panic("unreachable")
		}
	}

	inner := selections.Clone()
	for i := len(strategy.Wrap) - 1; i >= 0; i-- {
		step := strategy.Wrap[i]
		outer := NewMap()
		switch step.Kind {
		case ir.WrapLinked:
			outer.Put(&MergedSelection{
				Kind:       SelectionLinked,
				Name:       step.Name,
				Selectable: ir.SelectableID{Parent: parents[i], Name: step.Name},
				Arguments:  selection.SortedArguments(step.Arguments),
				Selections: inner,
			})
		case ir.WrapRefine:
			inner.Put(&MergedSelection{
				Kind:       SelectionScalar,
				Name:       "__typename",
				Selectable: ir.SelectableID{Parent: step.Type, Name: "__typename"},
			})
			outer.Put(&MergedSelection{
				Kind:       SelectionInlineFragment,
				Name:       step.Type,
				Selections: inner,
			})
		default:
			panic("unreachable")
		}
		inner = outer
	}
	return inner, nil
}
