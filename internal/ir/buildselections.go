package ir

import (
	language "github.com/hanpama/selectiongraph/internal/language"
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

const (
	loadableDirective  = "loadable"
	updatableDirective = "updatable"
)

// buildSelectionSet converts a parsed selection set into a selection tree.
// Only fields are accepted; the catalog is not consulted here.
func (b *builder) buildSelectionSet(set language.SelectionSet) selection.SelectionSet {
	var out selection.SelectionSet
	for _, node := range set {
		switch node := node.(type) {
		case *language.Field:
			if sel := b.buildSelection(node); sel != nil {
				out = append(out, sel)
			}
		case *language.FragmentSpread:
			b.addViolation(violationFragmentSpreadNotSupported(node.Name, node.Position))
		case *language.InlineFragment:
			b.addViolation(violationInlineFragmentNotSupported(node.Position))
		default:
			panic("unreachable")
		}
	}
	return out
}

func (b *builder) buildSelection(node *language.Field) *selection.Selection {
	sel := &selection.Selection{
		Shape:    selection.ShapeScalar,
		Name:     node.Name,
		Position: node.Position,
	}
	if node.Alias != "" && node.Alias != node.Name {
		sel.Alias = node.Alias
	}
	if len(node.SelectionSet) > 0 {
		sel.Shape = selection.ShapeObject
		sel.Selections = b.buildSelectionSet(node.SelectionSet)
	}

	for _, arg := range node.Arguments {
		value, err := selection.FromAST(arg.Value)
		if err != nil {
			b.addViolation(violationInvalidValue(err, arg.Position))
			continue
		}
		sel.Arguments = append(sel.Arguments, &selection.Argument{Name: arg.Name, Value: value, Position: arg.Position})
	}

	for _, dir := range node.Directives {
		switch dir.Name {
		case loadableDirective:
			args := b.directiveArguments(dir, nil, "lazyLoadArtifact", "complexArguments")
			params := &selection.LoadableParams{}
			if v, ok := args["lazyLoadArtifact"]; ok {
				params.LazyLoadArtifact = b.getBoolValue(v)
			}
			if v, ok := args["complexArguments"]; ok {
				params.ComplexArguments = b.getBoolValue(v)
			}
			if sel.Shape == selection.ShapeObject {
				b.addViolation(violationLoadableOnObjectSelection(sel.NameOrAlias(), dir.Position))
				continue
			}
			if sel.Directive.Kind != selection.DirectiveNone {
				b.addViolation(violationConflictingSelectionDirectives(sel.NameOrAlias(), dir.Position))
				continue
			}
			sel.Directive = selection.Directive{Kind: selection.DirectiveLoadable, Loadable: params}
		case updatableDirective:
			b.directiveArguments(dir, nil)
			if sel.Directive.Kind != selection.DirectiveNone {
				b.addViolation(violationConflictingSelectionDirectives(sel.NameOrAlias(), dir.Position))
				continue
			}
			sel.Directive = selection.Directive{Kind: selection.DirectiveUpdatable}
		default:
			b.addViolation(violationUnknownSelectionDirective(dir.Name, sel.NameOrAlias(), dir.Position))
		}
	}
	return sel
}
