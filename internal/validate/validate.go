// Package validate checks selection trees against the selectable catalog.
package validate

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

type Validator struct {
	catalog ir.Catalog
}

func New(catalog ir.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// ValidateSelectable checks the reader selection set of a client selectable.
func (v *Validator) ValidateSelectable(id ir.SelectableID) Diagnostics {
	reader, ok := v.catalog.ReaderSelectionSet(id)
	if !ok {
		return Diagnostics{newDiagnostic(CodeUnknownSelectable, id, nil,
			"client selectable %s does not exist", id)}
	}
	return v.validateSet(id, id.Parent, reader, nil)
}

// ValidateAll checks every listed client selectable and collects all
// diagnostics.
func (v *Validator) ValidateAll(ids []ir.SelectableID) Diagnostics {
	var ds Diagnostics
	for _, id := range ids {
		ds = append(ds, v.ValidateSelectable(id)...)
	}
	return ds
}

// ValidateSelectionSet checks set as if it were selected on parent.
func (v *Validator) ValidateSelectionSet(parent string, set selection.SelectionSet) Diagnostics {
	return v.validateSet(ir.SelectableID{}, parent, set, nil)
}

func (v *Validator) validateSet(owner ir.SelectableID, parent string, set selection.SelectionSet, ds Diagnostics) Diagnostics {
	seen := make(map[string]struct{}, len(set))
	for _, sel := range set {
		key := sel.NameOrAlias()
		if _, ok := seen[key]; ok {
			ds = append(ds, newDiagnostic(CodeDuplicateNameOrAlias, owner, sel.Position,
				"%q is selected more than once on %s", key, parent))
		}
		seen[key] = struct{}{}

		s, ok := v.catalog.Selectable(parent, sel.Name)
		if !ok {
			ds = append(ds, newDiagnostic(CodeUnknownSelectable, owner, sel.Position,
				"%s has no field %q", parent, sel.Name))
			continue
		}

		if s.Shape != sel.Shape {
			ds = append(ds, wrongShape(owner, s, sel))
			continue
		}
		if d := v.checkDirective(owner, s, sel); d != nil {
			ds = append(ds, d)
		}

		switch s.Kind() {
		case ir.ServerScalar, ir.ClientScalar:
			// leaves
		case ir.ServerObject, ir.ClientObject:
			ds = v.validateSet(owner, s.TargetEntity(), sel.Selections, ds)
		default:
			panic("unreachable")
		}
	}
	return ds
}

func wrongShape(owner ir.SelectableID, s *ir.Selectable, sel *selection.Selection) *Diagnostic {
	if sel.Shape == selection.ShapeObject {
		return newDiagnostic(CodeWrongSelectionShape, owner, sel.Position,
			"%s is a %s and cannot have a selection set", s.ID, s.Kind())
	}
	return newDiagnostic(CodeWrongSelectionShape, owner, sel.Position,
		"%s is a %s and must have a selection set", s.ID, s.Kind())
}

func (v *Validator) checkDirective(owner ir.SelectableID, s *ir.Selectable, sel *selection.Selection) *Diagnostic {
	switch sel.Directive.Kind {
	case selection.DirectiveNone:
		return nil
	case selection.DirectiveLoadable:
		switch s.Kind() {
		case ir.ServerScalar, ir.ServerObject, ir.ClientObject:
			return newDiagnostic(CodeIllegalDirective, owner, sel.Position,
				"@loadable cannot be used on %s, which is a %s", s.ID, s.Kind())
		case ir.ClientScalar:
			if s.Variant != ir.VariantUserWritten {
				return newDiagnostic(CodeIllegalDirective, owner, sel.Position,
					"@loadable cannot be used on %s, which is already loaded imperatively", s.ID)
			}
			if _, ok := v.catalog.RefetchStrategy(s.ID); !ok {
				return newDiagnostic(CodeIllegalDirective, owner, sel.Position,
					"@loadable cannot be used on %s: %s has no refetch strategy", s.ID, s.ID.Parent)
			}
			return nil
		default:
			panic("unreachable")
		}
	case selection.DirectiveUpdatable:
		switch s.Kind() {
		case ir.ServerScalar, ir.ServerObject:
			if s.ID.Name == "__typename" {
				return newDiagnostic(CodeIllegalDirective, owner, sel.Position,
					"@updatable cannot be used on %s", s.ID)
			}
			return nil
		case ir.ClientScalar, ir.ClientObject:
			return newDiagnostic(CodeIllegalDirective, owner, sel.Position,
				"@updatable cannot be used on %s, which is a %s", s.ID, s.Kind())
		default:
			panic("unreachable")
		}
	default:
		panic("unreachable")
	}
}
