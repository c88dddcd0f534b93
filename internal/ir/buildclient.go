package ir

import (
	"strings"

	language "github.com/hanpama/selectiongraph/internal/language"
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

const (
	entrypointDirective = "entrypoint"
	pointerDirective    = "pointer"
)

// populateClientSelectables declares one client selectable per fragment
// definition found in client documents.
func (b *builder) populateClientSelectables() error {
	for _, doc := range b.clientDocs {
		for _, op := range doc.Operations {
			b.addViolation(violationOperationInClientDocument(op.Position))
		}
		for _, frag := range doc.Fragments {
			b.populateClientSelectable(frag)
		}
	}
	return b.check()
}

func (b *builder) populateClientSelectable(node *language.FragmentDefinition) {
	parent, name := node.TypeCondition, node.Name

	e, ok := b.Entities[parent]
	if !ok {
		b.addViolation(violationClientParentNotFound(parent, name, node.Position))
		return
	}
	if !e.IsObject() {
		b.addViolation(violationClientParentNotObject(parent, name, node.Position))
		return
	}
	if strings.HasPrefix(name, "__") {
		b.addViolation(violationReservedFieldPrefix("Client field", name, node.Position))
		return
	}
	if _, ok := e.Selectables[name]; ok {
		b.addViolation(violationSelectableAlreadyExists(parent, name, node.Position))
		return
	}

	s := &Selectable{
		ID:       SelectableID{Name: name},
		Location: LocationClient,
		Shape:    selection.ShapeScalar,
		Variant:  VariantUserWritten,
		Position: node.Position,
	}

	for _, v := range node.VariableDefinition {
		arg := &ArgumentDefinition{
			Name:  v.Variable,
			Index: len(s.Arguments),
			Type:  b.projectTypeExpr(v.Type, typeExprModeInput),
		}
		if v.DefaultValue != nil {
			defaultValue, err := selection.FromAST(v.DefaultValue)
			if err != nil {
				b.addViolation(violationInvalidValue(err, v.DefaultValue.Position))
			}
			arg.DefaultValue = defaultValue
		}
		s.Arguments = append(s.Arguments, arg)
	}

	for _, dir := range node.Directives {
		switch dir.Name {
		case entrypointDirective:
			b.directiveArguments(dir, nil)
			s.Entrypoint = true
		case pointerDirective:
			args := b.directiveArguments(dir, []string{"to"})
			to, ok := args["to"]
			if !ok {
				continue
			}
			ref := b.getStringValue(to)
			target, ok := parseTypeRef(ref)
			if !ok {
				b.addViolation(violationInvalidTypeReference(ref, to.Position))
				continue
			}
			if te, ok := b.Entities[target.Unwrap()]; !ok {
				b.addViolation(violationTypeNotFound(target.Unwrap(), to.Position))
				continue
			} else if !te.IsObject() {
				b.addViolation(violationPointerTargetNotObject(target.Unwrap(), to.Position))
				continue
			}
			s.Shape = selection.ShapeObject
			s.Target = target
		default:
			b.addViolation(violationUnknownDirectiveOnDeclaration(dir.Name, parent+"."+name, dir.Position))
		}
	}

	if s.Entrypoint {
		if s.Shape == selection.ShapeObject {
			b.addViolation(violationEntrypointOnPointer(parent, name, node.Position))
		} else if !b.isFetchable(parent) {
			b.addViolation(violationEntrypointNotFetchable(parent, name, node.Position))
		}
	}

	s.Reader = b.buildSelectionSet(node.SelectionSet)
	b.addSelectable(e, s)
}

func (b *builder) isFetchable(name string) bool {
	return name != "" && (name == b.Schema.QueryType || name == b.Schema.MutationType)
}
