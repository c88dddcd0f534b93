package ir

import (
	"strings"

	language "github.com/hanpama/selectiongraph/internal/language"
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

func (b *builder) populateFields() error {
	for _, doc := range b.schemaDocs {
		for _, node := range doc.Definitions {
			b.populateDefinitionFields(b.Entities[node.Name], node)
		}
	}
	for _, doc := range b.schemaDocs {
		for _, node := range doc.Extensions {
			if e := b.Entities[node.Name]; e != nil {
				b.populateDefinitionFields(e, node)
			}
		}
	}

	for _, e := range b.Entities {
		if !e.IsObject() {
			continue
		}
		b.addSelectable(e, &Selectable{
			ID:          SelectableID{Name: typenameField},
			Description: "The name of the current object type.",
			Location:    LocationServer,
			Shape:       selection.ShapeScalar,
			Target:      NonNull(NamedType("String")),
		})
		if id, ok := e.Selectables["id"]; ok && id.Target.String() == "ID!" {
			e.IDField = "id"
		}
	}

	return b.check()
}

func (b *builder) populateDefinitionFields(e *Entity, node *language.Definition) {
	switch node.Kind {
	case language.Object, language.Interface:
		kind := "object"
		if node.Kind == language.Interface {
			kind = "interface"
		}
		for _, fieldNode := range node.Fields {
			if strings.HasPrefix(fieldNode.Name, "__") {
				b.addViolation(violationReservedFieldPrefix("Field", fieldNode.Name, fieldNode.Position))
				continue
			}
			if _, ok := e.Selectables[fieldNode.Name]; ok {
				b.addViolation(violationDuplicateField(kind, fieldNode.Name, node.Name, fieldNode.Position))
				continue
			}
			b.addSelectable(e, b.populateServerSelectable(fieldNode))
		}
	case language.Union:
		// NOOP
	case language.InputObject:
		for _, fieldNode := range node.Fields {
			duplicate := false
			for _, existing := range e.InputFields {
				duplicate = duplicate || existing.Name == fieldNode.Name
			}
			if duplicate {
				b.addViolation(violationDuplicateField("input", fieldNode.Name, node.Name, fieldNode.Position))
				continue
			}
			e.InputFields = append(e.InputFields, b.projectInputField(len(e.InputFields), fieldNode))
		}
	case language.Enum:
		for _, value := range node.EnumValues {
			e.EnumValues = append(e.EnumValues, value.Name)
		}
	case language.Scalar:
		// NOOP
	default:
		panic("unreachable")
	}
}

func (b *builder) populateServerSelectable(node *language.FieldDefinition) *Selectable {
	s := &Selectable{
		ID:          SelectableID{Name: node.Name},
		Description: node.Description,
		Location:    LocationServer,
		Shape:       selection.ShapeScalar,
		Target:      b.projectTypeExpr(node.Type, typeExprModeOutput),
		Position:    node.Position,
	}
	if target, ok := b.Entities[s.Target.Unwrap()]; ok && target.IsObject() {
		s.Shape = selection.ShapeObject
	}

	for _, argNode := range node.Arguments {
		if strings.HasPrefix(argNode.Name, "__") {
			b.addViolation(violationReservedFieldPrefix("Argument", argNode.Name, argNode.Position))
			continue
		}
		s.Arguments = append(s.Arguments, b.projectArgumentDefinition(len(s.Arguments), argNode))
	}
	return s
}

func (b *builder) projectArgumentDefinition(index int, node *language.ArgumentDefinition) *ArgumentDefinition {
	def := &ArgumentDefinition{
		Name:        node.Name,
		Description: node.Description,
		Index:       index,
		Type:        b.projectTypeExpr(node.Type, typeExprModeInput),
	}
	if node.DefaultValue != nil {
		defaultValue, err := selection.FromAST(node.DefaultValue)
		if err != nil {
			b.addViolation(violationInvalidValue(err, node.DefaultValue.Position))
		}
		def.DefaultValue = defaultValue
	}
	return def
}

func (b *builder) projectInputField(index int, node *language.FieldDefinition) *ArgumentDefinition {
	def := &ArgumentDefinition{
		Name:        node.Name,
		Description: node.Description,
		Index:       index,
		Type:        b.projectTypeExpr(node.Type, typeExprModeInput),
	}
	if node.DefaultValue != nil {
		defaultValue, err := selection.FromAST(node.DefaultValue)
		if err != nil {
			b.addViolation(violationInvalidValue(err, node.DefaultValue.Position))
		}
		def.DefaultValue = defaultValue
	}
	return def
}

type typeExprMode int

const (
	typeExprModeInput typeExprMode = iota
	typeExprModeOutput
)

func (b *builder) projectTypeExpr(node *language.Type, mode typeExprMode) *TypeExpr {
	var expr *TypeExpr
	if node.Elem != nil {
		expr = &TypeExpr{Kind: TypeExprKindList, OfType: b.projectTypeExpr(node.Elem, mode)}
	} else {
		expr = NamedType(node.NamedType)
		e, ok := b.Entities[node.NamedType]
		switch {
		case !ok:
			b.addViolation(violationTypeNotFound(node.NamedType, node.Position))
		case mode == typeExprModeInput && e.Kind == EntityKindObject:
			b.addViolation(violationTypeNotInput(node.NamedType, node.Position))
		case mode == typeExprModeOutput && e.Kind == EntityKindInput:
			b.addViolation(violationTypeNotOutput(node.NamedType, node.Position))
		}
	}
	if node.NonNull {
		expr = NonNull(expr)
	}
	return expr
}

// parseTypeRef parses a type reference written as a string, such as
// "User", "User!" or "[User!]".
func parseTypeRef(ref string) (*TypeExpr, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if strings.HasSuffix(ref, "!") {
		inner, ok := parseTypeRef(strings.TrimSuffix(ref, "!"))
		if !ok || inner.Kind == TypeExprKindNonNull {
			return nil, false
		}
		return NonNull(inner), true
	}
	if strings.HasPrefix(ref, "[") {
		if !strings.HasSuffix(ref, "]") {
			return nil, false
		}
		inner, ok := parseTypeRef(ref[1 : len(ref)-1])
		if !ok {
			return nil, false
		}
		return &TypeExpr{Kind: TypeExprKindList, OfType: inner}, true
	}
	if strings.ContainsAny(ref, "[]! \t") {
		return nil, false
	}
	return NamedType(ref), true
}
