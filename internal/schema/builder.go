package schema

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	language "github.com/hanpama/selectiongraph/internal/language"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// BuildFromIR builds the printable schema of a project. Built-in scalars and
// __typename are left out; client selectables become fields carrying
// ClientInfo.
func BuildFromIR(p *ir.Project) (*Schema, error) {
	s := &Schema{
		QueryType:        p.Schema.QueryType,
		MutationType:     p.Schema.MutationType,
		SubscriptionType: p.Schema.SubscriptionType,
		Types:            make(map[string]*Type),
		Directives:       make(map[string]*Directive),
	}

	hasClient := false
	for _, e := range p.OrderedEntities() {
		if _, ok := builtinScalars[e.Name]; ok {
			continue
		}
		t := &Type{
			Name:          e.Name,
			Description:   e.Description,
			Interfaces:    e.Interfaces,
			PossibleTypes: e.PossibleTypes,
			EnumValues:    e.EnumValues,
		}
		switch e.Definition {
		case language.Object:
			t.Kind = TypeKindObject
		case language.Interface:
			t.Kind = TypeKindInterface
		case language.Union:
			t.Kind = TypeKindUnion
		case language.Scalar:
			t.Kind = TypeKindScalar
		case language.Enum:
			t.Kind = TypeKindEnum
		case language.InputObject:
			t.Kind = TypeKindInputObject
		default:
			panic("unreachable")
		}
		for _, f := range e.InputFields {
			t.InputFields = append(t.InputFields, buildInputValue(f))
		}
		if t.Kind == TypeKindObject || t.Kind == TypeKindInterface {
			for _, sel := range e.OrderedSelectables() {
				if sel.ID.Name == "__typename" {
					continue
				}
				f := buildField(sel)
				hasClient = hasClient || f.Client != nil
				t.Fields = append(t.Fields, f)
			}
		}
		s.Types[t.Name] = t
	}

	if hasClient {
		s.Types[clientFieldType.Name] = clientFieldType
		s.Directives[clientDirective.Name] = clientDirective
	}
	return s, nil
}

func buildField(sel *ir.Selectable) *Field {
	f := &Field{
		Name:        sel.ID.Name,
		Description: sel.Description,
		Type:        sel.Target,
	}
	for _, arg := range sel.Arguments {
		f.Arguments = append(f.Arguments, buildInputValue(arg))
	}
	if !sel.IsClient() {
		return f
	}

	f.Client = &ClientInfo{Variant: sel.Variant, Entrypoint: sel.Entrypoint}
	if sel.Refetch != nil {
		f.Client.RefetchRoot = sel.Refetch.RootFetchableType
	}
	if sel.Shape == selection.ShapeScalar {
		f.Type = ir.NamedType(clientFieldScalar)
	}
	return f
}

func buildInputValue(def *ir.ArgumentDefinition) *InputValue {
	return &InputValue{
		Name:         def.Name,
		Description:  def.Description,
		Type:         def.Type,
		DefaultValue: def.DefaultValue,
	}
}
