// Package querytext renders merged selection maps as GraphQL operations.
package querytext

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	language "github.com/hanpama/selectiongraph/internal/language"
	"github.com/hanpama/selectiongraph/internal/merged"
)

type Operation struct {
	// Kind is "query" or "mutation".
	Kind       string
	Name       string
	Variables  []*ir.ArgumentDefinition
	Selections *merged.Map
}

// Render prints op. Fields are aliased with their normalization alias when
// they have arguments.
func Render(op *Operation) string {
	doc := &language.QueryDocument{
		Operations: language.OperationList{{
			Operation:           language.Operation(op.Kind),
			Name:                op.Name,
			VariableDefinitions: variableDefinitions(op.Variables),
			SelectionSet:        selectionSet(op.Selections),
		}},
	}
	return language.FormatQueryDocument(doc)
}

func variableDefinitions(defs []*ir.ArgumentDefinition) language.VariableDefinitions {
	var out language.VariableDefinitions
	for _, def := range defs {
		v := &language.VariableDefinition{
			Variable: def.Name,
			Type:     typeRef(def.Type),
		}
		if def.DefaultValue != nil {
			v.DefaultValue = def.DefaultValue.ToAST()
		}
		out = append(out, v)
	}
	return out
}

func typeRef(t *ir.TypeExpr) *language.Type {
	switch t.Kind {
	case ir.TypeExprKindNamed:
		return &language.Type{NamedType: t.Named}
	case ir.TypeExprKindList:
		return &language.Type{Elem: typeRef(t.OfType)}
	case ir.TypeExprKindNonNull:
		inner := typeRef(t.OfType)
		inner.NonNull = true
		return inner
	default:
		panic("unreachable")
	}
}

func selectionSet(m *merged.Map) language.SelectionSet {
	if m == nil {
		return nil
	}
	var out language.SelectionSet
	for _, s := range m.Entries() {
		switch s.Kind {
		case merged.SelectionScalar, merged.SelectionLinked:
			field := &language.Field{
				Alias:        s.Alias(),
				Name:         s.Name,
				SelectionSet: selectionSet(s.Selections),
			}
			for _, arg := range s.Arguments {
				field.Arguments = append(field.Arguments, &language.Argument{Name: arg.Name, Value: arg.Value.ToAST()})
			}
			out = append(out, field)
		case merged.SelectionInlineFragment:
			out = append(out, &language.InlineFragment{
				TypeCondition: s.Name,
				SelectionSet:  selectionSet(s.Selections),
			})
		default:
			panic("unreachable")
		}
	}
	return out
}
