package schema

import "github.com/hanpama/selectiongraph/internal/ir"

const clientFieldScalar = "ClientField"

var builtinScalars = map[string]struct{}{
	"String":  {},
	"Int":     {},
	"Float":   {},
	"Boolean": {},
	"ID":      {},
}

var clientFieldType = &Type{
	Name:        clientFieldScalar,
	Kind:        TypeKindScalar,
	Description: "The value of a client field, computed from its reader selection set.",
}

var clientDirective = &Directive{
	Name:        "client",
	Description: "Marks a field declared in a client document or synthesised for one.",
	Locations:   []string{"FIELD_DEFINITION"},
	Arguments: []*InputValue{
		{Name: "variant", Type: ir.NonNull(ir.NamedType("String"))},
		{Name: "entrypoint", Type: ir.NamedType("Boolean")},
		{Name: "refetchRoot", Type: ir.NamedType("String")},
	},
}
