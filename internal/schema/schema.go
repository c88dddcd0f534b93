package schema

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// Schema is the printable view of a project: server types with their client
// selectables folded in as annotated fields.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type // All named types keyed by name
	Directives       map[string]*Directive
}

// Type is a named GraphQL type (object, interface, union, scalar, enum, input)
type Type struct {
	Name          string
	Kind          TypeKind
	Description   string
	Fields        []*Field      // For OBJECT and INTERFACE
	Interfaces    []string      // For OBJECT
	PossibleTypes []string      // For UNION
	EnumValues    []string      // For ENUM
	InputFields   []*InputValue // For INPUT_OBJECT
}

type Field struct {
	Name        string
	Description string
	Type        *ir.TypeExpr
	Arguments   []*InputValue
	// Client is set for client selectables.
	Client *ClientInfo
}

type ClientInfo struct {
	Variant     ir.ClientVariant
	Entrypoint  bool
	RefetchRoot string
}

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

type InputValue struct {
	Name         string
	Description  string
	Type         *ir.TypeExpr
	DefaultValue *selection.Value
}

type Directive struct {
	Name        string
	Description string
	Locations   []string
	Arguments   []*InputValue
}
