package language

import "github.com/vektah/gqlparser/v2/ast"

// Schema side: definitions the catalog is built from.
type (
	SchemaDocument     = ast.SchemaDocument
	Definition         = ast.Definition
	DefinitionKind     = ast.DefinitionKind
	FieldDefinition    = ast.FieldDefinition
	ArgumentDefinition = ast.ArgumentDefinition
	Type               = ast.Type
)

const (
	Object      DefinitionKind = ast.Object
	Interface   DefinitionKind = ast.Interface
	Union       DefinitionKind = ast.Union
	Scalar      DefinitionKind = ast.Scalar
	Enum        DefinitionKind = ast.Enum
	InputObject DefinitionKind = ast.InputObject
)

// Client side: fragment documents read in, operations printed out.
type (
	QueryDocument       = ast.QueryDocument
	FragmentDefinition  = ast.FragmentDefinition
	FragmentSpread      = ast.FragmentSpread
	InlineFragment      = ast.InlineFragment
	Field               = ast.Field
	SelectionSet        = ast.SelectionSet
	Directive           = ast.Directive
	Argument            = ast.Argument
	VariableDefinition  = ast.VariableDefinition
	VariableDefinitions = ast.VariableDefinitionList
	OperationList       = ast.OperationList
	Operation           = ast.Operation
	Position            = ast.Position
)

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription
)

// Argument values.
type (
	Value      = ast.Value
	ValueKind  = ast.ValueKind
	ChildValue = ast.ChildValue
)

const (
	Variable     ValueKind = ast.Variable
	IntValue     ValueKind = ast.IntValue
	FloatValue   ValueKind = ast.FloatValue
	StringValue  ValueKind = ast.StringValue
	BlockValue   ValueKind = ast.BlockValue
	BooleanValue ValueKind = ast.BooleanValue
	NullValue    ValueKind = ast.NullValue
	EnumValue    ValueKind = ast.EnumValue
	ListValue    ValueKind = ast.ListValue
	ObjectValue  ValueKind = ast.ObjectValue
)
