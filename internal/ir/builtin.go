package ir

import (
	language "github.com/hanpama/selectiongraph/internal/language"
)

const typenameField = "__typename"

func builtinScalars() []*Entity {
	return []*Entity{
		{Name: "String", Kind: EntityKindScalar, Definition: language.Scalar, Description: "The String scalar type represents textual data, represented as UTF-8 character sequences."},
		{Name: "Int", Kind: EntityKindScalar, Definition: language.Scalar, Description: "The Int scalar type represents non-fractional signed whole numeric values."},
		{Name: "Float", Kind: EntityKindScalar, Definition: language.Scalar, Description: "The Float scalar type represents signed double-precision fractional values."},
		{Name: "Boolean", Kind: EntityKindScalar, Definition: language.Scalar, Description: "The Boolean scalar type represents true or false."},
		{Name: "ID", Kind: EntityKindScalar, Definition: language.Scalar, Description: "The ID scalar type represents a unique identifier, often used to refetch an object or as a key for caching."},
	}
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

// Directives interpreted by the builder or accepted without effect.
var knownTypeDirectives = map[string]struct{}{
	"exposeField": {},
	"deprecated":  {},
	"specifiedBy": {},
	"oneOf":       {},
}
