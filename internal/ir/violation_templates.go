package ir

import (
	"fmt"

	language "github.com/hanpama/selectiongraph/internal/language"
)

// Common reusable violation constructors (template helpers)
// NOTE: Keep messages stable; tests match on them.

func violationSourceParse(file string, err error) *Violation {
	return &Violation{Message: fmt.Sprintf("failed to parse: %v", err), File: file}
}

func violationDefinitionAlreadyExists(name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Definition %q already exists", name),
		pos,
	)
}

func violationDefinitionNotFoundForExtension(name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("definition %q not found for extension", name),
		pos,
	)
}

func violationUnexpectedTypeForExtension(node *language.Definition, expected string) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Extension of %q must extend %s type", node.Name, expected),
		node.Position,
	)
}

func violationReservedFieldPrefix(kind, fieldName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("%s name %q cannot start with '__' (reserved prefix)", kind, fieldName),
		pos,
	)
}

func violationDuplicateField(kind, fieldName, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Duplicate field %q found in %s %q", fieldName, kind, typeName),
		pos,
	)
}

func violationTypeNotFound(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Type %q not found in definitions", typeName),
		pos,
	)
}

func violationTypeNotInput(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Type %q is not an input type", typeName),
		pos,
	)
}

func violationTypeNotOutput(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Type %q is not an output type", typeName),
		pos,
	)
}

func violationObjectMustHaveField(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Object type %q must have at least one field", typeName),
		pos,
	)
}

func violationSchemaAlreadyDefined(pos *language.Position) *Violation {
	return violationWithPosition("Schema definition already exists", pos)
}

func violationRootTypeNotFound(operation, typeName string) *Violation {
	return &Violation{Message: fmt.Sprintf("%s root type %q not found", operation, typeName)}
}

func violationRootTypeNotObject(operation, typeName string) *Violation {
	return &Violation{Message: fmt.Sprintf("%s root type %q must be an object type", operation, typeName)}
}

func violationQueryTypeRequired() *Violation {
	return &Violation{Message: "Schema must define a query root type"}
}

func violationUnknownDirectiveOnType(directive string, kind language.DefinitionKind, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		"Unknown directive @"+directive+" on "+string(kind)+" type "+typeName,
		pos,
	)
}

func violationUnknownDirectiveArgument(directive, arg string, pos *language.Position) *Violation {
	return violationWithPosition(
		"Unknown argument '"+arg+"' in @"+directive+" directive",
		pos,
	)
}

func violationMissingDirectiveArgument(directive, arg string, pos *language.Position) *Violation {
	return violationWithPosition(
		"Missing required argument '"+arg+"' in @"+directive+" directive",
		pos,
	)
}

func violationExpectedString(pos *language.Position) *Violation {
	return violationWithPosition("Expected string value", pos)
}

func violationExpectedBoolean(pos *language.Position) *Violation {
	return violationWithPosition("Expected boolean value", pos)
}

func violationExposeFieldWithoutMutation(pos *language.Position) *Violation {
	return violationWithPosition("@exposeField requires a mutation root type", pos)
}

func violationExposedFieldNotFound(field, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@exposeField: field %q not found on %q", field, typeName),
		pos,
	)
}

func violationExposePathNotObject(segment, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@exposeField: path segment %q on %q must be an object field", segment, typeName),
		pos,
	)
}

func violationSelectableAlreadyExists(parent, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("`%s.%s` is already defined", parent, name),
		pos,
	)
}

func violationClientParentNotFound(parent, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Cannot declare `%s.%s`: type %q does not exist", parent, name, parent),
		pos,
	)
}

func violationClientParentNotObject(parent, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Cannot declare `%s.%s`: type %q is not an object type", parent, name, parent),
		pos,
	)
}

func violationEntrypointNotFetchable(parent, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Entrypoint `%s.%s` must be declared on a root operation type", parent, name),
		pos,
	)
}

func violationPointerTargetNotObject(target string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@pointer target %q must be an object type", target),
		pos,
	)
}

func violationPointerTargetNotRefetchable(target string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@pointer target %q must have an id field and the query type must have a node field", target),
		pos,
	)
}

func violationUnknownDirectiveOnDeclaration(directive, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		"Unknown directive @"+directive+" on client declaration "+name,
		pos,
	)
}

func violationOperationInClientDocument(pos *language.Position) *Violation {
	return violationWithPosition("Client documents may only contain fragment declarations", pos)
}

func violationUnknownSelectionDirective(directive, field string, pos *language.Position) *Violation {
	return violationWithPosition(
		"Unknown directive @"+directive+" on selection "+field,
		pos,
	)
}

func violationConflictingSelectionDirectives(field string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Selection %q cannot be both @loadable and @updatable", field),
		pos,
	)
}

func violationLoadableOnObjectSelection(field string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@loadable is not supported on object selection %q", field),
		pos,
	)
}

func violationFragmentSpreadNotSupported(name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Fragment spread ...%s is not supported; select the client field instead", name),
		pos,
	)
}

func violationInlineFragmentNotSupported(pos *language.Position) *Violation {
	return violationWithPosition("Inline fragments are not supported in client selection sets", pos)
}

func violationInvalidValue(err error, pos *language.Position) *Violation {
	return violationWithPosition(fmt.Sprintf("Invalid value: %v", err), pos)
}

func violationEntrypointOnPointer(parent, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Pointer `%s.%s` cannot be an entrypoint", parent, name),
		pos,
	)
}

func violationInvalidTypeReference(ref string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Invalid type reference %q", ref),
		pos,
	)
}
