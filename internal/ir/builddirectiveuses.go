package ir

import (
	"strings"

	language "github.com/hanpama/selectiongraph/internal/language"
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

const exposeFieldDirective = "exposeField"

func (b *builder) populateDirectiveUses() error {
	for _, doc := range b.schemaDocs {
		for _, node := range doc.Definitions {
			b.processTypeDirectives(node)
		}
		for _, node := range doc.Extensions {
			b.processTypeDirectives(node)
		}
	}
	return b.check()
}

func (b *builder) processTypeDirectives(node *language.Definition) {
	for _, dir := range node.Directives {
		if dir.Name != exposeFieldDirective {
			continue
		}
		if node.Kind != language.Object || b.Schema.MutationType == "" || node.Name != b.Schema.MutationType {
			b.addViolation(violationExposeFieldWithoutMutation(dir.Position))
			continue
		}
		b.processExposeField(dir)
	}
}

// processExposeField declares a mutation field as an imperatively loaded
// client field on the entity found at path inside the mutation's payload.
func (b *builder) processExposeField(dir *language.Directive) {
	args := b.directiveArguments(dir, []string{"field"}, "path", "as")
	fieldValue, ok := args["field"]
	if !ok {
		return
	}
	field := b.getStringValue(fieldValue)
	name := field
	if as, ok := args["as"]; ok {
		name = b.getStringValue(as)
	}
	var path string
	if p, ok := args["path"]; ok {
		path = b.getStringValue(p)
	}

	mutationType := b.Schema.MutationType
	mutationField, ok := b.Entities[mutationType].Selectables[field]
	if !ok || mutationField.IsClient() {
		b.addViolation(violationExposedFieldNotFound(field, mutationType, dir.Position))
		return
	}
	if mutationField.Shape != selection.ShapeObject {
		b.addViolation(violationExposePathNotObject(field, mutationType, dir.Position))
		return
	}

	var callArgs []*selection.Argument
	var clientArgs []*ArgumentDefinition
	for _, arg := range mutationField.Arguments {
		callArgs = append(callArgs, selection.Arg(arg.Name, selection.VariableValue(arg.Name)))
		if arg.Name == "id" {
			continue
		}
		copied := *arg
		copied.Index = len(clientArgs)
		clientArgs = append(clientArgs, &copied)
	}
	wrap := []*WrapStep{{Kind: WrapLinked, Name: field, Arguments: callArgs}}

	current := mutationField.TargetEntity()
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}
		s, ok := b.Entities[current].Selectables[segment]
		if !ok || s.IsClient() || s.Shape != selection.ShapeObject {
			b.addViolation(violationExposePathNotObject(segment, current, dir.Position))
			return
		}
		wrap = append(wrap, &WrapStep{Kind: WrapLinked, Name: segment})
		current = s.TargetEntity()
	}

	target := b.Entities[current]
	if _, ok := target.Selectables[name]; ok {
		b.addViolation(violationSelectableAlreadyExists(current, name, dir.Position))
		return
	}

	strategy := &RefetchStrategy{
		RootFetchableType: mutationType,
		Wrap:              wrap,
		Variables:         mutationField.Arguments,
	}
	if target.IDField != "" {
		strategy.RequiredSelections = selection.SelectionSet{selection.Scalar(target.IDField)}
	}
	b.addSelectable(target, &Selectable{
		ID:          SelectableID{Name: name},
		Description: mutationField.Description,
		Location:    LocationClient,
		Shape:       selection.ShapeScalar,
		Arguments:   clientArgs,
		Variant:     VariantImperativelyLoaded,
		Refetch:     strategy,
		Position:    dir.Position,
	})
}
