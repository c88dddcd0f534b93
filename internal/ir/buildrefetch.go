package ir

import (
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

const (
	linkField    = "__link"
	refetchField = "__refetch"
	nodeField    = "node"
)

// populateRefetchStrategies synthesises __link and __refetch on object
// entities and attaches node refetch strategies to client selectables.
func (b *builder) populateRefetchStrategies() error {
	hasNode := b.hasNodeField()

	for _, e := range (&Project{Entities: b.Entities}).OrderedEntities() {
		if !e.IsObject() {
			continue
		}
		declared := e.OrderedSelectables()
		refetchable := hasNode && e.IDField != ""

		for _, s := range declared {
			if !s.IsClient() || s.Variant != VariantUserWritten {
				continue
			}
			switch s.Kind() {
			case ClientScalar:
				if refetchable {
					s.Refetch = b.nodeStrategy(e)
				}
			case ClientObject:
				target := b.Entities[s.TargetEntity()]
				if !hasNode || target.IDField == "" {
					b.addViolation(violationPointerTargetNotRefetchable(target.Name, s.Position))
					continue
				}
				s.Refetch = b.nodeStrategy(target)
			default:
				panic("unreachable")
			}
		}

		link := &Selectable{
			ID:          SelectableID{Name: linkField},
			Description: "A reference to the current object.",
			Location:    LocationClient,
			Shape:       selection.ShapeScalar,
			Variant:     VariantLink,
		}
		if e.IDField != "" {
			link.Reader = selection.SelectionSet{selection.Scalar(e.IDField)}
		}
		b.addSelectable(e, link)

		if refetchable {
			b.addSelectable(e, &Selectable{
				ID:          SelectableID{Name: refetchField},
				Description: "Refetches the current object through the node field.",
				Location:    LocationClient,
				Shape:       selection.ShapeScalar,
				Variant:     VariantImperativelyLoaded,
				Refetch:     b.nodeStrategy(e),
			})
		}
	}

	return b.check()
}

// hasNodeField reports whether the query type has node(id: ID!).
func (b *builder) hasNodeField() bool {
	query, ok := b.Entities[b.Schema.QueryType]
	if !ok {
		return false
	}
	node, ok := query.Selectables[nodeField]
	if !ok || node.IsClient() || node.Shape != selection.ShapeObject {
		return false
	}
	for _, arg := range node.Arguments {
		if arg.Name == "id" && arg.Type.String() == "ID!" {
			return true
		}
	}
	return false
}

func (b *builder) nodeStrategy(e *Entity) *RefetchStrategy {
	return &RefetchStrategy{
		RootFetchableType:  b.Schema.QueryType,
		RequiredSelections: selection.SelectionSet{selection.Scalar(e.IDField)},
		Wrap: []*WrapStep{
			{Kind: WrapLinked, Name: nodeField, Arguments: []*selection.Argument{
				selection.Arg("id", selection.VariableValue("id")),
			}},
			{Kind: WrapRefine, Type: e.Name},
		},
		Variables: []*ArgumentDefinition{
			{Name: "id", Type: NonNull(NamedType("ID"))},
		},
	}
}
