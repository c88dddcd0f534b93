package ir

import (
	language "github.com/hanpama/selectiongraph/internal/language"
)

func (b *builder) populateDefinitions() error {
	for _, doc := range b.schemaDocs {
		for _, dir := range doc.Directives {
			b.directives[dir.Name] = struct{}{}
		}
	}

	for _, doc := range b.schemaDocs {
		for _, node := range doc.Definitions {
			if _, ok := b.Entities[node.Name]; ok {
				b.addViolation(violationDefinitionAlreadyExists(node.Name, node.Position))
				continue
			}

			e := &Entity{
				Name:        node.Name,
				Description: node.Description,
				Definition:  node.Kind,
				Position:    node.Position,
			}

			switch node.Kind {
			case language.Object:
				e.Kind = EntityKindObject
				e.Concrete = true
				b.validateObjectFieldsExist(node)
			case language.Interface:
				e.Kind = EntityKindObject
				b.validateObjectFieldsExist(node)
			case language.Union:
				e.Kind = EntityKindObject
			case language.InputObject:
				e.Kind = EntityKindInput
			case language.Enum:
				e.Kind = EntityKindScalar
			case language.Scalar:
				e.Kind = EntityKindScalar
			default:
				panic("unreachable")
			}
			b.checkTypeDirectives(node)

			b.Entities[node.Name] = e
		}
	}

	for _, doc := range b.schemaDocs {
		for _, node := range doc.Extensions {
			e := b.Entities[node.Name]
			if e == nil {
				b.addViolation(violationDefinitionNotFoundForExtension(node.Name, node.Position))
				continue
			}
			b.checkTypeDirectives(node)

			switch node.Kind {
			case language.Object, language.Interface, language.Union:
				if e.Kind != EntityKindObject {
					b.addViolation(violationUnexpectedTypeForExtension(node, "object"))
				}
			case language.InputObject:
				if e.Kind != EntityKindInput {
					b.addViolation(violationUnexpectedTypeForExtension(node, "input"))
				}
			case language.Enum, language.Scalar:
				if e.Kind != EntityKindScalar || isBuiltinScalar(e.Name) {
					b.addViolation(violationUnexpectedTypeForExtension(node, "scalar"))
				}
			default:
				panic("unreachable")
			}
		}
	}

	return b.check()
}

func (b *builder) validateObjectFieldsExist(node *language.Definition) {
	if len(node.Fields) == 0 {
		b.addViolation(violationObjectMustHaveField(node.Name, node.Position))
	}
}

func (b *builder) checkTypeDirectives(node *language.Definition) {
	for _, dir := range node.Directives {
		if _, ok := knownTypeDirectives[dir.Name]; ok {
			continue
		}
		if _, ok := b.directives[dir.Name]; ok {
			continue
		}
		b.addViolation(violationUnknownDirectiveOnType(dir.Name, node.Kind, node.Name, dir.Position))
	}
}

// populateImplementations records the concrete members of every abstract
// entity, sorted by name.
func (b *builder) populateImplementations() error {
	members := make(map[string]map[string]struct{})
	add := func(abstract, concrete string) {
		if members[abstract] == nil {
			members[abstract] = make(map[string]struct{})
		}
		members[abstract][concrete] = struct{}{}
	}

	visit := func(node *language.Definition) {
		switch node.Kind {
		case language.Object:
			for _, iface := range node.Interfaces {
				e, ok := b.Entities[iface]
				if !ok {
					b.addViolation(violationTypeNotFound(iface, node.Position))
					continue
				}
				if e.Kind != EntityKindObject || e.Concrete {
					b.addViolation(violationTypeNotOutput(iface, node.Position))
					continue
				}
				add(iface, node.Name)
				b.Entities[node.Name].Interfaces = append(b.Entities[node.Name].Interfaces, iface)
			}
		case language.Union:
			for _, member := range node.Types {
				e, ok := b.Entities[member]
				if !ok {
					b.addViolation(violationTypeNotFound(member, node.Position))
					continue
				}
				if !e.Concrete {
					b.addViolation(violationTypeNotOutput(member, node.Position))
					continue
				}
				add(node.Name, member)
			}
		}
	}
	for _, doc := range b.schemaDocs {
		for _, node := range doc.Definitions {
			visit(node)
		}
		for _, node := range doc.Extensions {
			visit(node)
		}
	}

	for abstract, set := range members {
		e := b.Entities[abstract]
		for name := range set {
			e.PossibleTypes = append(e.PossibleTypes, name)
		}
		sortStrings(e.PossibleTypes)
	}

	return b.check()
}
