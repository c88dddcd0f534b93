package ir

import (
	"context"
	"sort"

	language "github.com/hanpama/selectiongraph/internal/language"
)

type builder struct {
	Schema   *Schema
	Entities map[string]*Entity
	Sources  []*SourceMetadata

	violations []*Violation
	discovery  Discovery
	schemaDocs []*language.SchemaDocument
	clientDocs []*language.QueryDocument
	directives map[string]struct{}
}

func Build(ctx context.Context, disc Discovery) (*Project, error) {
	b := &builder{
		Entities:   make(map[string]*Entity),
		discovery:  disc,
		directives: make(map[string]struct{}),
	}

	if err := b.build(ctx); err != nil {
		return nil, err
	}

	return &Project{
		Schema:   b.Schema,
		Entities: b.Entities,
		Sources:  b.Sources,
	}, nil
}

func (b *builder) build(ctx context.Context) (err error) {
	metas, err := b.discovery.ListMetadata(ctx)
	if err != nil {
		return err
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	b.Sources = metas

	// Parse schema and client documents
	for _, meta := range metas {
		source, err := b.discovery.ReadSource(ctx, meta.ID)
		if err != nil {
			return err
		}
		switch meta.Kind {
		case SourceSchema:
			doc, err := language.ParseSchema(meta.FilePath, source)
			if err != nil {
				b.addViolation(violationSourceParse(meta.FilePath, err))
				continue
			}
			b.schemaDocs = append(b.schemaDocs, doc)
		case SourceClient:
			doc, err := language.ParseClientDocument(meta.FilePath, source)
			if err != nil {
				b.addViolation(violationSourceParse(meta.FilePath, err))
				continue
			}
			b.clientDocs = append(b.clientDocs, doc)
		default:
			panic("unreachable")
		}
	}
	if len(b.violations) > 0 {
		return ValidationError(b.violations)
	}

	// Load built-in scalars
	for _, e := range builtinScalars() {
		b.Entities[e.Name] = e
	}

	// Populate entities
	if err = b.populateDefinitions(); err != nil {
		return err
	}

	// Process schema definitions
	if err = b.processSchemaDefinitions(); err != nil {
		return err
	}

	// Populate server selectables and argument definitions
	if err = b.populateFields(); err != nil {
		return err
	}

	// Populate interface implementations and union members
	if err = b.populateImplementations(); err != nil {
		return err
	}

	// Populate directive uses on types (@exposeField)
	if err = b.populateDirectiveUses(); err != nil {
		return err
	}

	// Declare client selectables, then read their selection sets
	if err = b.populateClientSelectables(); err != nil {
		return err
	}

	// Synthesise __link and __refetch and attach refetch strategies
	if err = b.populateRefetchStrategies(); err != nil {
		return err
	}

	return nil
}

func (b *builder) addViolation(v ...*Violation) {
	b.violations = append(b.violations, v...)
}

func (b *builder) check() error {
	if len(b.violations) > 0 {
		return ValidationError(b.violations)
	}
	return nil
}

// addSelectable appends s to its parent entity, assigning the next index.
func (b *builder) addSelectable(e *Entity, s *Selectable) {
	if e.Selectables == nil {
		e.Selectables = make(map[string]*Selectable)
	}
	s.ID = SelectableID{Parent: e.Name, Name: s.ID.Name}
	s.Index = len(e.Selectables)
	e.Selectables[s.ID.Name] = s
}
