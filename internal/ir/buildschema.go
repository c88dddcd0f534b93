package ir

import (
	language "github.com/hanpama/selectiongraph/internal/language"
)

func (b *builder) processSchemaDefinitions() error {
	for _, doc := range b.schemaDocs {
		for _, schemaDef := range doc.Schema {
			if b.Schema != nil {
				b.addViolation(violationSchemaAlreadyDefined(schemaDef.Position))
				continue
			}
			b.Schema = &Schema{}
			for _, opType := range schemaDef.OperationTypes {
				switch opType.Operation {
				case language.Query:
					b.Schema.QueryType = opType.Type
				case language.Mutation:
					b.Schema.MutationType = opType.Type
				case language.Subscription:
					b.Schema.SubscriptionType = opType.Type
				}
			}
		}
	}

	// Without a schema block the conventional names are used
	if b.Schema == nil {
		b.Schema = &Schema{}
		if _, ok := b.Entities["Query"]; ok {
			b.Schema.QueryType = "Query"
		}
		if _, ok := b.Entities["Mutation"]; ok {
			b.Schema.MutationType = "Mutation"
		}
		if _, ok := b.Entities["Subscription"]; ok {
			b.Schema.SubscriptionType = "Subscription"
		}
	}

	if b.Schema.QueryType == "" {
		b.addViolation(violationQueryTypeRequired())
	}
	b.checkRootType("Query", b.Schema.QueryType)
	b.checkRootType("Mutation", b.Schema.MutationType)
	b.checkRootType("Subscription", b.Schema.SubscriptionType)

	return b.check()
}

func (b *builder) checkRootType(operation, name string) {
	if name == "" {
		return
	}
	e, ok := b.Entities[name]
	if !ok {
		b.addViolation(violationRootTypeNotFound(operation, name))
		return
	}
	if e.Kind != EntityKindObject || !e.Concrete {
		b.addViolation(violationRootTypeNotObject(operation, name))
	}
}
