package ir

import (
	"sort"
	"strings"

	language "github.com/hanpama/selectiongraph/internal/language"
	selection "github.com/hanpama/selectiongraph/internal/selection"
)

type Project struct {
	Schema   *Schema            `json:"schema"`
	Entities map[string]*Entity `json:"entities"`
	Sources  []*SourceMetadata  `json:"sources"`
}

type Schema struct {
	QueryType        string `json:"queryType,omitempty"`
	MutationType     string `json:"mutationType,omitempty"`
	SubscriptionType string `json:"subscriptionType,omitempty"`
}

type EntityKind string

const (
	EntityKindObject EntityKind = "OBJECT"
	EntityKindScalar EntityKind = "SCALAR"
	EntityKindInput  EntityKind = "INPUT"
)

// Entity is a named type of the schema. Objects, interfaces and unions are
// object entities; interfaces and unions are abstract. Scalars and enums are
// scalar entities.
type Entity struct {
	Name          string                  `json:"name"`
	Description   string                  `json:"description,omitempty"`
	Kind          EntityKind              `json:"kind"`
	Definition    language.DefinitionKind `json:"definition"`
	Concrete      bool                    `json:"concrete,omitempty"`
	Interfaces    []string                `json:"interfaces,omitempty"`
	PossibleTypes []string                `json:"possibleTypes,omitempty"`
	IDField       string                  `json:"idField,omitempty"`
	EnumValues    []string                `json:"enumValues,omitempty"`
	InputFields   []*ArgumentDefinition   `json:"inputFields,omitempty"`
	Selectables   map[string]*Selectable  `json:"selectables,omitempty"`
	Position      *language.Position      `json:"-"`
}

// SelectableID identifies a selectable by its parent entity and name.
type SelectableID struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

func (id SelectableID) String() string { return id.Parent + "." + id.Name }

func (id SelectableID) Less(other SelectableID) bool {
	if id.Parent != other.Parent {
		return id.Parent < other.Parent
	}
	return id.Name < other.Name
}

type Location string

const (
	LocationServer Location = "SERVER"
	LocationClient Location = "CLIENT"
)

// SelectableKind is the flattened Location x Shape tag of a selectable.
type SelectableKind int

const (
	ServerScalar SelectableKind = iota
	ServerObject
	ClientScalar
	ClientObject
)

func (k SelectableKind) String() string {
	switch k {
	case ServerScalar:
		return "server scalar field"
	case ServerObject:
		return "server object field"
	case ClientScalar:
		return "client field"
	case ClientObject:
		return "client pointer"
	default:
		return "unknown"
	}
}

type ClientVariant string

const (
	VariantUserWritten        ClientVariant = "USER_WRITTEN"
	VariantImperativelyLoaded ClientVariant = "IMPERATIVELY_LOADED"
	VariantLink               ClientVariant = "LINK"
)

type Selectable struct {
	ID          SelectableID           `json:"id"`
	Description string                 `json:"description,omitempty"`
	Index       int                    `json:"index"`
	Location    Location               `json:"location"`
	Shape       selection.Shape        `json:"shape"`
	Target      *TypeExpr              `json:"target"`
	Arguments   []*ArgumentDefinition  `json:"arguments,omitempty"`
	Variant     ClientVariant          `json:"variant,omitempty"`
	Entrypoint  bool                   `json:"entrypoint,omitempty"`
	Reader      selection.SelectionSet `json:"reader,omitempty"`
	Refetch     *RefetchStrategy       `json:"refetch,omitempty"`
	Position    *language.Position     `json:"-"`
}

func (s *Selectable) Kind() SelectableKind {
	switch s.Location {
	case LocationServer:
		if s.Shape == selection.ShapeObject {
			return ServerObject
		}
		return ServerScalar
	case LocationClient:
		if s.Shape == selection.ShapeObject {
			return ClientObject
		}
		return ClientScalar
	default:
		panic("unreachable")
	}
}

func (s *Selectable) IsClient() bool { return s.Location == LocationClient }

// TargetEntity is the name of the entity the selectable resolves to, with
// list and non-null wrappers removed.
func (s *Selectable) TargetEntity() string { return s.Target.Unwrap() }

type ArgumentDefinition struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Index        int              `json:"index"`
	Type         *TypeExpr        `json:"type"`
	DefaultValue *selection.Value `json:"defaultValue,omitempty"`
}

// Nullable reports whether the argument may be omitted.
func (a *ArgumentDefinition) Nullable() bool {
	return a.DefaultValue != nil || a.Type == nil || a.Type.Kind != TypeExprKindNonNull
}

// RefetchStrategy describes how a client selectable is fetched in a query of
// its own. RequiredSelections are read at the location of the selection so
// that the refetch can be issued later; Wrap lists, outermost first, the
// selections that lead from RootFetchableType to the refetched entity.
type RefetchStrategy struct {
	RootFetchableType  string                 `json:"rootFetchableType"`
	RequiredSelections selection.SelectionSet `json:"requiredSelections,omitempty"`
	Wrap               []*WrapStep            `json:"wrap"`
	Variables          []*ArgumentDefinition  `json:"variables,omitempty"`
}

type WrapStepKind string

const (
	WrapLinked WrapStepKind = "LINKED"
	WrapRefine WrapStepKind = "REFINE"
)

// WrapStep is one level of a refetch wrapper. Linked steps select Name with
// Arguments; Refine steps narrow to the concrete type Type.
type WrapStep struct {
	Kind      WrapStepKind          `json:"kind"`
	Name      string                `json:"name,omitempty"`
	Arguments []*selection.Argument `json:"arguments,omitempty"`
	Type      string                `json:"type,omitempty"`
}

// TypeExpr represents a GraphQL type expression (e.g. String, [String!], String!).
type TypeExpr struct {
	Kind   TypeExprKind `json:"kind"`
	OfType *TypeExpr    `json:"ofType,omitempty"`
	Named  string       `json:"named,omitempty"`
}

type TypeExprKind string

const (
	TypeExprKindNamed   TypeExprKind = "NAMED"
	TypeExprKindList    TypeExprKind = "LIST"
	TypeExprKindNonNull TypeExprKind = "NON_NULL"
)

func NamedType(name string) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNamed, Named: name} }

func NonNull(t *TypeExpr) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNonNull, OfType: t} }

func (t *TypeExpr) Unwrap() string {
	if t == nil {
		return ""
	}
	if t.Kind == TypeExprKindNamed {
		return t.Named
	}
	return t.OfType.Unwrap()
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "Unknown"
	}

	switch t.Kind {
	case TypeExprKindNamed:
		return t.Named
	case TypeExprKindList:
		return "[" + t.OfType.String() + "]"
	case TypeExprKindNonNull:
		inner := t.OfType.String()
		if strings.HasSuffix(inner, "!") {
			return inner
		}
		return inner + "!"
	default:
		return "Unknown"
	}
}

func (e *Entity) OrderedSelectables() []*Selectable {
	selectables := make([]*Selectable, 0, len(e.Selectables))
	for _, s := range e.Selectables {
		selectables = append(selectables, s)
	}
	sort.Slice(selectables, func(i, j int) bool {
		return selectables[i].Index < selectables[j].Index
	})
	return selectables
}

func (e *Entity) IsObject() bool { return e.Kind == EntityKindObject }
