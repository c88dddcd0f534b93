package selection

import (
	language "github.com/hanpama/selectiongraph/internal/language"
)

// Shape is the syntactic shape of a selection: a leaf, or a selection with a
// nested selection set.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeObject
)

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}

// DirectiveKind is the directive variant attached to a selection. Object
// selections never carry DirectiveLoadable.
type DirectiveKind int

const (
	DirectiveNone DirectiveKind = iota
	DirectiveLoadable
	DirectiveUpdatable
)

func (k DirectiveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveNone:
		return "none"
	case DirectiveLoadable:
		return "loadable"
	case DirectiveUpdatable:
		return "updatable"
	default:
		return "unknown"
	}
}

// LoadableParams are the arguments of @loadable.
type LoadableParams struct {
	LazyLoadArtifact bool `json:"lazyLoadArtifact,omitempty"`
	ComplexArguments bool `json:"complexArguments,omitempty"`
}

type Directive struct {
	Kind     DirectiveKind   `json:"kind"`
	Loadable *LoadableParams `json:"loadable,omitempty"`
}

type Selection struct {
	Shape      Shape              `json:"shape"`
	Name       string             `json:"name"`
	Alias      string             `json:"alias,omitempty"`
	Arguments  []*Argument        `json:"arguments,omitempty"`
	Directive  Directive          `json:"directive"`
	Selections SelectionSet       `json:"selections,omitempty"`
	Position   *language.Position `json:"-"`
}

type SelectionSet []*Selection

// NameOrAlias is the key under which the selection appears in the reader
// result.
func (s *Selection) NameOrAlias() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Scalar returns a leaf selection. It is mostly useful in tests and for
// synthesised reader selection sets.
func Scalar(name string, args ...*Argument) *Selection {
	return &Selection{Shape: ShapeScalar, Name: name, Arguments: args}
}

// Object returns a selection with a nested selection set.
func Object(name string, args []*Argument, selections ...*Selection) *Selection {
	return &Selection{Shape: ShapeObject, Name: name, Arguments: args, Selections: selections}
}
