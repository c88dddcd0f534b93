package validate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
	"github.com/hanpama/selectiongraph/internal/validate"
)

const schema = `
type Query {
  node(id: ID!): Node
  user(id: ID): User
}

interface Node {
  id: ID!
}

type User implements Node {
  id: ID!
  name: String
  bestFriend: User
}

type SetNamePayload {
  user: User
}

type Mutation {
  setName(id: ID!, name: String!): SetNamePayload
}

extend type Mutation @exposeField(field: "setName", path: "user")
`

const client = `
fragment displayName on User {
  name
}

fragment friend on User @pointer(to: "User") {
  bestFriend { id }
}

fragment broken on User {
  nickname
  bestFriend
  name { first }
}

fragment alsoBroken on Query {
  user { setName @loadable }
}
`

func mustProject(t *testing.T) *ir.Project {
	t.Helper()
	project, err := ir.Build(t.Context(), ir.NewInMemoryDiscovery([]ir.InMemorySource{
		ir.SchemaSource("schema.graphql", schema),
		ir.ClientSource("client.iso.graphql", client),
	}))
	require.NoError(t, err)
	return project
}

func codes(ds validate.Diagnostics) []validate.Code {
	var out []validate.Code
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func TestValidateSelectionSet(t *testing.T) {
	v := validate.New(mustProject(t))

	for _, tc := range []struct {
		name   string
		parent string
		set    selection.SelectionSet
		want   []validate.Code
	}{
		{
			name:   "valid",
			parent: "User",
			set: selection.SelectionSet{
				selection.Scalar("name"),
				selection.Object("bestFriend", nil, selection.Scalar("id")),
				selection.Scalar("displayName"),
				selection.Object("friend", nil, selection.Scalar("name")),
			},
		},
		{
			name:   "unknown selectable",
			parent: "User",
			set:    selection.SelectionSet{selection.Scalar("nickname"), selection.Scalar("name")},
			want:   []validate.Code{validate.CodeUnknownSelectable},
		},
		{
			name:   "scalar selected as object",
			parent: "User",
			set:    selection.SelectionSet{selection.Object("name", nil, selection.Scalar("x"))},
			want:   []validate.Code{validate.CodeWrongSelectionShape},
		},
		{
			name:   "object selected as scalar",
			parent: "User",
			set:    selection.SelectionSet{selection.Scalar("bestFriend")},
			want:   []validate.Code{validate.CodeWrongSelectionShape},
		},
		{
			name:   "pointer selected as scalar",
			parent: "User",
			set:    selection.SelectionSet{selection.Scalar("friend")},
			want:   []validate.Code{validate.CodeWrongSelectionShape},
		},
		{
			name:   "loadable server scalar",
			parent: "User",
			set:    selection.SelectionSet{loadable(selection.Scalar("name"))},
			want:   []validate.Code{validate.CodeIllegalDirective},
		},
		{
			name:   "loadable exposed field",
			parent: "User",
			set:    selection.SelectionSet{loadable(selection.Scalar("setName"))},
			want:   []validate.Code{validate.CodeIllegalDirective},
		},
		{
			name:   "loadable link",
			parent: "User",
			set:    selection.SelectionSet{loadable(selection.Scalar("__link"))},
			want:   []validate.Code{validate.CodeIllegalDirective},
		},
		{
			name:   "loadable client field",
			parent: "User",
			set:    selection.SelectionSet{loadable(selection.Scalar("displayName"))},
		},
		{
			name:   "updatable client field",
			parent: "User",
			set:    selection.SelectionSet{updatable(selection.Scalar("displayName"))},
			want:   []validate.Code{validate.CodeIllegalDirective},
		},
		{
			name:   "updatable server field",
			parent: "User",
			set:    selection.SelectionSet{updatable(selection.Scalar("name"))},
		},
		{
			name:   "duplicate alias",
			parent: "User",
			set: selection.SelectionSet{
				selection.Scalar("name"),
				{Shape: selection.ShapeScalar, Name: "id", Alias: "name"},
			},
			want: []validate.Code{validate.CodeDuplicateNameOrAlias},
		},
		{
			name:   "nested errors are collected",
			parent: "Query",
			set: selection.SelectionSet{
				selection.Object("user", nil,
					selection.Scalar("nickname"),
					selection.Object("bestFriend", nil, selection.Scalar("age")),
				),
			},
			want: []validate.Code{validate.CodeUnknownSelectable, validate.CodeUnknownSelectable},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := v.ValidateSelectionSet(tc.parent, tc.set)
			if diff := cmp.Diff(tc.want, codes(got)); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateAll(t *testing.T) {
	project := mustProject(t)
	v := validate.New(project)

	ds := v.ValidateAll(project.ClientSelectables())
	want := []validate.Code{
		validate.CodeIllegalDirective,
		validate.CodeUnknownSelectable,
		validate.CodeWrongSelectionShape,
		validate.CodeWrongSelectionShape,
	}
	if diff := cmp.Diff(want, codes(ds)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, ir.SelectableID{Parent: "Query", Name: "alsoBroken"}, ds[0].Owner)
	require.Equal(t, "client.iso.graphql", ds[1].File)
	require.Equal(t, 11, ds[1].Line)

	var err error = ds.Err()
	require.ErrorContains(t, err, "4 selection error(s)")
	require.NoError(t, validate.Diagnostics(nil).Err())

	require.Empty(t, v.ValidateSelectable(ir.SelectableID{Parent: "User", Name: "displayName"}))
	require.Len(t, v.ValidateSelectable(ir.SelectableID{Parent: "User", Name: "missing"}), 1)
}

func loadable(s *selection.Selection) *selection.Selection {
	s.Directive = selection.Directive{Kind: selection.DirectiveLoadable, Loadable: &selection.LoadableParams{}}
	return s
}

func updatable(s *selection.Selection) *selection.Selection {
	s.Directive = selection.Directive{Kind: selection.DirectiveUpdatable}
	return s
}
