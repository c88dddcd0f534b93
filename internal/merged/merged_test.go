package merged_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/merged"
	"github.com/hanpama/selectiongraph/internal/selection"
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
  age: Int
  bestFriend: User
  friends(first: Int): [User]
}

type SetNamePayload {
  user: User
}

type Mutation {
  setName(id: ID!, name: String!): SetNamePayload
}

extend type Mutation @exposeField(field: "setName", path: "user")
`

func newBuilder(t *testing.T, client string) (*ir.Project, *merged.Builder) {
	t.Helper()
	project, err := ir.Build(t.Context(), ir.NewInMemoryDiscovery([]ir.InMemorySource{
		ir.SchemaSource("schema.graphql", schema),
		ir.ClientSource("client.iso.graphql", client),
	}))
	require.NoError(t, err)
	return project, merged.NewBuilder(project, merged.NewMemo())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func idArg(v *selection.Value) []*selection.Argument {
	return []*selection.Argument{selection.Arg("id", v)}
}

func TestMergeEndToEnd(t *testing.T) {
	_, b := newBuilder(t, `
fragment profile($id: ID) on Query {
  user(id: $id) {
    name
    bestFriend { name }
  }
}

fragment profileWithAge($id: ID) on Query {
  user(id: $id) {
    name
    age
  }
}
`)
	result, err := b.Merge("Query", selection.SelectionSet{
		selection.Scalar("profile"),
		selection.Scalar("profileWithAge"),
	})
	require.NoError(t, err)
	require.Equal(t, "user(id:$id) { age bestFriend { id name } id name }", result.Selections.String())
	require.Zero(t, result.State.Len())

	// client fields are merged once and reused
	_, ok := b.Memo().Lookup(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.True(t, ok)
	require.Equal(t, 2, b.Memo().Len())
}

func TestMergeServerSelections(t *testing.T) {
	_, b := newBuilder(t, `fragment unused on User { name }`)

	for _, tc := range []struct {
		name string
		sets []selection.SelectionSet
		want string
	}{
		{
			name: "dedup by identity",
			sets: []selection.SelectionSet{
				{selection.Object("user", idArg(selection.IntValue(1)), selection.Scalar("name"))},
				{selection.Object("user", idArg(selection.IntValue(1)), selection.Scalar("age"))},
			},
			want: "user(id:i:1) { age id name }",
		},
		{
			name: "differing arguments",
			sets: []selection.SelectionSet{
				{selection.Object("user", idArg(selection.IntValue(1)), selection.Scalar("name"))},
				{selection.Object("user", idArg(selection.IntValue(2)), selection.Scalar("name"))},
			},
			want: "user(id:i:1) { id name } user(id:i:2) { id name }",
		},
		{
			name: "differing variables",
			sets: []selection.SelectionSet{
				{selection.Object("user", idArg(selection.VariableValue("a")), selection.Scalar("name"))},
				{selection.Object("user", idArg(selection.VariableValue("b")), selection.Scalar("name"))},
			},
			want: "user(id:$a) { id name } user(id:$b) { id name }",
		},
		{
			name: "int and string literals differ",
			sets: []selection.SelectionSet{
				{selection.Object("user", idArg(selection.IntValue(1)), selection.Scalar("name"))},
				{selection.Object("user", idArg(selection.StringValue("1")), selection.Scalar("name"))},
			},
			want: `user(id:i:1) { id name } user(id:s:"1") { id name }`,
		},
		{
			name: "alias independence",
			sets: []selection.SelectionSet{{
				{Shape: selection.ShapeObject, Name: "user", Alias: "a", Arguments: idArg(selection.IntValue(1)),
					Selections: selection.SelectionSet{selection.Scalar("name")}},
				{Shape: selection.ShapeObject, Name: "user", Alias: "b", Arguments: idArg(selection.IntValue(1)),
					Selections: selection.SelectionSet{selection.Scalar("name")}},
			}},
			want: "user(id:i:1) { id name }",
		},
		{
			name: "abstract entities select __typename",
			sets: []selection.SelectionSet{
				{selection.Object("node", idArg(selection.VariableValue("id")), selection.Scalar("id"))},
			},
			want: "node(id:$id) { __typename id }",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result, err := b.Merge("Query", tc.sets...)
			require.NoError(t, err)
			require.Equal(t, tc.want, result.Selections.String())
		})
	}
}

func TestMergeDeterminism(t *testing.T) {
	_, b := newBuilder(t, `fragment unused on User { name }`)
	sets := []selection.SelectionSet{
		{selection.Object("user", idArg(selection.VariableValue("id")), selection.Scalar("name"), selection.Scalar("age"))},
		{selection.Object("user", idArg(selection.VariableValue("id")), selection.Object("bestFriend", nil, selection.Scalar("name")))},
		{selection.Object("node", idArg(selection.VariableValue("id")), selection.Scalar("id"))},
	}

	forward, err := b.Merge("Query", sets[0], sets[1], sets[2])
	require.NoError(t, err)
	backward, err := b.Merge("Query", sets[2], sets[1], sets[0])
	require.NoError(t, err)

	require.Equal(t, mustJSON(t, forward.Selections), mustJSON(t, backward.Selections))
	require.True(t, forward.Selections.Equal(backward.Selections))
}

func TestMergeIdempotence(t *testing.T) {
	_, b := newBuilder(t, `fragment unused on User { name }`)
	set := selection.SelectionSet{
		selection.Object("user", idArg(selection.VariableValue("id")),
			selection.Scalar("name"),
			selection.Object("bestFriend", nil, selection.Scalar("name")),
		),
	}

	m, state := merged.NewMap(), merged.NewTraversalState()
	require.NoError(t, b.MergeInto(m, state, "Query", set))
	first := mustJSON(t, m)
	require.NoError(t, b.MergeInto(m, state, "Query", set))
	require.Equal(t, first, mustJSON(t, m))

	again := m.Clone()
	again.MergeFrom(m)
	require.True(t, again.Equal(m))
}

func TestRefetchIndexStability(t *testing.T) {
	_, b := newBuilder(t, `
fragment withRefetch on User {
  name
  __refetch
}

fragment profile($id: ID) on Query {
  user(id: $id) {
    setName
    withRefetch
    bestFriend { setName }
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)

	index, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)

	userPath := merged.Path{merged.FieldKey("user", idArg(selection.VariableValue("id")))}
	friendPath := userPath.Append(merged.FieldKey("bestFriend", nil))

	type entry struct {
		Index int
		Path  string
		Field string
	}
	var got []entry
	for _, q := range index.Queries {
		got = append(got, entry{q.Index, q.PathString, q.FieldName})
	}
	want := []entry{
		{0, "user(id:$id)", "__refetch"},
		{1, "user(id:$id)", "setName"},
		{2, "user(id:$id)/bestFriend", "setName"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("refetch order mismatch (-want +got):\n%s", diff)
	}

	for _, tc := range []struct {
		path  merged.Path
		field string
		want  int
	}{
		{userPath, "__refetch", 0},
		{userPath, "setName", 1},
		{friendPath, "setName", 2},
	} {
		i, ok := index.Lookup(tc.path, tc.field)
		require.True(t, ok)
		require.Equal(t, tc.want, i)
	}
	_, ok := index.Lookup(friendPath, "__refetch")
	require.False(t, ok)

	// Reindexing yields the same order
	again, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)
	require.Equal(t, mustJSON(t, index.Queries), mustJSON(t, again.Queries))
}

func TestRefetchQueries(t *testing.T) {
	_, b := newBuilder(t, `
fragment displayName on User {
  name
}

fragment friend on User @pointer(to: "User") {
  bestFriend { id }
}

fragment profile($id: ID) on Query {
  user(id: $id) {
    name
    setName
    displayName @loadable
    friend { age }
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)

	// The pointer's reader is inlined, its nested selections are not.
	require.Equal(t, "user(id:$id) { bestFriend { id } id name }", result.Selections.String())

	index, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())

	type query struct {
		Path       string
		Field      string
		Source     merged.RefetchSource
		Root       string
		Selections string
		Variables  []string
	}
	var got []query
	for _, q := range index.Queries {
		got = append(got, query{q.PathString, q.FieldName, q.Source, q.RootFetchableType, q.Selections.String(), q.Variables})
	}
	want := []query{
		{
			Path: "user(id:$id)", Field: "displayName", Source: merged.SourceLoadable, Root: "Query",
			Selections: "node(id:$id) { ... on User { __typename id name } }",
			Variables:  []string{"id"},
		},
		{
			Path: "user(id:$id)", Field: "setName", Source: merged.SourceImperative, Root: "Mutation",
			Selections: "setName(id:$id,name:$name) { user { bestFriend { id } id name } }",
			Variables:  []string{"id", "name"},
		},
		{
			Path: "user(id:$id)/... on User", Field: "friend", Source: merged.SourcePointer, Root: "Query",
			Selections: "node(id:$id) { ... on User { __typename age id } }",
			Variables:  []string{"id"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("refetch queries mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, index.Queries[1].VariableDefinitions, 2)
}

func TestRefetchDeclaresRootVariables(t *testing.T) {
	project, b := newBuilder(t, `
fragment friendList($n: Int) on Query {
  user {
    friends(first: $n) { name }
    __refetch
  }
}
`)
	id := ir.SelectableID{Parent: "Query", Name: "friendList"}
	root, ok := project.Selectable(id.Parent, id.Name)
	require.True(t, ok)
	result, err := b.MergeClientSelectable(id)
	require.NoError(t, err)
	index, err := b.IndexRefetchPaths(result.Selections, result.State, root.Arguments)
	require.NoError(t, err)
	require.Equal(t, 1, index.Len())

	q := index.Queries[0]
	require.Equal(t, "__refetch", q.FieldName)
	require.Equal(t, "node(id:$id) { ... on User { __typename friends(first:$n) { id name } id } }", q.Selections.String())
	require.Equal(t, []string{"id", "n"}, q.Variables)
	var declared []string
	for _, def := range q.VariableDefinitions {
		declared = append(declared, def.Name)
	}
	require.Equal(t, q.Variables, declared)
}

func TestLoadableNestedRefetchQueries(t *testing.T) {
	_, b := newBuilder(t, `
fragment details on User {
  name
  setName
}

fragment profile($id: ID) on Query {
  user(id: $id) {
    details @loadable
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)
	index, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)
	require.Equal(t, 1, index.Len())

	loadable := index.Queries[0]
	require.Equal(t, "details", loadable.FieldName)
	require.Equal(t, "node(id:$id) { ... on User { __typename id name } }", loadable.Selections.String())
	require.Len(t, loadable.RefetchQueries, 1)

	nested := loadable.RefetchQueries[0]
	require.Equal(t, 0, nested.Index)
	require.Empty(t, nested.Path)
	require.Equal(t, "setName", nested.FieldName)
	require.Equal(t, merged.SourceImperative, nested.Source)
	require.Equal(t, "setName(id:$id,name:$name) { user { id name } }", nested.Selections.String())
	require.Len(t, nested.VariableDefinitions, 2)
}

func TestImperativeInsidePointer(t *testing.T) {
	_, b := newBuilder(t, `
fragment friend on User @pointer(to: "User") {
  bestFriend { id }
}

fragment profile($id: ID) on Query {
  user(id: $id) {
    friend { name setName }
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)
	index, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)
	require.Equal(t, 2, index.Len())

	q := index.Queries[1]
	require.Equal(t, "setName", q.FieldName)
	require.Equal(t, "setName(id:$id,name:$name) { user { id name } }", q.Selections.String())
}

func TestSelectionCycle(t *testing.T) {
	_, b := newBuilder(t, `
fragment a on User {
  name
  b
}

fragment b on User {
  bestFriend { a }
}
`)
	_, err := b.MergeClientSelectable(ir.SelectableID{Parent: "User", Name: "a"})
	var cycle *merged.SelectionCycleError
	require.ErrorAs(t, err, &cycle)
	want := []ir.SelectableID{
		{Parent: "User", Name: "a"},
		{Parent: "User", Name: "b"},
		{Parent: "User", Name: "a"},
	}
	if diff := cmp.Diff(want, cycle.Path); diff != "" {
		t.Errorf("cycle path mismatch (-want +got):\n%s", diff)
	}
	require.EqualError(t, err, "selection cycle: User.a -> User.b -> User.a")

	// Nothing half-built is left behind
	_, ok := b.Memo().Lookup(ir.SelectableID{Parent: "User", Name: "b"})
	require.False(t, ok)
}

func TestLoadableSelfReferenceIsNotACycle(t *testing.T) {
	_, b := newBuilder(t, `
fragment self on User {
  name
  self @loadable
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "User", Name: "self"})
	require.NoError(t, err)
	require.Equal(t, "id name", result.Selections.String())

	index, err := b.IndexRefetchPaths(result.Selections, result.State, nil)
	require.NoError(t, err)
	require.Equal(t, 1, index.Len())
	require.Equal(t, "node(id:$id) { ... on User { __typename id name } }", index.Queries[0].Selections.String())
}

func TestRefetchPathsArePrefixed(t *testing.T) {
	_, b := newBuilder(t, `
fragment withRefetch on User {
  __refetch
}

fragment profile($id: ID) on Query {
  user(id: $id) {
    withRefetch
    bestFriend { withRefetch }
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)

	var paths []string
	for _, r := range merged.SortRefetchPaths(result.State) {
		paths = append(paths, r.Path.String())
	}
	require.Equal(t, []string{"user(id:$id)", "user(id:$id)/bestFriend"}, paths)

	inner, ok := b.Memo().Lookup(ir.SelectableID{Parent: "User", Name: "withRefetch"})
	require.True(t, ok)
	for _, r := range inner.State.RefetchPaths {
		require.Empty(t, r.Path)
	}
}

func TestVariableReachability(t *testing.T) {
	project, b := newBuilder(t, `
fragment profile($id: ID, $unused: Int) on Query {
  user(id: $id) {
    bestFriend { name }
  }
}
`)
	result, err := b.MergeClientSelectable(ir.SelectableID{Parent: "Query", Name: "profile"})
	require.NoError(t, err)

	reachable := merged.ReachableVariables(result.Selections)
	require.Equal(t, []string{"id"}, reachable)

	profile, _ := project.Selectable("Query", "profile")
	pruned := merged.PruneVariables(profile.Arguments, reachable)
	require.Len(t, pruned, 1)
	require.Equal(t, "id", pruned[0].Name)

	nested, err := b.Merge("Query", selection.SelectionSet{
		selection.Object("user", []*selection.Argument{selection.Arg("id", &selection.Value{
			Kind: selection.ValueList,
			List: []*selection.Value{
				selection.VariableValue("b"),
				{Kind: selection.ValueObject, Fields: []*selection.ObjectField{{Name: "k", Value: selection.VariableValue("a")}}},
			},
		})}, selection.Scalar("name")),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, merged.ReachableVariables(nested.Selections))
}

func TestMemoReset(t *testing.T) {
	_, b := newBuilder(t, `fragment displayName on User { name }`)
	id := ir.SelectableID{Parent: "User", Name: "displayName"}

	first, err := b.MergeClientSelectable(id)
	require.NoError(t, err)
	second, err := b.MergeClientSelectable(id)
	require.NoError(t, err)
	require.Same(t, first, second)

	b.Memo().Reset()
	require.Zero(t, b.Memo().Len())
	third, err := b.MergeClientSelectable(id)
	require.NoError(t, err)
	require.NotSame(t, first, third)
	require.True(t, first.Selections.Equal(third.Selections))
}

func TestInternalErrors(t *testing.T) {
	_, b := newBuilder(t, `fragment displayName on User { name }`)

	_, err := b.Merge("User", selection.SelectionSet{selection.Scalar("missing")})
	require.True(t, errors.Is(err, merged.ErrInternal))

	// @loadable on an entity without a refetch strategy
	_, err = b.Merge("Query", selection.SelectionSet{{
		Shape: selection.ShapeScalar, Name: "__link",
		Directive: selection.Directive{Kind: selection.DirectiveLoadable},
	}})
	require.ErrorIs(t, err, merged.ErrInternal)
}

func TestNormalizationAlias(t *testing.T) {
	require.Equal(t, "name", merged.NormalizationAlias("name", nil))
	require.Equal(t, "user____id___v_id", merged.NormalizationAlias("user", idArg(selection.VariableValue("id"))))
	require.Equal(t, "user____id___s_1", merged.NormalizationAlias("user", idArg(selection.StringValue("1"))))
	require.Equal(t, "user____id___l_1", merged.NormalizationAlias("user", idArg(selection.IntValue(1))))
}

func TestNormalizationAliasDistinguishesKeys(t *testing.T) {
	list := func(items ...*selection.Value) *selection.Value {
		return &selection.Value{Kind: selection.ValueList, List: items}
	}
	object := func(name string, v *selection.Value) *selection.Value {
		return &selection.Value{Kind: selection.ValueObject, Fields: []*selection.ObjectField{{Name: name, Value: v}}}
	}
	arg := func(name string, v *selection.Value) []*selection.Argument {
		return []*selection.Argument{selection.Arg(name, v)}
	}
	tests := []struct {
		name string
		a, b []*selection.Argument
	}{
		{"escaped text", arg("name", selection.StringValue("a b")), arg("name", selection.StringValue("a_20_b"))},
		{"list join", arg("ids", list(selection.StringValue("x__s_y"))), arg("ids", list(selection.StringValue("x"), selection.StringValue("y")))},
		{"nested lists", arg("ids", list(list(), list())), arg("ids", list(list(list())))},
		{"object fields", arg("f", object("a", selection.StringValue("b"))), arg("f", object("a_", selection.StringValue("b")))},
		{"variable names", arg("id", selection.VariableValue("a__b")), arg("id", selection.VariableValue("a_b"))},
		{"argument separators", arg("a", selection.StringValue("x____b___s_y")), []*selection.Argument{
			selection.Arg("a", selection.StringValue("x")),
			selection.Arg("b", selection.StringValue("y")),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, merged.FieldKey("user", tt.a), merged.FieldKey("user", tt.b))
			require.NotEqual(t, merged.NormalizationAlias("user", tt.a), merged.NormalizationAlias("user", tt.b))
		})
	}

	// aliases stay valid GraphQL names
	alias := merged.NormalizationAlias("user_name", arg("where", object("first name", list(selection.IntValue(-1)))))
	require.Regexp(t, `^[_A-Za-z][_0-9A-Za-z]*$`, alias)
}

func TestPathCompare(t *testing.T) {
	a := merged.Path{merged.FieldKey("a", nil)}
	ab := a.Append(merged.FieldKey("b", nil))
	b := merged.Path{merged.FieldKey("b", nil)}

	require.Equal(t, -1, a.Compare(ab))
	require.Equal(t, -1, ab.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Zero(t, ab.Compare(a.Append(merged.FieldKey("b", nil))))
	require.True(t, ab.HasPrefix(a))
	require.Len(t, a, 1)
}
