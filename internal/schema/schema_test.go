package schema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/selectiongraph/internal/ir"
	language "github.com/hanpama/selectiongraph/internal/language"
)

const testSchema = `
"""
Entry point.
"""
type Query {
  node(id: ID!): Node
  user(id: ID, first: Int = 10): User
  search(filter: Filter): [Result!]!
}

interface Node {
  id: ID!
}

type User implements Node {
  id: ID!
  name: String
  color: Color
}

type Post {
  title: String
}

union Result = User | Post

enum Color {
  RED
  GREEN
}

input Filter {
  text: String = "x"
  colors: [Color!]
}

scalar Time
`

const testClient = `
fragment profile($id: ID) on Query @entrypoint {
  user(id: $id) { name }
}

fragment friend on User @pointer(to: "User") {
  id
}
`

func buildProject(t *testing.T, client string) *ir.Project {
	t.Helper()
	srcs := []ir.InMemorySource{ir.SchemaSource("schema.graphql", testSchema)}
	if client != "" {
		srcs = append(srcs, ir.ClientSource("client.iso.graphql", client))
	}
	proj, err := ir.Build(context.Background(), ir.NewInMemoryDiscovery(srcs))
	require.NoError(t, err, "failed to build ir project")
	return proj
}

func TestBuildFromIR(t *testing.T) {
	s, err := BuildFromIR(buildProject(t, testClient))
	require.NoError(t, err)

	require.Equal(t, "Query", s.QueryType)
	require.NotContains(t, s.Types, "String")
	require.Contains(t, s.Types, clientFieldScalar)

	user := s.Types["User"]
	require.Equal(t, TypeKindObject, user.Kind)
	require.Equal(t, []string{"Node"}, user.Interfaces)

	var names []string
	for _, f := range user.Fields {
		names = append(names, f.Name)
	}
	want := []string{"id", "name", "color", "friend", "__link", "__refetch"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, TypeKindUnion, s.Types["Result"].Kind)
	require.Equal(t, []string{"Post", "User"}, s.Types["Result"].PossibleTypes)
	require.Equal(t, []string{"RED", "GREEN"}, s.Types["Color"].EnumValues)
	require.Len(t, s.Types["Filter"].InputFields, 2)
}

func TestRender(t *testing.T) {
	out := Render(mustBuild(t, testClient))

	for _, want := range []string{
		"schema {\n  query: Query\n}",
		"type User implements Node {",
		"  user(id: ID, first: Int = 10): User\n",
		"  search(filter: Filter): [Result!]!\n",
		"union Result = Post | User",
		"  text: String = \"x\"\n",
		"scalar Time",
		`  profile(id: ID): ClientField @client(variant: "USER_WRITTEN", entrypoint: true)`,
		`  friend: User @client(variant: "USER_WRITTEN", refetchRoot: "Query")`,
		"directive @client(variant: String!, entrypoint: Boolean, refetchRoot: String) on FIELD_DEFINITION",
	} {
		require.Contains(t, out, want)
	}

	// Output is valid SDL
	_, err := language.ParseSchema("rendered.graphql", out)
	require.NoError(t, err)

	require.Equal(t, out, Render(mustBuild(t, testClient)))
}

func TestRenderWithoutClientSelectables(t *testing.T) {
	out := Render(mustBuild(t, ""))
	require.NotContains(t, out, "profile")
	require.Contains(t, out, `__link: ClientField @client(variant: "LINK")`)
}

func mustBuild(t *testing.T, client string) *Schema {
	t.Helper()
	s, err := BuildFromIR(buildProject(t, client))
	require.NoError(t, err)
	return s
}
