package querytext_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/selectiongraph/internal/ir"
	language "github.com/hanpama/selectiongraph/internal/language"
	"github.com/hanpama/selectiongraph/internal/merged"
	"github.com/hanpama/selectiongraph/internal/querytext"
	"github.com/hanpama/selectiongraph/internal/selection"
)

func sampleMap() *merged.Map {
	user := merged.NewMap()
	user.Put(&merged.MergedSelection{Kind: merged.SelectionScalar, Name: "name"})
	user.Put(&merged.MergedSelection{Kind: merged.SelectionScalar, Name: "id"})

	node := merged.NewMap()
	node.Put(&merged.MergedSelection{Kind: merged.SelectionScalar, Name: "__typename"})

	root := merged.NewMap()
	root.Put(&merged.MergedSelection{
		Kind:       merged.SelectionLinked,
		Name:       "user",
		Arguments:  []*selection.Argument{selection.Arg("id", selection.VariableValue("id"))},
		Selections: user,
	})
	root.Put(&merged.MergedSelection{
		Kind:       merged.SelectionLinked,
		Name:       "node",
		Arguments:  []*selection.Argument{selection.Arg("id", selection.StringValue("1"))},
		Selections: node,
	})
	typename := merged.NewMap()
	typename.Put(&merged.MergedSelection{Kind: merged.SelectionScalar, Name: "__typename"})
	root.Put(&merged.MergedSelection{Kind: merged.SelectionInlineFragment, Name: "Query", Selections: typename})
	return root
}

func TestRender(t *testing.T) {
	op := &querytext.Operation{
		Kind: "query",
		Name: "Profile",
		Variables: []*ir.ArgumentDefinition{
			{Name: "id", Type: ir.NonNull(ir.NamedType("ID"))},
			{Name: "ids", Type: &ir.TypeExpr{Kind: ir.TypeExprKindList, OfType: ir.NamedType("ID")}, DefaultValue: &selection.Value{Kind: selection.ValueList}},
		},
		Selections: sampleMap(),
	}
	out := querytext.Render(op)

	require.Contains(t, out, "query Profile")
	require.Contains(t, out, "$id: ID!")
	require.Contains(t, out, "$ids: [ID] = []")
	require.Contains(t, out, "user____id___v_id: user(id: $id)")
	require.Contains(t, out, `node____id___s_1: node(id: "1")`)
	require.Contains(t, out, "... on Query")

	// Rendered text parses back to the same operation.
	doc, err := language.ParseClientDocument("out.graphql", out)
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	require.Equal(t, "Profile", doc.Operations[0].Name)
	require.Len(t, doc.Operations[0].SelectionSet, 3)
}

func TestRenderIsStable(t *testing.T) {
	op := func() *querytext.Operation {
		return &querytext.Operation{Kind: "mutation", Name: "M", Selections: sampleMap()}
	}
	first := querytext.Render(op())
	for range 5 {
		require.Equal(t, first, querytext.Render(op()))
	}
	require.Contains(t, first, "mutation M")
}
