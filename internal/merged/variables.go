package merged

import (
	"sort"

	"github.com/hanpama/selectiongraph/internal/ir"
)

// ReachableVariables returns the sorted names of every variable referenced
// by an argument anywhere in m.
func ReachableVariables(m *Map) []string {
	set := make(map[string]struct{})
	collectVariables(m, set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables(m *Map, into map[string]struct{}) {
	if m == nil {
		return
	}
	for _, s := range m.entries {
		for _, arg := range s.Arguments {
			arg.Value.CollectVariables(into)
		}
		collectVariables(s.Selections, into)
	}
}

// PruneVariables keeps the definitions whose name is in reachable,
// preserving their order.
func PruneVariables(defs []*ir.ArgumentDefinition, reachable []string) []*ir.ArgumentDefinition {
	keep := make(map[string]struct{}, len(reachable))
	for _, name := range reachable {
		keep[name] = struct{}{}
	}
	var out []*ir.ArgumentDefinition
	for _, def := range defs {
		if _, ok := keep[def.Name]; ok {
			out = append(out, def)
		}
	}
	return out
}
