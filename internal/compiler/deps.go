package compiler

import (
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
	"github.com/hanpama/selectiongraph/internal/validate"
)

// blockingDiagnostics returns the diagnostics of every client selectable id
// reads, directly or through other client selectables, including its own.
func blockingDiagnostics(catalog ir.Catalog, id ir.SelectableID, invalid map[ir.SelectableID]validate.Diagnostics) validate.Diagnostics {
	if len(invalid) == 0 {
		return nil
	}
	var ds validate.Diagnostics
	for _, dep := range clientDependencies(catalog, id) {
		ds = append(ds, invalid[dep]...)
	}
	return ds
}

// clientDependencies lists id followed by every client selectable reachable
// from its reader, in first-visit order.
func clientDependencies(catalog ir.Catalog, id ir.SelectableID) []ir.SelectableID {
	seen := map[ir.SelectableID]bool{id: true}
	order := []ir.SelectableID{id}
	var visitSet func(parent string, set selection.SelectionSet)
	visitClient := func(id ir.SelectableID) {
		reader, ok := catalog.ReaderSelectionSet(id)
		if !ok {
			return
		}
		visitSet(id.Parent, reader)
	}
	visitSet = func(parent string, set selection.SelectionSet) {
		for _, sel := range set {
			s, ok := catalog.Selectable(parent, sel.Name)
			if !ok {
				continue
			}
			if s.IsClient() && !seen[s.ID] {
				seen[s.ID] = true
				order = append(order, s.ID)
				visitClient(s.ID)
			}
			if len(sel.Selections) > 0 {
				visitSet(s.TargetEntity(), sel.Selections)
			}
		}
	}
	visitClient(id)
	return order
}
