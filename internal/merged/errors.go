package merged

import (
	"errors"
	"strings"

	"github.com/hanpama/selectiongraph/internal/ir"
)

// ErrInternal marks a broken invariant of an upstream collaborator, such as a
// selectable that validation accepted but the catalog no longer resolves.
var ErrInternal = errors.New("internal invariant violation")

// SelectionCycleError reports a client selectable that selects itself,
// directly or through other client selectables. Path starts and ends with
// the same selectable.
type SelectionCycleError struct {
	Path []ir.SelectableID
}

func (e *SelectionCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = id.String()
	}
	return "selection cycle: " + strings.Join(parts, " -> ")
}
