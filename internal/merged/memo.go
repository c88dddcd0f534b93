package merged

import "github.com/hanpama/selectiongraph/internal/ir"

type memoStatus int

const (
	memoNotStarted memoStatus = iota
	memoInProgress
	memoDone
)

// FieldTraversalResult is the merged reader of one client selectable. It is
// not modified once stored in a Memo.
type FieldTraversalResult struct {
	Selections *Map
	State      *TraversalState
}

type memoEntry struct {
	status memoStatus
	result *FieldTraversalResult
}

// Memo caches FieldTraversalResults by client selectable for one
// compilation pass. It is not safe for concurrent use.
type Memo struct {
	entries map[ir.SelectableID]*memoEntry
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[ir.SelectableID]*memoEntry)}
}

// Reset forgets every result. Call it at the start of each pass.
func (m *Memo) Reset() {
	m.entries = make(map[ir.SelectableID]*memoEntry)
}

func (m *Memo) Len() int {
	n := 0
	for _, e := range m.entries {
		if e.status == memoDone {
			n++
		}
	}
	return n
}

// Lookup returns the completed result for id.
func (m *Memo) Lookup(id ir.SelectableID) (*FieldTraversalResult, bool) {
	e, ok := m.entries[id]
	if !ok || e.status != memoDone {
		return nil, false
	}
	return e.result, true
}

func (m *Memo) status(id ir.SelectableID) memoStatus {
	e, ok := m.entries[id]
	if !ok {
		return memoNotStarted
	}
	return e.status
}

func (m *Memo) start(id ir.SelectableID) {
	m.entries[id] = &memoEntry{status: memoInProgress}
}

func (m *Memo) finish(id ir.SelectableID, result *FieldTraversalResult) {
	m.entries[id] = &memoEntry{status: memoDone, result: result}
}

func (m *Memo) abort(id ir.SelectableID) {
	delete(m.entries, id)
}
