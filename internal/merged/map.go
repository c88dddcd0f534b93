package merged

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/selection"
)

// SelectionKind is the variant of a MergedSelection.
type SelectionKind int

const (
	SelectionScalar SelectionKind = iota
	SelectionLinked
	SelectionInlineFragment
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionScalar:
		return "scalar"
	case SelectionLinked:
		return "linked"
	case SelectionInlineFragment:
		return "inlineFragment"
	default:
		return "unknown"
	}
}

func (k SelectionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MergedSelection is one entry of a Map. Scalar and Linked entries refer to
// a server selectable; InlineFragment entries carry the type condition in
// Name. Arguments are sorted by name.
type MergedSelection struct {
	Kind       SelectionKind         `json:"kind"`
	Name       string                `json:"name"`
	Selectable ir.SelectableID       `json:"selectable"`
	Arguments  []*selection.Argument `json:"arguments,omitempty"`
	Selections *Map                  `json:"selections,omitempty"`
}

func (s *MergedSelection) Key() NormalizationKey {
	switch s.Kind {
	case SelectionScalar, SelectionLinked:
		return FieldKey(s.Name, s.Arguments)
	case SelectionInlineFragment:
		return InlineFragmentKey(s.Name)
	default:
		panic("unreachable")
	}
}

// Alias is the normalization alias of the entry.
func (s *MergedSelection) Alias() string { return NormalizationAlias(s.Name, s.Arguments) }

func (s *MergedSelection) clone() *MergedSelection {
	out := *s
	if s.Selections != nil {
		out.Selections = s.Selections.Clone()
	}
	return &out
}

// Map is a merged selection map. Entries are kept by normalization key and
// always read back sorted by key.
type Map struct {
	entries map[NormalizationKey]*MergedSelection
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[NormalizationKey]*MergedSelection)}
}

func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Get(k NormalizationKey) (*MergedSelection, bool) {
	s, ok := m.entries[k]
	return s, ok
}

// Entries returns the entries sorted by normalization key.
func (m *Map) Entries() []*MergedSelection {
	keys := make([]NormalizationKey, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	out := make([]*MergedSelection, len(keys))
	for i, k := range keys {
		out[i] = m.entries[k]
	}
	return out
}

func (m *Map) Clone() *Map {
	out := NewMap()
	for k, s := range m.entries {
		out.entries[k] = s.clone()
	}
	return out
}

// Put inserts s unless an entry with the same key exists, and returns the
// entry stored under the key.
func (m *Map) Put(s *MergedSelection) *MergedSelection {
	k := s.Key()
	if existing, ok := m.entries[k]; ok {
		return existing
	}
	if s.Kind != SelectionScalar && s.Selections == nil {
		s.Selections = NewMap()
	}
	m.entries[k] = s
	return s
}

// MergeFrom merges other into m. Entries already in m win; nested maps of
// entries present in both are merged recursively. other is not modified.
func (m *Map) MergeFrom(other *Map) {
	for k, s := range other.entries {
		existing, ok := m.entries[k]
		if !ok {
			m.entries[k] = s.clone()
			continue
		}
		if existing.Selections != nil && s.Selections != nil {
			existing.Selections.MergeFrom(s.Selections)
		}
	}
}

// FindByPath returns the nested map reached by following path.
func (m *Map) FindByPath(path Path) (*Map, bool) {
	current := m
	for _, k := range path {
		s, ok := current.entries[k]
		if !ok || s.Selections == nil {
			return nil, false
		}
		current = s.Selections
	}
	return current, true
}

// Equal reports whether both maps hold the same entries.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	a, err := json.Marshal(m)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

// String renders the map on one line, for example
// "id user(id:$id) { name }".
func (m *Map) String() string {
	var b strings.Builder
	m.writeTo(&b)
	return b.String()
}

func (m *Map) writeTo(b *strings.Builder) {
	for i, s := range m.Entries() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Key().String())
		if s.Selections != nil {
			b.WriteString(" { ")
			s.Selections.writeTo(b)
			b.WriteString(" }")
		}
	}
}
