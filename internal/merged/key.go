package merged

import (
	"strings"

	"github.com/hanpama/selectiongraph/internal/selection"
)

// KeyKind tells field keys from inline fragment keys.
type KeyKind int

const (
	KeyServerField KeyKind = iota
	KeyInlineFragment
)

// NormalizationKey identifies an entry of a Map. Aliases never take part in
// it: two selections of the same field with the same canonical arguments
// share a key. For inline fragments Name is the type condition.
type NormalizationKey struct {
	Kind KeyKind
	Name string
	Args string
}

// FieldKey is the key of a server field selected with args.
func FieldKey(name string, args []*selection.Argument) NormalizationKey {
	return NormalizationKey{Kind: KeyServerField, Name: name, Args: selection.CanonicalArguments(args)}
}

// InlineFragmentKey is the key of an inline fragment on typeName.
func InlineFragmentKey(typeName string) NormalizationKey {
	return NormalizationKey{Kind: KeyInlineFragment, Name: typeName}
}

func (k NormalizationKey) Less(other NormalizationKey) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Args < other.Args
}

func (k NormalizationKey) String() string {
	switch k.Kind {
	case KeyServerField:
		if k.Args == "" {
			return k.Name
		}
		return k.Name + "(" + k.Args + ")"
	case KeyInlineFragment:
		return "... on " + k.Name
	default:
		panic("unreachable")
	}
}

// NormalizationAlias is the response key used in query text for a field, so
// that two entries with the same name never collide in a response. Names are
// escaped, so the separators only occur between parts.
func NormalizationAlias(name string, args []*selection.Argument) string {
	if len(args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(selection.EscapeName(name))
	for _, arg := range selection.SortedArguments(args) {
		b.WriteString("____")
		b.WriteString(selection.EscapeName(arg.Name))
		b.WriteString("___")
		b.WriteString(arg.Value.AliasChunk())
	}
	return b.String()
}

// Path locates an entry from a traversal root: one key per linked field or
// inline fragment passed through.
type Path []NormalizationKey

// Append returns a new path; p is never modified.
func (p Path) Append(k NormalizationKey) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, k)
}

// Prefixed returns prefix followed by p.
func (p Path) Prefixed(prefix Path) Path {
	out := make(Path, 0, len(prefix)+len(p))
	out = append(out, prefix...)
	return append(out, p...)
}

// Compare orders paths segment by segment; a proper prefix sorts first.
func (p Path) Compare(other Path) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if p[i] == other[i] {
			continue
		}
		if p[i].Less(other[i]) {
			return -1
		}
		return 1
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}

func (p Path) Equal(other Path) bool { return p.Compare(other) == 0 }

func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = k.String()
	}
	return strings.Join(parts, "/")
}

// key is an unambiguous encoding of the path, for use as a map key.
func (p Path) key() string {
	var b strings.Builder
	for _, k := range p {
		b.WriteByte(byte('0' + k.Kind))
		b.WriteString(k.Name)
		b.WriteByte(0)
		b.WriteString(k.Args)
		b.WriteByte(0)
	}
	return b.String()
}
