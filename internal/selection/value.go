package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	language "github.com/hanpama/selectiongraph/internal/language"
)

type ValueKind int

const (
	ValueVariable ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBoolean
	ValueNull
	ValueEnum
	ValueList
	ValueObject
)

// Value is an argument value. Raw holds the variable name for ValueVariable
// and the literal text (unquoted for strings) for the other leaf kinds.
type Value struct {
	Kind   ValueKind      `json:"kind"`
	Raw    string         `json:"raw,omitempty"`
	List   []*Value       `json:"list,omitempty"`
	Fields []*ObjectField `json:"fields,omitempty"`
}

type ObjectField struct {
	Name  string `json:"name"`
	Value *Value `json:"value"`
}

type Argument struct {
	Name     string             `json:"name"`
	Value    *Value             `json:"value"`
	Position *language.Position `json:"-"`
}

func VariableValue(name string) *Value { return &Value{Kind: ValueVariable, Raw: name} }

func IntValue(n int64) *Value { return &Value{Kind: ValueInt, Raw: strconv.FormatInt(n, 10)} }

func StringValue(s string) *Value { return &Value{Kind: ValueString, Raw: s} }

func EnumValue(s string) *Value { return &Value{Kind: ValueEnum, Raw: s} }

func BooleanValue(b bool) *Value { return &Value{Kind: ValueBoolean, Raw: strconv.FormatBool(b)} }

func Arg(name string, value *Value) *Argument { return &Argument{Name: name, Value: value} }

// Canonical encodes the value with an explicit type tag on every literal, so
// that 1 and "1" never encode alike. Object fields are sorted by name.
func (v *Value) Canonical() string {
	var b strings.Builder
	v.writeCanonical(&b)
	return b.String()
}

func (v *Value) writeCanonical(b *strings.Builder) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.Kind {
	case ValueVariable:
		b.WriteString("$" + v.Raw)
	case ValueInt:
		b.WriteString("i:" + v.Raw)
	case ValueFloat:
		b.WriteString("f:" + v.Raw)
	case ValueString:
		b.WriteString("s:" + strconv.Quote(v.Raw))
	case ValueBoolean:
		b.WriteString("b:" + v.Raw)
	case ValueNull:
		b.WriteString("null")
	case ValueEnum:
		b.WriteString("e:" + v.Raw)
	case ValueList:
		b.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				b.WriteByte(',')
			}
			item.writeCanonical(b)
		}
		b.WriteByte(']')
	case ValueObject:
		fields := append([]*ObjectField(nil), v.Fields...)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(f.Name))
			b.WriteByte(':')
			f.Value.writeCanonical(b)
		}
		b.WriteByte('}')
	default:
		panic("unreachable")
	}
}

// AliasChunk renders the value for use inside a response alias. Only
// characters valid in a GraphQL name are produced, and different values give
// different chunks: underscores in user text are escaped, and list and object
// parts are prefixed with their length.
func (v *Value) AliasChunk() string {
	if v == nil {
		return "l_null"
	}
	switch v.Kind {
	case ValueVariable:
		return "v_" + EscapeName(v.Raw)
	case ValueInt, ValueFloat, ValueBoolean:
		return "l_" + EscapeName(v.Raw)
	case ValueNull:
		return "l_null"
	case ValueString:
		return "s_" + EscapeName(v.Raw)
	case ValueEnum:
		return "e_" + EscapeName(v.Raw)
	case ValueList:
		var b strings.Builder
		fmt.Fprintf(&b, "a%d_", len(v.List))
		for _, item := range v.List {
			writeSized(&b, item.AliasChunk())
		}
		return b.String()
	case ValueObject:
		fields := append([]*ObjectField(nil), v.Fields...)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		var b strings.Builder
		fmt.Fprintf(&b, "o%d_", len(fields))
		for _, f := range fields {
			writeSized(&b, EscapeName(f.Name))
			writeSized(&b, f.Value.AliasChunk())
		}
		return b.String()
	default:
		panic("unreachable")
	}
}

func writeSized(b *strings.Builder, part string) {
	fmt.Fprintf(b, "%d_%s", len(part), part)
}

// EscapeName keeps ASCII letters and digits and writes every other rune,
// underscore included, as _<hex>_, so a literal underscore never appears in
// the result.
func EscapeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_%x_", r)
		}
	}
	return b.String()
}

// CollectVariables adds every variable referenced by v to into.
func (v *Value) CollectVariables(into map[string]struct{}) {
	if v == nil {
		return
	}
	switch v.Kind {
	case ValueVariable:
		into[v.Raw] = struct{}{}
	case ValueList:
		for _, item := range v.List {
			item.CollectVariables(into)
		}
	case ValueObject:
		for _, f := range v.Fields {
			f.Value.CollectVariables(into)
		}
	}
}

// SortedArguments returns a copy of args ordered by name.
func SortedArguments(args []*Argument) []*Argument {
	if len(args) == 0 {
		return nil
	}
	sorted := append([]*Argument(nil), args...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// CanonicalArguments is the argument signature used in normalization keys.
func CanonicalArguments(args []*Argument) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range SortedArguments(args) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.Name)
		b.WriteByte(':')
		arg.Value.writeCanonical(&b)
	}
	return b.String()
}

// FromAST converts a parsed argument value.
func FromAST(node *language.Value) (*Value, error) {
	if node == nil {
		return &Value{Kind: ValueNull}, nil
	}
	switch node.Kind {
	case language.Variable:
		return &Value{Kind: ValueVariable, Raw: node.Raw}, nil
	case language.IntValue:
		return &Value{Kind: ValueInt, Raw: node.Raw}, nil
	case language.FloatValue:
		return &Value{Kind: ValueFloat, Raw: node.Raw}, nil
	case language.StringValue, language.BlockValue:
		return &Value{Kind: ValueString, Raw: node.Raw}, nil
	case language.BooleanValue:
		return &Value{Kind: ValueBoolean, Raw: node.Raw}, nil
	case language.NullValue:
		return &Value{Kind: ValueNull}, nil
	case language.EnumValue:
		return &Value{Kind: ValueEnum, Raw: node.Raw}, nil
	case language.ListValue:
		v := &Value{Kind: ValueList}
		for _, child := range node.Children {
			item, err := FromAST(child.Value)
			if err != nil {
				return nil, err
			}
			v.List = append(v.List, item)
		}
		return v, nil
	case language.ObjectValue:
		v := &Value{Kind: ValueObject}
		for _, child := range node.Children {
			item, err := FromAST(child.Value)
			if err != nil {
				return nil, err
			}
			v.Fields = append(v.Fields, &ObjectField{Name: child.Name, Value: item})
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", node.Kind)
	}
}

// ToAST converts the value back into the parser's representation, for
// rendering.
func (v *Value) ToAST() *language.Value {
	if v == nil {
		return &language.Value{Kind: language.NullValue, Raw: "null"}
	}
	switch v.Kind {
	case ValueVariable:
		return &language.Value{Kind: language.Variable, Raw: v.Raw}
	case ValueInt:
		return &language.Value{Kind: language.IntValue, Raw: v.Raw}
	case ValueFloat:
		return &language.Value{Kind: language.FloatValue, Raw: v.Raw}
	case ValueString:
		return &language.Value{Kind: language.StringValue, Raw: v.Raw}
	case ValueBoolean:
		return &language.Value{Kind: language.BooleanValue, Raw: v.Raw}
	case ValueNull:
		return &language.Value{Kind: language.NullValue, Raw: "null"}
	case ValueEnum:
		return &language.Value{Kind: language.EnumValue, Raw: v.Raw}
	case ValueList:
		out := &language.Value{Kind: language.ListValue}
		for _, item := range v.List {
			out.Children = append(out.Children, &language.ChildValue{Value: item.ToAST()})
		}
		return out
	case ValueObject:
		out := &language.Value{Kind: language.ObjectValue}
		for _, f := range v.Fields {
			out.Children = append(out.Children, &language.ChildValue{Name: f.Name, Value: f.Value.ToAST()})
		}
		return out
	default:
		panic("unreachable")
	}
}
