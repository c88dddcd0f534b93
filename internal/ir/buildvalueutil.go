package ir

import (
	"sort"

	language "github.com/hanpama/selectiongraph/internal/language"
)

func (b *builder) getStringValue(node *language.Value) string {
	if node.Kind != language.StringValue && node.Kind != language.BlockValue {
		b.addViolation(violationExpectedString(node.Position))
		return ""
	}
	return node.Raw
}

func (b *builder) getBoolValue(node *language.Value) bool {
	if node.Kind != language.BooleanValue {
		b.addViolation(violationExpectedBoolean(node.Position))
		return false
	}
	return node.Raw == "true"
}

// directiveArguments returns the arguments of dir keyed by name, reporting
// unknown arguments and missing required ones.
func (b *builder) directiveArguments(dir *language.Directive, required []string, optional ...string) map[string]*language.Value {
	allowed := make(map[string]struct{}, len(required)+len(optional))
	for _, name := range required {
		allowed[name] = struct{}{}
	}
	for _, name := range optional {
		allowed[name] = struct{}{}
	}

	args := make(map[string]*language.Value, len(dir.Arguments))
	for _, arg := range dir.Arguments {
		if _, ok := allowed[arg.Name]; !ok {
			b.addViolation(violationUnknownDirectiveArgument(dir.Name, arg.Name, arg.Position))
			continue
		}
		args[arg.Name] = arg.Value
	}
	for _, name := range required {
		if _, ok := args[name]; !ok {
			b.addViolation(violationMissingDirectiveArgument(dir.Name, name, dir.Position))
		}
	}
	return args
}

func sortStrings(values []string) { sort.Strings(values) }
