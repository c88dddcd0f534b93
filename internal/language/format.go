package language

import (
	"strings"

	"github.com/vektah/gqlparser/v2/formatter"
)

// FormatQueryDocument prints doc as GraphQL text indented with two spaces.
func FormatQueryDocument(doc *QueryDocument) string {
	var b strings.Builder
	formatter.NewFormatter(&b, formatter.WithIndent("  ")).FormatQueryDocument(doc)
	return b.String()
}
