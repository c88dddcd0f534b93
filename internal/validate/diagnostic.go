package validate

import (
	"fmt"

	"github.com/hanpama/selectiongraph/internal/ir"
	language "github.com/hanpama/selectiongraph/internal/language"
)

type Code string

const (
	CodeUnknownSelectable    Code = "UnknownSelectable"
	CodeWrongSelectionShape  Code = "WrongSelectionShape"
	CodeIllegalDirective     Code = "IllegalDirective"
	CodeDuplicateNameOrAlias Code = "DuplicateNameOrAlias"
)

type Diagnostic struct {
	Code    Code               `json:"code"`
	Message string             `json:"message"`
	Owner   ir.SelectableID    `json:"owner"`
	File    string             `json:"file,omitempty"`
	Line    int                `json:"line,omitempty"`
	Column  int                `json:"column,omitempty"`
	Pos     *language.Position `json:"-"`
}

func (d *Diagnostic) Error() string {
	msg := string(d.Code) + ": " + d.Message
	if d.File != "" {
		msg += fmt.Sprintf(" %s:%d:%d", d.File, d.Line, d.Column)
	}
	return msg
}

// Diagnostics is every problem found in one validation pass.
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	msg := fmt.Sprintf("%d selection error(s):\n", len(ds))
	for _, d := range ds {
		msg += "- " + d.Error() + "\n"
	}
	return msg
}

// Err returns ds as an error, or nil when there is nothing to report.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

func newDiagnostic(code Code, owner ir.SelectableID, pos *language.Position, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Owner:   owner,
		Pos:     pos,
	}
	if pos != nil {
		if pos.Src != nil {
			d.File = pos.Src.Name
		}
		d.Line = pos.Line
		d.Column = pos.Column
	}
	return d
}
