package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// DiagnosticKind classifies a resolution problem.
type DiagnosticKind int

// Diagnostic kinds.
const (
	DiagUnsatisfiable DiagnosticKind = iota
	DiagAmbiguous
	DiagDoubleBinding
	DiagCircular
	DiagVisibility
	DiagInternal
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnsatisfiable:
		return "unsatisfiable dependency"
	case DiagAmbiguous:
		return "ambiguous implicit binding"
	case DiagDoubleBinding:
		return "double binding"
	case DiagCircular:
		return "circular dependency"
	case DiagVisibility:
		return "visibility violation"
	default:
		return "internal error"
	}
}

// Severity distinguishes errors from warnings.
type Severity int

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Message  string
}

func (d Diagnostic) Error() string {
	return d.Kind.String() + ": " + d.Message
}

// Diagnostics accumulates the problems found while resolving one tree.
// It is not safe for concurrent use; each tree pass owns its own instance.
type Diagnostics struct {
	entries []Diagnostic
	seen    map[Diagnostic]bool
	errors  int
}

// NewDiagnostics creates an empty Diagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[Diagnostic]bool)}
}

// Errorf records an error. Identical messages of the same kind are recorded once.
func (d *Diagnostics) Errorf(kind DiagnosticKind, format string, args ...any) {
	d.add(Diagnostic{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning that does not fail generation.
func (d *Diagnostics) Warnf(kind DiagnosticKind, format string, args ...any) {
	d.add(Diagnostic{Kind: kind, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) add(diag Diagnostic) {
	if d.seen[diag] {
		return
	}
	d.seen[diag] = true
	d.entries = append(d.entries, diag)
	if diag.Severity == SeverityError {
		d.errors++
	}
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return d.errors > 0
}

// Entries returns every recorded diagnostic in report order.
func (d *Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// Errors returns the recorded errors in report order.
func (d *Diagnostics) Errors() []Diagnostic {
	out := make([]Diagnostic, 0, d.errors)
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// Err returns nil when no error was recorded, ErrResolutionFailed otherwise.
func (d *Diagnostics) Err() error {
	if d.errors == 0 {
		return nil
	}
	err := zerr.With(zerr.Wrap(ErrResolutionFailed, "resolution reported errors"), "errors", d.errors)
	return zerr.With(err, "first", d.Errors()[0].Error())
}
