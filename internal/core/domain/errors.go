package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidDeclaration is returned when a declaration cannot be interpreted.
	ErrInvalidDeclaration = zerr.New("invalid declaration")

	// ErrDuplicateType is returned when a type is declared more than once.
	ErrDuplicateType = zerr.New("type declared more than once")

	// ErrUnknownModule is returned when an injector or module installs an undeclared module.
	ErrUnknownModule = zerr.New("unknown module")

	// ErrDoubleBinding is returned when a node receives two different bindings for one key.
	ErrDoubleBinding = zerr.New("double binding")

	// ErrInternalInvariant is returned when the injector hierarchy is inconsistent.
	// It always indicates a defect in tree construction.
	ErrInternalInvariant = zerr.New("internal invariant violated")

	// ErrResolutionFailed is returned when a tree accumulated resolution errors.
	ErrResolutionFailed = zerr.New("binding resolution failed")

	// ErrGenerationFailed is returned when at least one injector could not be generated.
	// Individual diagnostics have already been reported when it is returned.
	ErrGenerationFailed = zerr.New("generation failed")

	// ErrInjectorNotFound is returned when a requested injector is not declared.
	ErrInjectorNotFound = zerr.New("injector not found")
)

// CreationError is returned by the implicit binding creator when no binding can be
// synthesized for a key.
type CreationError struct {
	Kind   DiagnosticKind
	Key    Key
	Reason string
}

// NewCreationError creates a CreationError.
func NewCreationError(kind DiagnosticKind, key Key, reason string) *CreationError {
	return &CreationError{Kind: kind, Key: key, Reason: reason}
}

func (e *CreationError) Error() string {
	return e.Reason
}
