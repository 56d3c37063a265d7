package ports

import "go.trai.ch/weave/internal/core/domain"

// ErrorSink accumulates the diagnostics of one tree pass.
// Messages are printf-style; keys passed as arguments render through their String method.
//
//go:generate go run go.uber.org/mock/mockgen -source=error_sink.go -destination=mocks/mock_error_sink.go -package=mocks
type ErrorSink interface {
	Errorf(kind domain.DiagnosticKind, format string, args ...any)
	Warnf(kind domain.DiagnosticKind, format string, args ...any)
	HasErrors() bool
	// Err returns a non-nil error if any error was recorded.
	Err() error
}
