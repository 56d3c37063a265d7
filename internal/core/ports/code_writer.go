package ports

import (
	"context"

	"go.trai.ch/weave/internal/core/domain"
)

// CodeWriter hands a finished emission plan to the code emission layer.
// It is only called for trees that resolved without errors.
//
//go:generate go run go.uber.org/mock/mockgen -source=code_writer.go -destination=mocks/mock_code_writer.go -package=mocks
type CodeWriter interface {
	// Write emits the plan below dir and returns the path of the written unit.
	Write(ctx context.Context, dir string, plan *domain.EmissionPlan) (string, error)
}
