// Package emit writes emission plans as YAML units, one file per injector.
package emit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Header is the first line of every generated unit.
const Header = "# Code generated by weave. DO NOT EDIT.\n"

var _ ports.CodeWriter = (*Writer)(nil)

// Writer implements ports.CodeWriter.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders plan to dir/<SimpleName>.yaml, replacing any previous unit.
func (w *Writer) Write(ctx context.Context, dir string, plan *domain.EmissionPlan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if plan == nil || plan.Injector == "" {
		return "", zerr.New("emission plan has no injector")
	}

	data, err := Render(plan)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
	}

	path := filepath.Join(dir, domain.SimpleName(plan.Injector)+".yaml")
	tmp, err := os.CreateTemp(dir, ".weave-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create temporary file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", zerr.With(zerr.Wrap(err, "failed to write unit"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write unit"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to replace unit"), "path", path)
	}
	return path, nil
}

// Render returns the bytes Write puts on disk.
func Render(plan *domain.EmissionPlan) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to encode plan"), "injector", plan.Injector)
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode plan")
	}
	return buf.Bytes(), nil
}
