// Package fs fingerprints workspace inputs and emission plans.
package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/weave/internal/build"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash fingerprints.
type Hasher struct {
	version string
}

// NewHasher creates a Hasher. Fingerprints include the tool version so an
// upgrade invalidates every previous generation.
func NewHasher() *Hasher {
	return &Hasher{version: build.Version}
}

// ComputeFileHash computes the xxhash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return digest.Sum64(), nil
}

// ComputeInputHash fingerprints the configuration source, the injector name and
// the tool version. When the workspace carries no source, the configuration file
// is hashed instead.
func (h *Hasher) ComputeInputHash(ws *domain.Workspace, injector string) (string, error) {
	digest := xxhash.New()

	writeField(digest, h.version)
	writeField(digest, injector)

	if len(ws.Source) > 0 {
		_, _ = digest.Write(ws.Source)
	} else {
		sum, err := h.ComputeFileHash(ws.Path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to fingerprint workspace"), "injector", injector)
		}
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// ComputePlanHash fingerprints the YAML form of plan.
func (h *Hasher) ComputePlanHash(plan *domain.EmissionPlan) (string, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to marshal plan"), "injector", plan.Injector)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{0})
}
