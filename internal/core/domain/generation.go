package domain

import "time"

// DefaultStatePath is where generation records are kept, relative to the working directory.
const DefaultStatePath = ".weave/state.json"

// GenerationRecord remembers the fingerprints of the last successful generation of an injector.
type GenerationRecord struct {
	Injector   string    `json:"injector,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	OutputPath string    `json:"output_path,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
