package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/weave/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("no binding"),
			wantMessages: []string{"no binding"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "zerr without metadata",
			err:          zerr.New("resolution failed"),
			wantMessages: []string{"resolution failed"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("disk full"), "failed to write injector"), "generation failed"),
			wantMessages: []string{"generation failed", "failed to write injector", "disk full"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name: "metadata on each link",
			err: func() error {
				inner := zerr.With(zerr.New("cannot add binding"), "key", "com.example.Foo")
				return zerr.With(zerr.Wrap(inner, "resolution failed"), "injector", "AppInjector")
			}(),
			wantMessages: []string{"resolution failed", "cannot add binding"},
			wantMetadata: []map[string]any{
				{"injector": "AppInjector"},
				{"key": "com.example.Foo"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)
			assert.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message, "message %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata %d", i)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, logger.CollectErrorEntriesExported(nil))
	})
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "cycle detected"}},
			want:    "Error: cycle detected",
		},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "middle"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → middle\n    → root",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{{
				Message:  "double binding",
				Metadata: map[string]any{"node": "AppInjector", "key": "com.example.Foo"},
			}},
			want: "Error: double binding\n       key: com.example.Foo\n       node: AppInjector",
		},
		{
			name: "cause metadata",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause", Metadata: map[string]any{"errors": 2}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause\n      errors: 2",
		},
		{
			name: "multiline",
			entries: []logger.ErrorEntry{
				{Message: "first\nsecond"},
				{Message: "cause one\ncause two"},
			},
			want: "Error: first\n       second\n\n  Caused by:\n    → cause one\n      cause two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
