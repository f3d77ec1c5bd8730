package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/foundry/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{name: "standard error", err: errors.New("simple error"), wantMessages: []string{"simple error"}},
		{
			name:         "zerr wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("exit status 1"), "compilation failed"), "test run failed"),
			wantMessages: []string{"test run failed", "compilation failed", "exit status 1"},
		},
		{name: "nil", err: nil, wantMessages: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			var got []string
			for _, e := range entries {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.wantMessages, got)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(zerr.With(zerr.New("inner"), "pc", 4), "outer"), "contract", "test_math.cairo")

	entries := logger.CollectErrorEntries(err)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "test_math.cairo", entries[0].Metadata["contract"])
		assert.Equal(t, 4, entries[1].Metadata["pc"])
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{name: "single entry", entries: []logger.ErrorEntry{{Message: "single error"}}, want: "Error: single error"},
		{
			name:    "caused by",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{
				{Message: "compilation failed", Metadata: map[string]any{"exit_code": 1, "contract": "a.cairo"}},
			},
			want: "Error: compilation failed\n       contract: a.cairo\n       exit_code: 1",
		},
		{
			name: "multiline cause with metadata",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "line1\nline2", Metadata: map[string]any{"pc": 3}},
			},
			want: "Error: main\n\n  Caused by:\n    → line1\n      line2\n      pc: 3",
		},
		{name: "empty", entries: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
