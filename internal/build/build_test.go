package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/foundry/internal/build"
)

func TestString(t *testing.T) {
	assert.Equal(t, build.Version, build.String())

	origCommit, origDate := build.Commit, build.Date
	t.Cleanup(func() { build.Commit, build.Date = origCommit, origDate })

	build.Commit, build.Date = "abc123", "2026-01-02"
	assert.Equal(t, build.Version+" (abc123, 2026-01-02)", build.String())
}
