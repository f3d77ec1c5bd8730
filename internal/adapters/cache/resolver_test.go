package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/foundry/internal/adapters/cache"
	"go.trai.ch/foundry/internal/core/domain"
)

func TestResolver_ValidContractPath(t *testing.T) {
	root := t.TempDir()
	resolver := cache.NewResolver(root)
	expected := filepath.Join(root, "cairo-foundry-cache", "test_valid_program.json")

	// In a contracts directory.
	got, err := resolver.Resolve(filepath.Join("/work", "test_cairo_contracts", "test_valid_program.cairo"))
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	// In the project root.
	got, err = resolver.Resolve("test_valid_program.cairo")
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestResolver_DependsOnlyOnBaseName(t *testing.T) {
	resolver := cache.NewResolver(t.TempDir())

	dirs := []string{"", ".", "a", "a/b/c", "/abs/dir", "../up"}
	var first string
	for i, dir := range dirs {
		got, err := resolver.Resolve(filepath.Join(dir, "counter.cairo"))
		require.NoError(t, err)
		if i == 0 {
			first = got
			continue
		}
		assert.Equal(t, first, got, "dir %q", dir)
	}
}

func TestResolver_InvalidExtension(t *testing.T) {
	resolver := cache.NewResolver(t.TempDir())

	tests := []struct {
		path string
		ext  string
	}{
		{"test_invalid_extension.sol", ".sol"},
		{"test_invalid_extension.rs", ".rs"},
		{"test_invalid_extension", ""},
		{"dir/test_invalid_extension.CAIRO", ".CAIRO"},
		{"/abs/dir.cairo/contract", ""},
		{"contract.cairo.bak", ".bak"},
		{".cairo", ""},
		{"dir/.cairo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := resolver.Resolve(tt.path)
			require.ErrorIs(t, err, domain.ErrInvalidContractExtension)

			var cacheErr *domain.CacheError
			require.ErrorAs(t, err, &cacheErr)
			assert.Equal(t, domain.CacheErrorInvalidContractExtension, cacheErr.Kind)
			assert.Equal(t, tt.path, cacheErr.Path)
			assert.Equal(t, tt.ext, cacheErr.Extension)

			_, err = resolver.CompiledPath(tt.path)
			require.ErrorIs(t, err, domain.ErrInvalidContractExtension)
		})
	}
}

func TestResolver_CompiledPath(t *testing.T) {
	root := t.TempDir()
	resolver := cache.NewResolver(root)

	got, err := resolver.CompiledPath("contracts/test_math.cairo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cairo-foundry-cache", "compiled"), filepath.Dir(got))
	assert.Regexp(t, `^test_math-[0-9a-f]{16}\.json$`, filepath.Base(got))
	assert.Equal(t, root, resolver.Root())

	again, err := resolver.CompiledPath("contracts/test_math.cairo")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestResolver_SameNameSharesRecordNotArtifact(t *testing.T) {
	resolver := cache.NewResolver(t.TempDir())
	a := filepath.Join("/work", "a", "test_math.cairo")
	b := filepath.Join("/work", "b", "test_math.cairo")

	recordA, err := resolver.Resolve(a)
	require.NoError(t, err)
	recordB, err := resolver.Resolve(b)
	require.NoError(t, err)
	assert.Equal(t, recordA, recordB)

	artifactA, err := resolver.CompiledPath(a)
	require.NoError(t, err)
	artifactB, err := resolver.CompiledPath(b)
	require.NoError(t, err)
	assert.NotEqual(t, artifactA, artifactB)
}
