// Package program loads compiled artifacts into domain programs.
package program

import (
	"encoding/json"
	"os"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProgramLoader = (*Loader)(nil)

type cacheKey struct {
	path string
	sum  uint64
}

// Loader decodes compiled artifacts.
// Decoded programs are memoized by path and content, so an artifact that is
// rewritten on disk is decoded again.
type Loader struct {
	programs *lru.Cache[cacheKey, *domain.Program]
}

// NewLoader creates a Loader keeping up to size decoded programs.
// A non-positive size uses domain.DefaultProgramCacheSize.
func NewLoader(size int) (*Loader, error) {
	if size <= 0 {
		size = domain.DefaultProgramCacheSize
	}
	programs, err := lru.New[cacheKey, *domain.Program](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create program cache"), "size", size)
	}
	return &Loader{programs: programs}, nil
}

// Load reads and decodes the artifact at path.
// The returned program is shared between callers and must not be mutated.
func (l *Loader) Load(path string) (*domain.Program, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProgramParse.Error()), "path", path)
	}

	key := cacheKey{path: path, sum: xxhash.Sum64(data)}
	if p, ok := l.programs.Get(key); ok {
		return p, nil
	}

	var p domain.Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProgramParse.Error()), "path", path)
	}

	l.programs.Add(key, &p)
	return &p, nil
}

// Len returns the number of memoized programs.
func (l *Loader) Len() int {
	return l.programs.Len()
}
