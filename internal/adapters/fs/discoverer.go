package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TestDiscoverer = (*Discoverer)(nil)

// Discoverer finds test contracts by walking a directory tree.
type Discoverer struct {
	walker *Walker
}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer(walker *Walker) *Discoverer {
	return &Discoverer{walker: walker}
}

// Discover returns the files below root whose base name matches pattern, sorted.
// A root that is itself a matching file is returned as the only result.
func (d *Discoverer) Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = domain.DefaultTestFilePattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDiscoveryFailed.Error()), "pattern", pattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDiscoveryFailed.Error()), "root", root)
	}
	if !info.IsDir() {
		if filepath.Ext(root) != domain.ContractExtension {
			return nil, zerr.With(domain.ErrDiscoveryFailed, "root", root)
		}
		return []string{root}, nil
	}

	var files []string
	for path := range d.walker.WalkFiles(root, nil) {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}
