// Package cache implements the compilation cache: record locations and record storage.
package cache

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
)

var _ ports.CachePathResolver = (*Resolver)(nil)

// Resolver maps contract paths to cache locations under a fixed root.
//
// Only the contract's base name keys the cache record, so two contracts with
// the same file name in different directories share one record slot. Their
// compiled artifacts stay apart: the artifact name also carries a hash of the
// contract's absolute path.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at root, typically the user cache directory.
func NewResolver(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the directory holding CacheDirName.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns <root>/cairo-foundry-cache/<stem>.json for the contract.
func (r *Resolver) Resolve(contractPath string) (string, error) {
	stem, err := contractStem(contractPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(domain.CachePath(r.root), stem+domain.CacheRecordExtension), nil
}

// CompiledPath returns <root>/cairo-foundry-cache/compiled/<stem>-<path hash>.json for the contract.
func (r *Resolver) CompiledPath(contractPath string) (string, error) {
	stem, err := contractStem(contractPath)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(contractPath)
	if err != nil {
		abs = filepath.Clean(contractPath)
	}
	name := fmt.Sprintf("%s-%016x%s", stem, xxhash.Sum64String(abs), domain.CacheRecordExtension)
	return filepath.Join(domain.CompiledPath(r.root), name), nil
}

func contractStem(contractPath string) (string, error) {
	base := filepath.Base(contractPath)
	ext := filepath.Ext(base)
	// A bare ".cairo" is a dotfile without an extension.
	if base == ext {
		ext = ""
	}
	if ext != domain.ContractExtension {
		return "", &domain.CacheError{
			Kind:      domain.CacheErrorInvalidContractExtension,
			Path:      contractPath,
			Extension: ext,
		}
	}
	return base[:len(base)-len(ext)], nil
}
