// Package fs provides file system adapters for walking, hashing and discovering contract files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root, skipping VCS metadata and ignored entries.
// Yielded paths are prefixed with root, as filepath.WalkDir produces them.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if skipAction := w.shouldSkip(d, ignores); skipAction != nil {
				return skipAction
			}

			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			if w.isIgnored(d.Name(), ignores) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// shouldSkip returns filepath.SkipDir for directories that must not be walked.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) error {
	if !d.IsDir() {
		return nil
	}
	if skippedDirs[d.Name()] || w.isIgnored(d.Name(), ignores) {
		return filepath.SkipDir
	}
	return nil
}

func (w *Walker) isIgnored(name string, ignores []string) bool {
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
