// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/foundry/internal/core/domain"

// CachePathResolver maps contract paths to their cache locations.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type CachePathResolver interface {
	// Resolve returns the path of the cache record for the contract.
	// It fails with a domain.CacheError of kind CacheErrorInvalidContractExtension
	// when the path does not carry the contract extension.
	Resolve(contractPath string) (string, error)

	// CompiledPath returns where the compiled artifact of the contract is written.
	CompiledPath(contractPath string) (string, error)
}

// CacheStore reads and writes cache records.
type CacheStore interface {
	// Read returns the record stored at path.
	// Failures are reported as *domain.CacheError.
	Read(path string) (*domain.CacheRecord, error)

	// Write replaces the record at path. Readers never observe a partial file.
	Write(path string, record domain.CacheRecord) error
}
