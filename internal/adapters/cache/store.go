package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore with one JSON file per record.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// recordJSON mirrors domain.CacheRecord with pointers so absent fields can be told apart from empty ones.
type recordJSON struct {
	ContractPath         *string `json:"contract_path"`
	CompiledContractPath *string `json:"compiled_contract_path"`
	Hash                 *string `json:"hash"`
}

// Read loads the record at path.
func (s *Store) Read(path string) (*domain.CacheRecord, error) {
	//nolint:gosec // Path is produced by the resolver
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.CacheError{Kind: domain.CacheErrorFileNotFound, Path: path, Err: err}
		}
		return nil, &domain.CacheError{Kind: domain.CacheErrorIO, Path: path, Err: err}
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, &domain.CacheError{Kind: domain.CacheErrorDeserialize, Path: path, Err: err}
	}
	return rec, nil
}

func decodeRecord(data []byte) (*domain.CacheRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw recordJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, zerr.New("unexpected data after cache record")
	}

	switch {
	case raw.ContractPath == nil:
		return nil, zerr.With(zerr.New("missing field"), "field", "contract_path")
	case raw.CompiledContractPath == nil:
		return nil, zerr.With(zerr.New("missing field"), "field", "compiled_contract_path")
	case raw.Hash == nil:
		return nil, zerr.With(zerr.New("missing field"), "field", "hash")
	}

	return &domain.CacheRecord{
		ContractPath:         *raw.ContractPath,
		CompiledContractPath: *raw.CompiledContractPath,
		Hash:                 *raw.Hash,
	}, nil
}

// Write replaces the record at path.
// The record is written to a temporary file in the same directory and renamed into place.
func (s *Store) Write(path string, record domain.CacheRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &domain.CacheError{Kind: domain.CacheErrorIO, Path: path, Err: zerr.Wrap(err, "failed to marshal cache record")}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return &domain.CacheError{Kind: domain.CacheErrorIO, Path: path, Err: zerr.Wrap(err, "failed to create cache directory")}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return &domain.CacheError{Kind: domain.CacheErrorIO, Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary cache file")
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return zerr.Wrap(err, "failed to write cache record")
	}
	if err = tmp.Sync(); err != nil {
		return zerr.Wrap(err, "failed to sync cache record")
	}
	if err = tmp.Chmod(domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to set cache record permissions")
	}
	if err = tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close cache record")
	}
	if err = os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to move cache record into place")
	}
	return nil
}
