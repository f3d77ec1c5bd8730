package ports

// Hasher defines the interface for computing content digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeContentHash returns the 0x-prefixed digest of the file's content.
	ComputeContentHash(path string) (string, error)
}

// Verifier defines the interface for verifying file existence.
type Verifier interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
}
