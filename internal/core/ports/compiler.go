package ports

import (
	"context"

	"go.trai.ch/foundry/internal/core/domain"
)

// Compiler drives the external contract compiler.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles the contract and writes the artifact to outputPath.
	Compile(ctx context.Context, contractPath, outputPath string) error

	// ListEntrypoints returns the names of the test entrypoints exposed by the program.
	ListEntrypoints(program *domain.Program) []string
}

// ProgramLoader deserializes compiled artifacts.
type ProgramLoader interface {
	// Load reads and decodes the artifact at path.
	Load(path string) (*domain.Program, error)
}
