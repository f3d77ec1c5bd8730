package domain

// CompiledContract is a contract ready to be tested.
type CompiledContract struct {
	ContractPath string
	ArtifactPath string
	Program      *Program
	Entrypoints  []string
	// Cached is true when the artifact came from a valid cache record.
	Cached bool
}
