package ports

import (
	"context"

	"go.trai.ch/foundry/internal/core/domain"
)

// HintProcessor resolves hints on behalf of the virtual machine.
// It is constructed by the caller of an execution and never shared between executions.
//
//go:generate go run go.uber.org/mock/mockgen -source=vm.go -destination=mocks/mock_vm.go -package=mocks
type HintProcessor interface {
	// ExecuteHint runs a hint against the execution scope.
	// It returns domain.ErrHintNotHandled for hints left to the virtual machine.
	ExecuteHint(ctx context.Context, hint domain.Hint, scope *domain.HintScope) error
}

// VirtualMachine runs a single entrypoint of a compiled program.
type VirtualMachine interface {
	// Execute runs the entrypoint, consulting hints for the hints it meets.
	//
	// A run that ends because the program failed is reported through
	// ExecutionOutcome.Trapped; the returned error is reserved for runs that
	// could not take place or were aborted.
	Execute(ctx context.Context, req domain.ExecutionRequest, hints HintProcessor) (domain.ExecutionOutcome, error)
}
