// Package runner executes a single test entrypoint and derives its verdict.
package runner

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
)

// MessageExpectedRevert is the failure message of an entrypoint that was expected to trap but did not.
const MessageExpectedRevert = "expected revert"

// Runner runs entrypoints on a virtual machine. It holds no per-run state.
type Runner struct {
	vm     ports.VirtualMachine
	tracer ports.Tracer
}

// New creates a Runner.
func New(vm ports.VirtualMachine, tracer ports.Tracer) *Runner {
	return &Runner{vm: vm, tracer: tracer}
}

// RunEntrypoint runs the named entrypoint of program with the given hint processor.
//
// An entrypoint that traps fails, unless a hint declared that it must revert.
// The error is non-nil only when the entrypoint could not be run; the result
// then carries the same error.
func (r *Runner) RunEntrypoint(
	ctx context.Context,
	program *domain.Program,
	name string,
	hints ports.HintProcessor,
	args []string,
) (domain.TestResult, error) {
	return r.run(ctx, "", program, "", name, hints, args)
}

// RunCompiled runs the named entrypoint of a compiled contract, reusing its artifact on disk.
func (r *Runner) RunCompiled(
	ctx context.Context,
	compiled *domain.CompiledContract,
	name string,
	hints ports.HintProcessor,
) (domain.TestResult, error) {
	if compiled == nil {
		return r.run(ctx, "", nil, "", name, hints, nil)
	}
	return r.run(ctx, compiled.ContractPath, compiled.Program, compiled.ArtifactPath, name, hints, nil)
}

func (r *Runner) run(
	ctx context.Context,
	contract string,
	program *domain.Program,
	artifact string,
	name string,
	hints ports.HintProcessor,
	args []string,
) (domain.TestResult, error) {
	ctx, span := r.tracer.Start(ctx, "entrypoint")
	defer span.End()
	span.SetAttribute("entrypoint", name)

	start := time.Now()
	fail := func(kind domain.TestErrorKind, err error) (domain.TestResult, error) {
		cmdErr := &domain.TestCommandError{Kind: kind, Contract: contract, Entrypoint: name, Err: err}
		span.RecordError(cmdErr)
		return domain.TestResult{Entrypoint: name, Duration: time.Since(start), Err: cmdErr}, cmdErr
	}

	if program == nil {
		return fail(domain.TestErrorProgramParse, errors.New("no program"))
	}
	ep, ok := program.Entrypoint(name)
	if !ok {
		return fail(domain.TestErrorEntrypointNotFound, nil)
	}

	outcome, err := r.vm.Execute(ctx, domain.ExecutionRequest{
		Program:      program,
		Entrypoint:   ep,
		ArtifactPath: artifact,
		Args:         args,
	}, hints)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, domain.ErrExecutionAborted) {
			return fail(domain.TestErrorAborted, err)
		}
		return fail(domain.TestErrorExecution, err)
	}

	passed, message := verdict(outcome)
	span.SetAttribute("passed", passed)
	return domain.TestResult{
		Entrypoint: name,
		Passed:     passed,
		Message:    message,
		Output:     outcome.Output,
		Duration:   time.Since(start),
	}, nil
}

func verdict(outcome domain.ExecutionOutcome) (bool, string) {
	scope := outcome.Scope
	if !scope.ExpectRevert {
		return !outcome.Trapped, outcome.Message
	}
	if !outcome.Trapped {
		return false, MessageExpectedRevert
	}
	if scope.ExpectedRevertMessage != "" && !strings.Contains(outcome.Message, scope.ExpectedRevertMessage) {
		return false, MessageExpectedRevert + " with message " + `"` + scope.ExpectedRevertMessage + `", got: ` + outcome.Message
	}
	return true, ""
}
