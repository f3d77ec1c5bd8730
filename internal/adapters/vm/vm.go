// Package vm runs compiled entrypoints on the external Cairo virtual machine.
package vm

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"go.trai.ch/foundry/internal/adapters/shell"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxDiagnosticLines = 20

// trapPattern recognizes failures raised by the program itself, as opposed to
// failures of the virtual machine or its invocation.
var trapPattern = regexp.MustCompile(
	`VmException|Error at pc|ASSERT_EQ|[Aa]ssert|Out of gas|Cairo traceback|DiffAssertValues|Got an exception while executing a hint`,
)

const outputHeader = "Program output:"

var _ ports.VirtualMachine = (*VM)(nil)

// Options configures the virtual machine invocation.
type Options struct {
	Binary string
	Layout string
	// TempDir holds the rewritten programs. Empty means os.TempDir.
	TempDir string
}

// VM runs cairo-vm-cli in a subprocess, one process per entrypoint.
type VM struct {
	runner *shell.Runner
	opts   Options
}

// New creates a VM.
func New(runner *shell.Runner, opts Options) *VM {
	if opts.Binary == "" {
		opts.Binary = domain.DefaultVMBinary
	}
	if opts.Layout == "" {
		opts.Layout = domain.DefaultLayout
	}
	return &VM{runner: runner, opts: opts}
}

// Execute runs the entrypoint.
//
// Hints inside the entrypoint body are offered to hints first. Hints it
// handles are removed from the program handed to the virtual machine; the
// others are left to the virtual machine's own processor.
func (v *VM) Execute(
	ctx context.Context,
	req domain.ExecutionRequest,
	hints ports.HintProcessor,
) (domain.ExecutionOutcome, error) {
	if req.Program == nil {
		return domain.ExecutionOutcome{}, zerr.With(domain.ErrExecutionFailed, "reason", "nil program")
	}

	var scope domain.HintScope
	if hints != nil {
		for _, hint := range req.Program.HintsBetween(req.Entrypoint.PC, req.Entrypoint.End) {
			err := hints.ExecuteHint(ctx, hint, &scope)
			if err == nil || errors.Is(err, domain.ErrHintNotHandled) {
				continue
			}
			// An error raised from a hint fails the program.
			return domain.ExecutionOutcome{Trapped: true, Message: err.Error(), Scope: scope}, nil
		}
	}

	artifact := req.ArtifactPath
	if len(scope.Handled) > 0 || artifact == "" {
		path, cleanup, err := v.writeProgram(req.Program.WithoutHints(scope.Handled))
		if err != nil {
			return domain.ExecutionOutcome{Scope: scope}, err
		}
		defer cleanup()
		artifact = path
	}

	args := []string{
		artifact,
		"--entrypoint", req.Entrypoint.Name,
		"--layout", v.opts.Layout,
		"--print_output",
	}
	args = append(args, req.Args...)

	res, err := v.runner.Run(ctx, shell.Command{Name: v.opts.Binary, Args: args})
	if ctx.Err() != nil {
		return domain.ExecutionOutcome{Scope: scope}, zerr.With(
			zerr.Wrap(ctx.Err(), domain.ErrExecutionAborted.Error()), "entrypoint", req.Entrypoint.Name,
		)
	}

	outcome := domain.ExecutionOutcome{
		Output: parseOutput(res.Stdout),
		Scope:  scope,
	}
	if err == nil {
		return outcome, nil
	}

	diagnostic := tail(res.Stderr+"\n"+res.Stdout, maxDiagnosticLines)
	if res.ExitCode > 0 && trapPattern.MatchString(diagnostic) {
		outcome.Trapped = true
		outcome.Message = diagnostic
		return outcome, nil
	}

	wrapped := zerr.With(zerr.Wrap(err, domain.ErrExecutionFailed.Error()), "entrypoint", req.Entrypoint.Name)
	if diagnostic != "" {
		wrapped = zerr.With(wrapped, "diagnostic", diagnostic)
	}
	return outcome, wrapped
}

// writeProgram encodes program into a temporary file and returns its path.
func (v *VM) writeProgram(program *domain.Program) (string, func(), error) {
	data, err := program.Encode()
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to encode program")
	}

	f, err := os.CreateTemp(v.opts.TempDir, "foundry-program-*.json")
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to create program file")
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, zerr.With(zerr.Wrap(err, "failed to write program file"), "path", f.Name())
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, zerr.With(zerr.Wrap(err, "failed to close program file"), "path", f.Name())
	}
	return f.Name(), cleanup, nil
}

// parseOutput extracts the values printed after the "Program output:" header.
func parseOutput(stdout string) []string {
	_, after, found := strings.Cut(stdout, outputHeader)
	if !found {
		return nil
	}
	var out []string
	for line := range strings.Lines(after) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
