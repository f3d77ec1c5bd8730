// Package compiler drives the external Cairo compiler.
package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/foundry/internal/adapters/shell"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxDiagnosticLines bounds the compiler output attached to errors.
const maxDiagnosticLines = 20

var _ ports.Compiler = (*Compiler)(nil)

// Options configures the compiler invocation.
type Options struct {
	// Binary is the compiler executable, resolved through PATH when relative.
	Binary string
	// CairoPath lists extra import directories.
	CairoPath []string
	// EntrypointPrefix selects the functions reported as tests.
	EntrypointPrefix string
}

// Compiler runs cairo-compile in a subprocess.
type Compiler struct {
	runner *shell.Runner
	opts   Options
}

// New creates a Compiler.
func New(runner *shell.Runner, opts Options) *Compiler {
	if opts.Binary == "" {
		opts.Binary = domain.DefaultCompilerBinary
	}
	if opts.EntrypointPrefix == "" {
		opts.EntrypointPrefix = domain.DefaultEntrypointPrefix
	}
	return &Compiler{runner: runner, opts: opts}
}

// Compile compiles the contract and writes the artifact to outputPath.
func (c *Compiler) Compile(ctx context.Context, contractPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create artifact directory"), "path", filepath.Dir(outputPath))
	}

	args := []string{contractPath, "--output", outputPath}
	if len(c.opts.CairoPath) > 0 {
		args = append(args, "--cairo_path", strings.Join(c.opts.CairoPath, ":"))
	}

	res, err := c.runner.Run(ctx, shell.Command{
		Name:   c.opts.Binary,
		Args:   args,
		Stream: true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return zerr.Wrap(ctx.Err(), domain.ErrCompileFailed.Error())
		}
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "contract", contractPath)
		if diag := tail(res.Stderr, maxDiagnosticLines); diag != "" {
			wrapped = zerr.With(wrapped, "diagnostic", diag)
		}
		return wrapped
	}

	if _, err := os.Stat(outputPath); err != nil {
		return zerr.With(zerr.Wrap(err, "compiler produced no artifact"), "path", outputPath)
	}
	return nil
}

// ListEntrypoints returns the main-scope functions whose name carries the
// configured prefix, in program-counter order.
func (c *Compiler) ListEntrypoints(program *domain.Program) []string {
	if program == nil {
		return nil
	}
	var names []string
	for ep := range program.Functions() {
		if strings.HasPrefix(ep.Name, c.opts.EntrypointPrefix) {
			names = append(names, ep.Name)
		}
	}
	return names
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
