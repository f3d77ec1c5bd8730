// Package scheduler runs the test files of a test run.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Orchestrator compiles contracts.
type Orchestrator interface {
	CompileAndListEntrypoints(ctx context.Context, contractPath string) (*domain.CompiledContract, error)
}

// EntrypointRunner runs a single entrypoint of a compiled contract.
type EntrypointRunner interface {
	RunCompiled(
		ctx context.Context,
		compiled *domain.CompiledContract,
		name string,
		hints ports.HintProcessor,
	) (domain.TestResult, error)
}

// HintProcessorFactory creates the hint processor of one entrypoint execution.
type HintProcessorFactory func() ports.HintProcessor

// Scheduler runs test files concurrently. Entrypoints of one file run in order.
type Scheduler struct {
	orchestrator Orchestrator
	runner       EntrypointRunner
	reporter     ports.Reporter
	tracer       ports.Tracer
	newHints     HintProcessorFactory

	reportMu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	orchestrator Orchestrator,
	runner EntrypointRunner,
	reporter ports.Reporter,
	tracer ports.Tracer,
	newHints HintProcessorFactory,
) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		runner:       runner,
		reporter:     reporter,
		tracer:       tracer,
		newHints:     newHints,
	}
}

// Run runs files with at most parallelism files in flight.
//
// Contract failures are recorded on the report rather than returned. The
// error is the context error when the run was cancelled; the report then
// holds every file that finished, with unfinished entrypoints marked aborted.
func (s *Scheduler) Run(ctx context.Context, files []string, parallelism int) (*domain.Report, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	ctx, span := s.tracer.Start(ctx, "test_run")
	defer span.End()
	span.SetAttribute("files", len(files))

	start := time.Now()
	reports := make([]domain.FileReport, len(files))

	g := new(errgroup.Group)
	g.SetLimit(parallelism)
	for i, file := range files {
		if ctx.Err() != nil {
			reports[i] = domain.FileReport{
				ContractPath: file,
				Err:          domain.NewTestCommandError(domain.TestErrorAborted, file, ctx.Err()),
			}
			continue
		}
		g.Go(func() error {
			reports[i] = s.runFile(ctx, file)
			s.reportMu.Lock()
			s.reporter.ReportFile(reports[i])
			s.reportMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.Report{Files: reports, Duration: time.Since(start)}
	s.reporter.Summary(report)

	span.SetAttribute("passed", report.Passed())
	span.SetAttribute("failed", report.Failed())
	span.SetAttribute("errored", report.Errored())

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return report, err
	}
	return report, nil
}

func (s *Scheduler) runFile(ctx context.Context, file string) domain.FileReport {
	ctx, span := s.tracer.Start(ctx, "test_file")
	defer span.End()
	span.SetAttribute("contract", file)

	start := time.Now()
	report := domain.FileReport{ContractPath: file}

	compiled, err := s.orchestrator.CompileAndListEntrypoints(ctx, file)
	if err != nil {
		span.RecordError(err)
		report.Err = err
		report.Duration = time.Since(start)
		return report
	}
	report.Cached = compiled.Cached
	span.SetAttribute("cached", compiled.Cached)

	for _, name := range compiled.Entrypoints {
		if ctx.Err() != nil {
			report.Results = append(report.Results, domain.TestResult{
				Entrypoint: name,
				Err: &domain.TestCommandError{
					Kind: domain.TestErrorAborted, Contract: file, Entrypoint: name, Err: ctx.Err(),
				},
			})
			continue
		}

		// Each execution gets its own hint processor.
		res, _ := s.runner.RunCompiled(ctx, compiled, name, s.newHints())
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(start)
	return report
}
