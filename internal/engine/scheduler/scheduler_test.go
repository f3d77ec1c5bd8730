package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/foundry/internal/adapters/hints"
	"go.trai.ch/foundry/internal/adapters/telemetry"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/foundry/internal/core/ports/mocks"
	"go.trai.ch/foundry/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

// fakeOrchestrator returns one compiled contract per file, or the configured error.
type fakeOrchestrator struct {
	entrypoints map[string][]string
	errs        map[string]error
	cached      bool
	delay       time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func (o *fakeOrchestrator) CompileAndListEntrypoints(ctx context.Context, path string) (*domain.CompiledContract, error) {
	n := o.active.Add(1)
	defer o.active.Add(-1)
	for {
		m := o.maxActive.Load()
		if n <= m || o.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := o.errs[path]; err != nil {
		return nil, err
	}
	return &domain.CompiledContract{
		ContractPath: path,
		Program:      &domain.Program{},
		Entrypoints:  o.entrypoints[path],
		Cached:       o.cached,
	}, nil
}

// fakeRunner fails entrypoints whose name is listed in fail.
type fakeRunner struct {
	fail       map[string]bool
	mu         sync.Mutex
	processors []ports.HintProcessor
	order      []string
}

func (r *fakeRunner) RunCompiled(
	_ context.Context,
	compiled *domain.CompiledContract,
	name string,
	hp ports.HintProcessor,
) (domain.TestResult, error) {
	r.mu.Lock()
	r.processors = append(r.processors, hp)
	r.order = append(r.order, compiled.ContractPath+"::"+name)
	r.mu.Unlock()
	return domain.TestResult{Entrypoint: name, Passed: !r.fail[name]}, nil
}

func newHints() ports.HintProcessor {
	return hints.NewProcessor()
}

func newReporter(t *testing.T) *mocks.MockReporter {
	t.Helper()
	ctrl := gomock.NewController(t)
	return mocks.NewMockReporter(ctrl)
}

func TestScheduler_Run(t *testing.T) {
	orch := &fakeOrchestrator{
		entrypoints: map[string][]string{
			"a.cairo": {"test_one", "test_two"},
			"b.cairo": {"test_bad"},
		},
		errs: map[string]error{
			"c.cairo": domain.NewTestCommandError(domain.TestErrorCompile, "c.cairo", errors.New("syntax error")),
		},
	}
	runner := &fakeRunner{fail: map[string]bool{"test_bad": true}}
	reporter := newReporter(t)
	reporter.EXPECT().ReportFile(gomock.Any()).Times(3)
	reporter.EXPECT().Summary(gomock.Any()).Times(1)

	s := scheduler.NewScheduler(orch, runner, reporter, telemetry.NewNoOpTracer(), newHints)
	report, err := s.Run(context.Background(), []string{"a.cairo", "b.cairo", "c.cairo"}, 2)
	require.NoError(t, err)

	require.Len(t, report.Files, 3)
	assert.Equal(t, "a.cairo", report.Files[0].ContractPath)
	assert.Equal(t, "b.cairo", report.Files[1].ContractPath)
	assert.Equal(t, "c.cairo", report.Files[2].ContractPath)
	require.ErrorIs(t, report.Files[2].Err, domain.ErrCompileFailed)

	assert.Equal(t, 2, report.Passed())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 1, report.Errored())
	assert.False(t, report.OK())

	assert.Equal(t, domain.TestStatusPassed, report.Files[0].Results[0].Status())
	assert.Contains(t, statuses(report.Files[1]), domain.TestStatusFailed)
	assert.Empty(t, report.Files[2].Results)
}

func TestScheduler_Run_EntrypointsInOrderWithFreshProcessors(t *testing.T) {
	orch := &fakeOrchestrator{entrypoints: map[string][]string{"a.cairo": {"test_3", "test_1", "test_2"}}, cached: true}
	runner := &fakeRunner{}
	reporter := newReporter(t)
	reporter.EXPECT().ReportFile(gomock.Any()).Times(1)
	reporter.EXPECT().Summary(gomock.Any()).Times(1)

	s := scheduler.NewScheduler(orch, runner, reporter, telemetry.NewNoOpTracer(), newHints)
	report, err := s.Run(context.Background(), []string{"a.cairo"}, 4)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.True(t, report.Files[0].Cached)

	assert.Equal(t, []string{"a.cairo::test_3", "a.cairo::test_1", "a.cairo::test_2"}, runner.order)
	require.Len(t, runner.processors, 3)
	assert.NotSame(t, runner.processors[0], runner.processors[1])
	assert.NotSame(t, runner.processors[1], runner.processors[2])
}

func TestScheduler_Run_RespectsParallelism(t *testing.T) {
	files := []string{"a.cairo", "b.cairo", "c.cairo", "d.cairo", "e.cairo"}
	orch := &fakeOrchestrator{delay: 20 * time.Millisecond}
	reporter := newReporter(t)
	reporter.EXPECT().ReportFile(gomock.Any()).Times(len(files))
	reporter.EXPECT().Summary(gomock.Any()).Times(1)

	s := scheduler.NewScheduler(orch, &fakeRunner{}, reporter, telemetry.NewNoOpTracer(), newHints)
	_, err := s.Run(context.Background(), files, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, orch.maxActive.Load(), int32(2))
	assert.GreaterOrEqual(t, orch.maxActive.Load(), int32(1))
}

func TestScheduler_Run_Cancelled(t *testing.T) {
	files := []string{"a.cairo", "b.cairo", "c.cairo"}
	orch := &fakeOrchestrator{delay: time.Second}
	reporter := newReporter(t)
	reporter.EXPECT().ReportFile(gomock.Any()).AnyTimes()
	reporter.EXPECT().Summary(gomock.Any()).Times(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := scheduler.NewScheduler(orch, &fakeRunner{}, reporter, telemetry.NewNoOpTracer(), newHints)
	report, err := s.Run(ctx, files, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, report.Files, 3)
	assert.Equal(t, len(files), report.Errored())
	assert.Equal(t, 0, report.Passed())
	for _, f := range report.Files {
		if f.Err == nil {
			assert.NotContains(t, statuses(f), domain.TestStatusPassed)
		}
	}
}

func TestScheduler_Run_Empty(t *testing.T) {
	reporter := newReporter(t)
	reporter.EXPECT().Summary(gomock.Any()).Times(1)

	s := scheduler.NewScheduler(&fakeOrchestrator{}, &fakeRunner{}, reporter, telemetry.NewNoOpTracer(), newHints)
	report, err := s.Run(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Files)
}

func statuses(f domain.FileReport) []domain.TestStatus {
	out := make([]domain.TestStatus, 0, len(f.Results))
	for _, res := range f.Results {
		out = append(out, res.Status())
	}
	return out
}
