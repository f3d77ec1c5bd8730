// Package app implements the application layer for foundry.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/foundry/internal/adapters/cache"    //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/compiler" //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/hints"    //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/program"  //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/report"   //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/shell"    //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/adapters/vm"       //nolint:depguard // Wired in app layer
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/foundry/internal/engine/orchestrator"
	"go.trai.ch/foundry/internal/engine/runner"
	"go.trai.ch/foundry/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Toolchain holds the components that drive the external Cairo tools.
type Toolchain struct {
	Compiler ports.Compiler
	Loader   ports.ProgramLoader
	VM       ports.VirtualMachine
}

// ToolchainFactory builds the toolchain for a resolved configuration.
type ToolchainFactory func(cfg *domain.Config) (Toolchain, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	discoverer   ports.TestDiscoverer
	store        ports.CacheStore
	hasher       ports.Hasher
	verifier     ports.Verifier
	tracer       ports.Tracer
	exporter     ports.TraceExporter
	watcher      ports.Watcher
	toolchain    ToolchainFactory
	stdout       io.Writer
}

// New creates a new App instance. The toolchain drives the Cairo tools through shellRunner.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	discoverer ports.TestDiscoverer,
	store ports.CacheStore,
	hasher ports.Hasher,
	verifier ports.Verifier,
	tracer ports.Tracer,
	watcher ports.Watcher,
	shellRunner *shell.Runner,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		discoverer:   discoverer,
		store:        store,
		hasher:       hasher,
		verifier:     verifier,
		tracer:       tracer,
		watcher:      watcher,
		toolchain:    shellToolchain(shellRunner),
		stdout:       os.Stdout,
	}
}

// WithToolchainFactory replaces the toolchain. This is primarily used for testing.
func (a *App) WithToolchainFactory(f ToolchainFactory) *App {
	a.toolchain = f
	return a
}

// WithOutput sets where the test report is written.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithTraceExporter enables TestOptions.TraceFile.
func (a *App) WithTraceExporter(e ports.TraceExporter) *App {
	a.exporter = e
	return a
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

func shellToolchain(r *shell.Runner) ToolchainFactory {
	return func(cfg *domain.Config) (Toolchain, error) {
		loader, err := program.NewLoader(cfg.ProgramCacheSize)
		if err != nil {
			return Toolchain{}, err
		}
		return Toolchain{
			Compiler: compiler.New(r, compiler.Options{
				Binary:           cfg.CompilerPath,
				CairoPath:        cfg.CairoPath,
				EntrypointPrefix: cfg.EntrypointPrefix,
			}),
			Loader: loader,
			VM: vm.New(r, vm.Options{
				Binary: cfg.VMPath,
				Layout: cfg.Layout,
			}),
		}, nil
	}
}

// TestOptions configuration for the Test method.
type TestOptions struct {
	// Root is the directory or contract file to test. Defaults to ".".
	Root      string
	NoCache   bool
	Watch     bool
	// TraceFile, if set, receives the spans of the run as JSON lines.
	TraceFile string
	Overrides domain.ConfigOverrides
}

// session is the set of run-scoped components of one test invocation.
type session struct {
	cfg       *domain.Config
	root      string
	scheduler *scheduler.Scheduler
}

// Test compiles and runs every test contract below the root.
// It returns domain.ErrTestsFailed when an entrypoint failed or could not run.
func (a *App) Test(ctx context.Context, opts TestOptions) error {
	s, err := a.newSession(opts)
	if err != nil {
		return err
	}

	if opts.TraceFile != "" {
		stop, err := a.exportTraces(opts.TraceFile)
		if err != nil {
			return err
		}
		defer stop()
	}

	files, err := a.discoverer.Discover(s.root, s.cfg.TestFilePattern)
	if err != nil {
		return err
	}

	ok, err := a.runFiles(ctx, s, files)
	if opts.Watch {
		if err != nil {
			a.logger.Error(err)
		}
		return a.watch(ctx, s)
	}
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTestsFailed
	}
	return nil
}

func (a *App) newSession(opts TestOptions) (*session, error) {
	cfg, err := a.configLoader.Load(".", opts.Overrides)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve test root"), "root", opts.Root)
	}

	tc, err := a.toolchain(cfg)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to set up toolchain")
	}

	orch := orchestrator.New(
		cache.NewResolver(cfg.CacheRoot),
		a.store,
		a.hasher,
		a.verifier,
		tc.Compiler,
		tc.Loader,
		a.logger,
		a.tracer,
		orchestrator.WithNoCache(opts.NoCache),
	)
	reporterRoot := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		reporterRoot = filepath.Dir(root)
	}
	sched := scheduler.NewScheduler(
		orch,
		runner.New(tc.VM, a.tracer),
		report.NewReporter(a.stdout, report.WithRoot(reporterRoot)),
		a.tracer,
		func() ports.HintProcessor { return hints.NewProcessor() },
	)

	return &session{cfg: cfg, root: root, scheduler: sched}, nil
}

// exportTraces streams the spans of the run to path. The returned function detaches the exporter.
func (a *App) exportTraces(path string) (func(), error) {
	if a.exporter == nil {
		return nil, zerr.New("trace export is not available")
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create trace file"), "path", path)
	}
	stopExport, err := a.exporter.Export(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() {
		if err := stopExport(context.Background()); err != nil {
			a.logger.Warn(err.Error())
		}
		if err := f.Close(); err != nil {
			a.logger.Warn(zerr.With(zerr.Wrap(err, "failed to close trace file"), "path", path).Error())
		}
	}, nil
}

// runFiles runs files and reports whether every entrypoint passed.
func (a *App) runFiles(ctx context.Context, s *session, files []string) (bool, error) {
	if len(files) == 0 {
		a.logger.Warn(fmt.Sprintf("no test files matching %s found in %s", s.cfg.TestFilePattern, s.root))
		return true, nil
	}

	rep, err := s.scheduler.Run(ctx, files, s.cfg.Parallelism)
	if err != nil {
		return false, zerr.Wrap(err, "test run aborted")
	}
	return rep.OK(), nil
}

// watch reruns the affected test files on every batch of changes until ctx is done.
func (a *App) watch(ctx context.Context, s *session) error {
	watchRoot := s.root
	if info, err := os.Stat(s.root); err == nil && !info.IsDir() {
		watchRoot = filepath.Dir(s.root)
	}
	a.logger.Info("watching " + watchRoot + " for changes")

	err := a.watcher.Watch(ctx, watchRoot, func(paths []string) {
		files, err := a.affected(s, paths)
		if err != nil {
			a.logger.Error(err)
			return
		}
		if _, err := a.runFiles(ctx, s, files); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	})
	if err != nil {
		return zerr.Wrap(err, "watch failed")
	}
	return nil
}

// affected returns the test files to rerun for the changed paths.
// A change to any other contract may be an import, so every test file reruns.
func (a *App) affected(s *session, changed []string) ([]string, error) {
	all, err := a.discoverer.Discover(s.root, s.cfg.TestFilePattern)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range changed {
		if !slices.Contains(all, path) {
			return all, nil
		}
		files = append(files, path)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Overrides domain.ConfigOverrides
}

// Clean removes the cache directory with every cache record and compiled artifact.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.configLoader.Load(".", opts.Overrides)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	path := domain.CachePath(cfg.CacheRoot)
	a.logger.Info("removing " + path)
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache"), "path", path)
	}
	a.logger.Info("removed compilation cache")
	return nil
}
