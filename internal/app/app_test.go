package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/foundry/internal/adapters/cache"
	"go.trai.ch/foundry/internal/adapters/fs"
	"go.trai.ch/foundry/internal/adapters/program"
	"go.trai.ch/foundry/internal/adapters/telemetry"
	"go.trai.ch/foundry/internal/app"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/foundry/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCompiler writes an artifact with one function per `func` line of the source.
type fakeCompiler struct {
	calls atomic.Int32
}

func (c *fakeCompiler) Compile(_ context.Context, contractPath, outputPath string) error {
	c.calls.Add(1)
	src, err := os.ReadFile(contractPath) //nolint:gosec // Test fixture
	if err != nil {
		return err
	}
	if strings.Contains(string(src), "syntax error") {
		return zerr.New(domain.ErrCompileFailed.Error())
	}

	var ids []string
	for pc, line := range strings.Split(strings.TrimSpace(string(src)), "\n") {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), "func ")
		if !ok {
			continue
		}
		name, _, _ = strings.Cut(name, "(")
		ids = append(ids, `"__main__.`+name+`": {"pc": `+strconv.Itoa(pc)+`, "type": "function"}`)
	}
	artifact := `{"data": ["0x1", "0x2", "0x3", "0x4"], "identifiers": {` + strings.Join(ids, ",") + `}}`

	if err := os.MkdirAll(filepath.Dir(outputPath), domain.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(artifact), domain.FilePerm)
}

func (c *fakeCompiler) ListEntrypoints(p *domain.Program) []string {
	var names []string
	for ep := range p.Functions() {
		if strings.HasPrefix(ep.Name, domain.DefaultEntrypointPrefix) {
			names = append(names, ep.Name)
		}
	}
	return names
}

// fakeVM traps every entrypoint whose name contains "fail".
type fakeVM struct{}

func (fakeVM) Execute(
	_ context.Context,
	req domain.ExecutionRequest,
	_ ports.HintProcessor,
) (domain.ExecutionOutcome, error) {
	if strings.Contains(req.Entrypoint.Name, "fail") {
		return domain.ExecutionOutcome{Trapped: true, Message: "An ASSERT_EQ instruction failed"}, nil
	}
	return domain.ExecutionOutcome{}, nil
}

type fixture struct {
	app      *app.App
	loader   *mocks.MockConfigLoader
	watcher  *mocks.MockWatcher
	compiler *fakeCompiler
	out      *bytes.Buffer
	cfg      *domain.Config
	root     string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		compiler: &fakeCompiler{},
		out:      &bytes.Buffer{},
		root:     t.TempDir(),
		cfg: &domain.Config{
			CacheRoot:        t.TempDir(),
			Parallelism:      2,
			TestFilePattern:  domain.DefaultTestFilePattern,
			EntrypointPrefix: domain.DefaultEntrypointPrefix,
			ProgramCacheSize: 4,
		},
	}

	f.app = app.New(
		f.loader,
		log,
		fs.NewDiscoverer(fs.NewWalker()),
		cache.NewStore(),
		fs.NewHasher(),
		fs.NewVerifier(),
		telemetry.NewNoOpTracer(),
		f.watcher,
		nil,
	).WithOutput(f.out).WithToolchainFactory(func(cfg *domain.Config) (app.Toolchain, error) {
		loader, err := program.NewLoader(cfg.ProgramCacheSize)
		if err != nil {
			return app.Toolchain{}, err
		}
		return app.Toolchain{Compiler: f.compiler, Loader: loader, VM: fakeVM{}}, nil
	})
	return f
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApp_Test_Passes(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_add()\nfunc test_sub()\nfunc helper()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil).Times(2)

	err := f.app.Test(t.Context(), app.TestOptions{Root: f.root})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "PASS test_add")
	assert.Contains(t, out, "PASS test_sub")
	assert.NotContains(t, out, "helper")
	assert.Contains(t, out, "2 passed, 0 failed, 0 errored")

	// The second run is served from the cache.
	f.out.Reset()
	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root}))
	assert.Equal(t, int32(1), f.compiler.calls.Load())
	assert.Contains(t, f.out.String(), "cached")
}

func TestApp_Test_NoCache(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_add()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil).Times(2)

	opts := app.TestOptions{Root: f.root, NoCache: true}
	require.NoError(t, f.app.Test(t.Context(), opts))
	require.NoError(t, f.app.Test(t.Context(), opts))

	assert.Equal(t, int32(2), f.compiler.calls.Load())
}

func TestApp_Test_Failures(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_add()\nfunc test_fail()\n")
	f.write(t, "nested/test_broken.cairo", "syntax error\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	err := f.app.Test(t.Context(), app.TestOptions{Root: f.root})
	require.ErrorIs(t, err, domain.ErrTestsFailed)

	out := f.out.String()
	assert.Contains(t, out, "PASS test_add")
	assert.Contains(t, out, "FAIL test_fail")
	assert.Contains(t, out, "ERROR "+filepath.Join("nested", "test_broken.cairo"))
	assert.Contains(t, out, "1 passed, 1 failed, 1 errored")
}

func TestApp_Test_SingleFile(t *testing.T) {
	f := setup(t)
	path := f.write(t, "test_one.cairo", "func test_one()\n")
	f.write(t, "test_other.cairo", "func test_other()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: path}))

	out := f.out.String()
	assert.Contains(t, out, "PASS test_one")
	assert.NotContains(t, out, "test_other")
}

func TestApp_Test_NoFiles(t *testing.T) {
	f := setup(t)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root}))
	assert.Empty(t, f.out.String())
}

func TestApp_Test_ConfigError(t *testing.T) {
	f := setup(t)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(nil, zerr.New("boom"))

	err := f.app.Test(t.Context(), app.TestOptions{Root: f.root})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Test_PassesOverrides(t *testing.T) {
	f := setup(t)
	overrides := domain.ConfigOverrides{Parallelism: 3, CacheRoot: f.cfg.CacheRoot}
	f.loader.EXPECT().Load(".", overrides).Return(f.cfg, nil)

	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root, Overrides: overrides}))
}

func TestApp_Test_Cancelled(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_add()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := f.app.Test(ctx, app.TestOptions{Root: f.root})
	require.Error(t, err)
	assert.ErrorContains(t, err, "test run aborted")
}

func TestApp_Test_Watch(t *testing.T) {
	f := setup(t)
	math := f.write(t, "test_math.cairo", "func test_add()\n")
	f.write(t, "test_other.cairo", "func test_other()\n")
	lib := f.write(t, "lib/util.cairo", "func util()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	var batches [][]string
	f.watcher.EXPECT().Watch(gomock.Any(), f.root, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, onChange func([]string)) error {
			f.out.Reset()
			onChange([]string{math})
			batches = append(batches, []string{f.out.String()})

			f.out.Reset()
			onChange([]string{lib})
			batches = append(batches, []string{f.out.String()})
			return nil
		},
	)

	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root, Watch: true}))
	require.Len(t, batches, 2)

	assert.Contains(t, batches[0][0], "test_add")
	assert.NotContains(t, batches[0][0], "test_other", "only the changed test file reruns")

	assert.Contains(t, batches[1][0], "test_add")
	assert.Contains(t, batches[1][0], "test_other", "a library change reruns every test file")
}

func TestApp_Test_WatchKeepsGoingOnFailure(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_fail()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)
	f.watcher.EXPECT().Watch(gomock.Any(), f.root, gomock.Any()).Return(nil)

	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root, Watch: true}))
}

func TestApp_Clean(t *testing.T) {
	f := setup(t)
	cacheDir := domain.CachePath(f.cfg.CacheRoot)
	require.NoError(t, os.MkdirAll(domain.CompiledPath(f.cfg.CacheRoot), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "test_math.json"), []byte("{}"), 0o600))
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))

	_, err := os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(f.cfg.CacheRoot)
	assert.NoError(t, err, "the cache root itself is kept")
}

func TestApp_Clean_ConfigError(t *testing.T) {
	f := setup(t)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(nil, zerr.New("boom"))

	assert.ErrorContains(t, f.app.Clean(t.Context(), app.CleanOptions{}), "failed to load configuration")
}

func TestApp_Test_TraceFile(t *testing.T) {
	f := setup(t)
	f.write(t, "test_math.cairo", "func test_add()\n")
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	exporter := mocks.NewMockTraceExporter(gomock.NewController(t))
	var stopped bool
	exporter.EXPECT().Export(gomock.Any()).DoAndReturn(func(w io.Writer) (func(context.Context) error, error) {
		_, err := io.WriteString(w, "{\"Name\":\"test_run\"}\n")
		return func(context.Context) error {
			stopped = true
			return nil
		}, err
	})
	f.app.WithTraceExporter(exporter)

	traceFile := filepath.Join(t.TempDir(), "trace.jsonl")
	require.NoError(t, f.app.Test(t.Context(), app.TestOptions{Root: f.root, TraceFile: traceFile}))

	assert.True(t, stopped)
	data, err := os.ReadFile(traceFile) //nolint:gosec // Test fixture
	require.NoError(t, err)
	assert.Contains(t, string(data), "test_run")
}

func TestApp_Test_TraceFileWithoutExporter(t *testing.T) {
	f := setup(t)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(f.cfg, nil)

	err := f.app.Test(t.Context(), app.TestOptions{Root: f.root, TraceFile: filepath.Join(t.TempDir(), "trace.jsonl")})
	assert.ErrorContains(t, err, "trace export is not available")
}
