// Package config provides the configuration loader for foundry.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override the config file.
const EnvPrefix = "FOUNDRY"

// Loader implements ports.ConfigLoader.
// Sources are layered as defaults, foundry.yaml, FOUNDRY_ environment variables and overrides.
type Loader struct {
	logger   ports.Logger
	filename string
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a loader reading domain.ConfigFileName.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger, filename: domain.ConfigFileName}
}

// Load resolves the configuration for the given working directory.
// A missing config file is not an error.
func (l *Loader) Load(cwd string, overrides domain.ConfigOverrides) (*domain.Config, error) {
	v := viper.New()
	l.setDefaults(v)

	path := filepath.Join(cwd, l.filename)
	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := v.MergeConfigMap(file.values()); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyOverrides(v, overrides)

	cfg, err := build(v, cwd)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) setDefaults(v *viper.Viper) {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		l.logger.Warn("user cache directory unavailable, using " + os.TempDir())
		cacheRoot = os.TempDir()
	}

	v.SetDefault(keyCacheDir, cacheRoot)
	v.SetDefault(keyCompiler, domain.DefaultCompilerBinary)
	v.SetDefault(keyVM, domain.DefaultVMBinary)
	v.SetDefault(keyLayout, domain.DefaultLayout)
	v.SetDefault(keyCairoPath, []string{})
	v.SetDefault(keyParallel, runtime.NumCPU())
	v.SetDefault(keyTestPattern, domain.DefaultTestFilePattern)
	v.SetDefault(keyEntrypointPrefix, domain.DefaultEntrypointPrefix)
	v.SetDefault(keyProgramCacheSize, domain.DefaultProgramCacheSize)
}

// readFile decodes the config file strictly. It returns nil when the file does not exist.
func readFile(path string) (*Foundryfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Foundryfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return &file, nil
}

func applyOverrides(v *viper.Viper, o domain.ConfigOverrides) {
	if o.CacheRoot != "" {
		v.Set(keyCacheDir, o.CacheRoot)
	}
	if o.CompilerPath != "" {
		v.Set(keyCompiler, o.CompilerPath)
	}
	if o.VMPath != "" {
		v.Set(keyVM, o.VMPath)
	}
	if o.Layout != "" {
		v.Set(keyLayout, o.Layout)
	}
	if o.Parallelism != 0 {
		v.Set(keyParallel, o.Parallelism)
	}
}

func build(v *viper.Viper, cwd string) (*domain.Config, error) {
	parallel, err := intValue(v, keyParallel)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intValue(v, keyProgramCacheSize)
	if err != nil {
		return nil, err
	}

	cairoPath := stringList(v.Get(keyCairoPath))
	for i, dir := range cairoPath {
		cairoPath[i] = absolute(cwd, dir)
	}

	return &domain.Config{
		CacheRoot:        absolute(cwd, v.GetString(keyCacheDir)),
		CompilerPath:     v.GetString(keyCompiler),
		VMPath:           v.GetString(keyVM),
		Layout:           v.GetString(keyLayout),
		CairoPath:        cairoPath,
		Parallelism:      parallel,
		TestFilePattern:  v.GetString(keyTestPattern),
		EntrypointPrefix: v.GetString(keyEntrypointPrefix),
		ProgramCacheSize: cacheSize,
	}, nil
}

func intValue(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "key", key)
	}
	return n, nil
}

// stringList accepts a list from the config file or a path-list string from the environment.
func stringList(value any) []string {
	if s, ok := value.(string); ok {
		var out []string
		for _, part := range filepath.SplitList(s) {
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return cast.ToStringSlice(value)
}

func absolute(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// Validate reports the first out-of-range value of cfg.
func Validate(cfg *domain.Config) error {
	invalid := func(key string, value any) error {
		return zerr.With(zerr.With(zerr.New(domain.ErrInvalidConfig.Error()), "key", key), "value", value)
	}

	switch {
	case cfg.CacheRoot == "":
		return invalid(keyCacheDir, cfg.CacheRoot)
	case cfg.CompilerPath == "":
		return invalid(keyCompiler, cfg.CompilerPath)
	case cfg.VMPath == "":
		return invalid(keyVM, cfg.VMPath)
	case cfg.Layout == "":
		return invalid(keyLayout, cfg.Layout)
	case cfg.Parallelism < 1:
		return invalid(keyParallel, cfg.Parallelism)
	case cfg.ProgramCacheSize < 1:
		return invalid(keyProgramCacheSize, cfg.ProgramCacheSize)
	case cfg.TestFilePattern == "":
		return invalid(keyTestPattern, cfg.TestFilePattern)
	}
	if _, err := filepath.Match(cfg.TestFilePattern, ""); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "key", keyTestPattern)
	}
	return nil
}
