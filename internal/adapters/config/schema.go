package config

// Foundryfile represents the structure of the foundry.yaml configuration file.
type Foundryfile struct {
	CacheDir         string   `yaml:"cache_dir"`
	Compiler         string   `yaml:"compiler"`
	VM               string   `yaml:"vm"`
	Layout           string   `yaml:"layout"`
	CairoPath        []string `yaml:"cairo_path"`
	Parallel         int      `yaml:"parallel"`
	TestPattern      string   `yaml:"test_pattern"`
	EntrypointPrefix string   `yaml:"entrypoint_prefix"`
	ProgramCacheSize int      `yaml:"program_cache_size"`
}

// Viper keys. They double as the FOUNDRY_ environment variable suffixes.
const (
	keyCacheDir         = "cache_dir"
	keyCompiler         = "compiler"
	keyVM               = "vm"
	keyLayout           = "layout"
	keyCairoPath        = "cairo_path"
	keyParallel         = "parallel"
	keyTestPattern      = "test_pattern"
	keyEntrypointPrefix = "entrypoint_prefix"
	keyProgramCacheSize = "program_cache_size"
)

// values returns the fields set in the file, keyed for viper.
func (f *Foundryfile) values() map[string]any {
	out := make(map[string]any)
	setString := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	setString(keyCacheDir, f.CacheDir)
	setString(keyCompiler, f.Compiler)
	setString(keyVM, f.VM)
	setString(keyLayout, f.Layout)
	setString(keyTestPattern, f.TestPattern)
	setString(keyEntrypointPrefix, f.EntrypointPrefix)
	if f.CairoPath != nil {
		out[keyCairoPath] = f.CairoPath
	}
	if f.Parallel != 0 {
		out[keyParallel] = f.Parallel
	}
	if f.ProgramCacheSize != 0 {
		out[keyProgramCacheSize] = f.ProgramCacheSize
	}
	return out
}
