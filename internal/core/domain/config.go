package domain

// Config holds the resolved runtime configuration.
type Config struct {
	// CacheRoot is the directory under which CacheDirName is created.
	CacheRoot    string
	CompilerPath string
	VMPath       string
	Layout       string
	// CairoPath lists extra import directories handed to the compiler.
	CairoPath        []string
	Parallelism      int
	TestFilePattern  string
	EntrypointPrefix string
	ProgramCacheSize int
}

// ConfigOverrides carries values given explicitly on the command line.
// Zero fields are unset.
type ConfigOverrides struct {
	CacheRoot    string
	CompilerPath string
	VMPath       string
	Layout       string
	Parallelism  int
}

const (
	// DefaultCompilerBinary is the Cairo compiler executable.
	DefaultCompilerBinary = "cairo-compile"
	// DefaultVMBinary is the Cairo virtual machine executable.
	DefaultVMBinary = "cairo-vm-cli"
	// DefaultLayout is the builtin layout entrypoints run with.
	DefaultLayout = "all_cairo"
	// DefaultProgramCacheSize is the number of decoded programs kept in memory.
	DefaultProgramCacheSize = 64
)
