package domain

import "path/filepath"

const (
	// CacheDirName is the name of the cache directory created under the cache root.
	CacheDirName = "cairo-foundry-cache"

	// CompiledDirName is the name of the directory holding compiled artifacts.
	// It lives inside CacheDirName.
	CompiledDirName = "compiled"

	// ContractExtension is the only file extension accepted for contract sources.
	ContractExtension = ".cairo"

	// CacheRecordExtension is the extension of cache record files.
	CacheRecordExtension = ".json"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "foundry.yaml"

	// DefaultTestFilePattern matches the contract files that contain tests.
	DefaultTestFilePattern = "test_*.cairo"

	// DefaultEntrypointPrefix selects the functions run as tests.
	DefaultEntrypointPrefix = "test_"

	// DefaultMainScope is the identifier scope of a program's own functions.
	DefaultMainScope = "__main__"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CachePath returns the cache directory under the given root.
func CachePath(root string) string {
	return filepath.Join(root, CacheDirName)
}

// CompiledPath returns the compiled artifact directory under the given root.
func CompiledPath(root string) string {
	return filepath.Join(root, CacheDirName, CompiledDirName)
}
