package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidContractExtension is returned when a contract path does not end in ContractExtension.
	ErrInvalidContractExtension = zerr.New("invalid contract extension")

	// ErrCacheFileNotFound is returned when no cache record exists at the resolved path.
	ErrCacheFileNotFound = zerr.New("cache file not found")

	// ErrCacheDeserialize is returned when a cache record exists but cannot be decoded.
	ErrCacheDeserialize = zerr.New("failed to deserialize cache file")

	// ErrCacheIO is returned when a cache record cannot be read or written for any other reason.
	ErrCacheIO = zerr.New("cache file i/o failed")

	// ErrCompileFailed is returned when the external compiler rejects a contract.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrProgramParse is returned when a compiled artifact cannot be decoded into a program.
	ErrProgramParse = zerr.New("failed to parse compiled program")

	// ErrEntrypointNotFound is returned when the requested entrypoint is not a function of the program.
	ErrEntrypointNotFound = zerr.New("entrypoint not found")

	// ErrExecutionFailed is returned when the virtual machine could not run an entrypoint.
	ErrExecutionFailed = zerr.New("entrypoint execution failed")

	// ErrExecutionAborted is returned when execution was cancelled before completion.
	ErrExecutionAborted = zerr.New("entrypoint execution aborted")

	// ErrHintNotHandled is returned by a hint processor for hints it leaves to the virtual machine.
	ErrHintNotHandled = zerr.New("hint not handled")

	// ErrTestsFailed is returned by the test command when at least one entrypoint failed or errored.
	ErrTestsFailed = zerr.New("tests failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrDiscoveryFailed is returned when the test root cannot be walked.
	ErrDiscoveryFailed = zerr.New("failed to discover test files")
)

// CacheErrorKind discriminates the failures of the cache subsystem.
type CacheErrorKind int

const (
	// CacheErrorInvalidContractExtension marks a contract path with a missing or foreign extension.
	CacheErrorInvalidContractExtension CacheErrorKind = iota + 1
	// CacheErrorFileNotFound marks a missing cache record.
	CacheErrorFileNotFound
	// CacheErrorDeserialize marks a cache record that exists but is malformed.
	CacheErrorDeserialize
	// CacheErrorIO marks any other read or write failure.
	CacheErrorIO
)

// String returns the name of the kind.
func (k CacheErrorKind) String() string {
	switch k {
	case CacheErrorInvalidContractExtension:
		return "InvalidContractExtension"
	case CacheErrorFileNotFound:
		return "FileNotFoundError"
	case CacheErrorDeserialize:
		return "DeserializeError"
	case CacheErrorIO:
		return "IOError"
	default:
		return fmt.Sprintf("CacheErrorKind(%d)", int(k))
	}
}

func (k CacheErrorKind) sentinel() error {
	switch k {
	case CacheErrorInvalidContractExtension:
		return ErrInvalidContractExtension
	case CacheErrorFileNotFound:
		return ErrCacheFileNotFound
	case CacheErrorDeserialize:
		return ErrCacheDeserialize
	default:
		return ErrCacheIO
	}
}

// CacheError is the error returned by the cache path resolver and the cache store.
type CacheError struct {
	Kind CacheErrorKind
	// Path is the contract path for InvalidContractExtension, the record path otherwise.
	Path string
	// Extension is the rejected extension. Empty when the path had none.
	Extension string
	// Err is the underlying diagnostic, if any.
	Err error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.sentinel().Error(), e.Path)
	if e.Kind == CacheErrorInvalidContractExtension {
		ext := e.Extension
		if ext == "" {
			ext = "<none>"
		}
		msg = fmt.Sprintf("%s (got %s, want %s)", msg, ext, ContractExtension)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying diagnostic.
func (e *CacheError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind.
func (e *CacheError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Recoverable reports whether the compile orchestrator can continue by compiling afresh.
func (e *CacheError) Recoverable() bool {
	return e.Kind != CacheErrorInvalidContractExtension
}

// TestErrorKind discriminates the infrastructure failures of a test run.
type TestErrorKind int

const (
	// TestErrorInvalidContract marks a contract path rejected by the cache path resolver.
	TestErrorInvalidContract TestErrorKind = iota + 1
	// TestErrorCompile marks a compiler failure.
	TestErrorCompile
	// TestErrorProgramParse marks a compiled artifact that cannot be decoded.
	TestErrorProgramParse
	// TestErrorEntrypointNotFound marks a missing entrypoint.
	TestErrorEntrypointNotFound
	// TestErrorExecution marks a virtual machine fault unrelated to the contract's own assertions.
	TestErrorExecution
	// TestErrorAborted marks an execution cancelled by the caller.
	TestErrorAborted
)

// String returns the name of the kind.
func (k TestErrorKind) String() string {
	switch k {
	case TestErrorInvalidContract:
		return "InvalidContract"
	case TestErrorCompile:
		return "Compile"
	case TestErrorProgramParse:
		return "ProgramParse"
	case TestErrorEntrypointNotFound:
		return "EntrypointNotFound"
	case TestErrorExecution:
		return "Execution"
	case TestErrorAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("TestErrorKind(%d)", int(k))
	}
}

func (k TestErrorKind) sentinel() error {
	switch k {
	case TestErrorInvalidContract:
		return ErrInvalidContractExtension
	case TestErrorCompile:
		return ErrCompileFailed
	case TestErrorProgramParse:
		return ErrProgramParse
	case TestErrorEntrypointNotFound:
		return ErrEntrypointNotFound
	case TestErrorAborted:
		return ErrExecutionAborted
	default:
		return ErrExecutionFailed
	}
}

// TestCommandError reports that a contract or an entrypoint could not be tested.
// A contract that ran and failed its own assertions is not a TestCommandError.
type TestCommandError struct {
	Kind       TestErrorKind
	Contract   string
	Entrypoint string
	Err        error
}

// NewTestCommandError creates a TestCommandError for the contract.
func NewTestCommandError(kind TestErrorKind, contract string, err error) *TestCommandError {
	return &TestCommandError{Kind: kind, Contract: contract, Err: err}
}

// Error implements the error interface.
func (e *TestCommandError) Error() string {
	msg := e.Kind.sentinel().Error()
	switch {
	case e.Contract != "" && e.Entrypoint != "":
		msg = fmt.Sprintf("%s: %s::%s", msg, e.Contract, e.Entrypoint)
	case e.Contract != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Contract)
	case e.Entrypoint != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Entrypoint)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying diagnostic.
func (e *TestCommandError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind.
func (e *TestCommandError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
