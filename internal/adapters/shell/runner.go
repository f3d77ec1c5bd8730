// Package shell runs the external toolchain binaries.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

const waitDelay = time.Second

// Command describes a single subprocess invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Path lists directories prepended to PATH.
	Path []string
	// Env overrides entries of the inherited environment.
	Env map[string]string
	// Stream mirrors output lines to the logger as they arrive.
	Stream bool
}

// Result is the captured outcome of a finished command.
type Result struct {
	// ExitCode is -1 when the process did not exit normally.
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs commands with os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the command and waits for it to complete.
// Output is always captured. A non-zero exit is returned as an error along
// with the populated Result.
func (r *Runner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Name == "" {
		return Result{ExitCode: -1}, zerr.New("empty command")
	}

	// Construct the final environment
	cmdEnv := resolveEnvironment(os.Environ(), c.Path, c.Env)

	// Resolve the executable path using the new environment's PATH
	executable := c.Name
	if !filepath.IsAbs(c.Name) && !strings.ContainsRune(c.Name, filepath.Separator) {
		if lp, err := lookPath(c.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // toolchain binary from configuration

	// Preserve the original command name in Args[0]
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Name
	}
	cmd.Dir = c.Dir
	cmd.Env = cmdEnv
	// Children that inherited the output pipes must not keep a cancelled run alive.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stream && r.logger != nil {
		stdoutLog := &logWriter{logger: r.logger, level: "info"}
		stderrLog := &logWriter{logger: r.logger, level: "warn"}
		defer func() {
			_ = stdoutLog.Close()
			_ = stderrLog.Close()
		}()
		cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
		cmd.Stderr = io.MultiWriter(&stderr, stderrLog)
	}

	err := cmd.Run()
	res := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			res.ExitCode = -1
			return res, zerr.With(zerr.Wrap(err, "failed to start command"), "command", c.Name)
		}
		return res, zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", c.Name), "exit_code", res.ExitCode)
	}

	return res, nil
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	switch w.level {
	case "info":
		w.logger.Info(msg)
	default:
		w.logger.Warn(msg)
	}
}

// resolveEnvironment merges environment variables with the defined priority.
// Extra path directories are prepended to the system PATH.
func resolveEnvironment(sysEnv, path []string, overrides map[string]string) []string {
	// 1. Start with System Environment
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	// 2. Prepend extra PATH entries
	if len(path) > 0 {
		joined := strings.Join(path, string(os.PathListSeparator))
		if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
			envMap["PATH"] = joined + string(os.PathListSeparator) + sysPath
		} else {
			envMap["PATH"] = joined
		}
	}

	// 3. Apply Overrides
	for k, v := range overrides {
		envMap[k] = v
	}

	// Convert to slice
	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
