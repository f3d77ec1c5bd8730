package domain

import "time"

// ExecutionRequest describes a single entrypoint invocation.
type ExecutionRequest struct {
	Program      *Program
	Entrypoint   Entrypoint
	ArtifactPath string
	Args         []string
}

// HintScope is the per-execution state a hint processor may update.
type HintScope struct {
	// ExpectRevert inverts the verdict: the entrypoint passes only if it traps.
	ExpectRevert bool
	// ExpectedRevertMessage, if set, must appear in the trap diagnostic.
	ExpectedRevertMessage string
	// Handled lists the hints resolved by the processor.
	// They are not handed to the virtual machine.
	Handled []Hint
}

// ExecutionOutcome is what the virtual machine reports for a completed run.
type ExecutionOutcome struct {
	// Trapped is true when the program itself failed: an assertion, an
	// invalid memory access, or an error raised from a hint.
	Trapped bool
	Message string
	Output  []string
	Scope   HintScope
}

// TestResult is the verdict for one entrypoint.
type TestResult struct {
	Entrypoint string
	Passed     bool
	Message    string
	// Output holds the values the program printed before its verdict.
	Output   []string
	Duration time.Duration
	// Err is set when the entrypoint could not be run at all.
	Err error
}

// Errored reports whether the entrypoint could not be run.
func (r TestResult) Errored() bool {
	return r.Err != nil
}
