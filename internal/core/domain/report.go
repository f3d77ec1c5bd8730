package domain

import "time"

// FileReport holds the results of all entrypoints of one contract.
type FileReport struct {
	ContractPath string
	Results      []TestResult
	// Err is set when the contract could not be compiled or loaded.
	Err      error
	Cached   bool
	Duration time.Duration
}

// Report aggregates the file reports of a test run.
type Report struct {
	Files    []FileReport
	Duration time.Duration
}

// Passed counts the entrypoints that passed.
func (r *Report) Passed() int {
	n := 0
	for _, f := range r.Files {
		for _, res := range f.Results {
			if res.Passed && !res.Errored() {
				n++
			}
		}
	}
	return n
}

// Failed counts the entrypoints that ran and failed.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		for _, res := range f.Results {
			if !res.Passed && !res.Errored() {
				n++
			}
		}
	}
	return n
}

// Errored counts the entrypoints and contracts that could not be run.
func (r *Report) Errored() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
		for _, res := range f.Results {
			if res.Errored() {
				n++
			}
		}
	}
	return n
}

// OK reports whether every entrypoint ran and passed.
func (r *Report) OK() bool {
	return r.Failed() == 0 && r.Errored() == 0
}
