package domain

import "strings"

// TestStatus is the verdict shown for an entrypoint or a contract in a report.
type TestStatus string

const (
	// TestStatusPassed indicates the entrypoint ran and did not trap, or trapped as expected.
	TestStatusPassed TestStatus = "pass"
	// TestStatusFailed indicates the entrypoint ran and its own assertions failed.
	TestStatusFailed TestStatus = "fail"
	// TestStatusErrored indicates the entrypoint or contract could not be run.
	TestStatusErrored TestStatus = "error"
)

// Status returns the verdict of the result.
func (r TestResult) Status() TestStatus {
	switch {
	case r.Errored():
		return TestStatusErrored
	case r.Passed:
		return TestStatusPassed
	default:
		return TestStatusFailed
	}
}

// Label returns the upper-case label used in reports.
func (s TestStatus) Label() string {
	return strings.ToUpper(string(s))
}
