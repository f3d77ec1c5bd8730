package ports

import "go.trai.ch/foundry/internal/core/domain"

// Reporter presents test results.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// ReportFile is called once per contract, as soon as it finishes.
	ReportFile(report domain.FileReport)
	// Summary is called once at the end of a run.
	Summary(report *domain.Report)
}
