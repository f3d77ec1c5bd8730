// Package report prints test results as linear, chronological lines.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/foundry/internal/ui/output"
	"go.trai.ch/foundry/internal/ui/style"
)

// Reporter implements ports.Reporter for terminals and CI logs.
type Reporter struct {
	w    io.Writer
	root string

	mu     sync.Mutex
	pass   lipgloss.Style
	fail   lipgloss.Style
	errd   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
}

var _ ports.Reporter = (*Reporter)(nil)

// Option configures a Reporter.
type Option func(*config)

type config struct {
	root    string
	profile func() termenv.Profile
}

// WithRoot prints contract paths relative to root.
func WithRoot(root string) Option {
	return func(c *config) {
		c.root = root
	}
}

// WithProfile fixes the color profile instead of detecting it.
func WithProfile(p termenv.Profile) Option {
	return func(c *config) {
		c.profile = func() termenv.Profile { return p }
	}
}

// NewReporter creates a Reporter writing to w, or to os.Stdout when w is nil.
func NewReporter(w io.Writer, opts ...Option) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	cfg := config{profile: output.ColorProfileANSI}
	for _, opt := range opts {
		opt(&cfg)
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(cfg.profile())

	return &Reporter{
		w:      w,
		root:   cfg.root,
		pass:   style.Pass.Renderer(renderer),
		fail:   style.Fail.Renderer(renderer),
		errd:   style.Errored.Renderer(renderer),
		dim:    style.Dim.Renderer(renderer),
		header: style.Title.Renderer(renderer),
	}
}

// ReportFile prints one line per entrypoint of the contract.
func (r *Reporter) ReportFile(fr domain.FileReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.display(fr.ContractPath)
	if fr.Err != nil {
		r.printf("%s %s %s\n", r.label(domain.TestStatusErrored), name, r.dim.Render(duration(fr.Duration)))
		r.detail(fr.Err.Error())
		return
	}

	suffix := duration(fr.Duration)
	if fr.Cached {
		suffix += " cached"
	}
	r.printf("%s %s %s\n", r.header.Render(style.Dot), name, r.dim.Render(suffix))

	for _, res := range fr.Results {
		r.printf("  %s %s %s\n", r.label(res.Status()), res.Entrypoint, r.dim.Render(duration(res.Duration)))

		switch {
		case res.Errored():
			r.detail(res.Err.Error())
		case !res.Passed:
			if res.Message != "" {
				r.detail(res.Message)
			}
			if len(res.Output) > 0 {
				r.detail("output: " + strings.Join(res.Output, " "))
			}
		}
	}
}

// Summary prints the pass, fail and error counts of the run.
func (r *Reporter) Summary(report *domain.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report == nil {
		return
	}

	passed := fmt.Sprintf("%d passed", report.Passed())
	failed := fmt.Sprintf("%d failed", report.Failed())
	errored := fmt.Sprintf("%d errored", report.Errored())
	if report.Passed() > 0 {
		passed = r.pass.Render(passed)
	}
	if report.Failed() > 0 {
		failed = r.fail.Render(failed)
	}
	if report.Errored() > 0 {
		errored = r.errd.Render(errored)
	}

	icon := r.pass.Render(style.Check)
	if !report.OK() {
		icon = r.fail.Render(style.Cross)
	}

	r.printf("\n%s %s, %s, %s %s\n", icon, passed, failed, errored,
		r.dim.Render("in "+report.Duration.Round(time.Millisecond).String()))
}

func (r *Reporter) label(s domain.TestStatus) string {
	switch s {
	case domain.TestStatusPassed:
		return r.pass.Render(s.Label())
	case domain.TestStatusFailed:
		return r.fail.Render(s.Label())
	default:
		return r.errd.Render(s.Label())
	}
}

func (r *Reporter) detail(msg string) {
	for line := range strings.SplitSeq(strings.TrimRight(msg, "\n"), "\n") {
		r.printf("      %s\n", r.dim.Render(line))
	}
}

func (r *Reporter) display(path string) string {
	if r.root == "" {
		return path
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func duration(d time.Duration) string {
	return "(" + d.Round(time.Millisecond).String() + ")"
}
