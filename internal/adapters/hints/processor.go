// Package hints resolves the test hints understood by foundry.
package hints

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

// ExpectRevert is the hint marking an entrypoint that must trap.
const ExpectRevert = "expect_revert"

var _ ports.HintProcessor = (*Processor)(nil)

// Func handles a hint call. args are the decoded string literal arguments.
type Func func(ctx context.Context, args []string, scope *domain.HintScope) error

var callPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)

// Processor resolves hints written as a single call, such as expect_revert("msg").
// Any other hint is left to the virtual machine.
type Processor struct {
	funcs map[string]Func
}

// NewProcessor creates a Processor with the builtin foundry hints registered.
func NewProcessor() *Processor {
	p := &Processor{funcs: make(map[string]Func)}
	p.Register(ExpectRevert, expectRevert)
	return p
}

// Register adds or replaces the handler for name.
func (p *Processor) Register(name string, fn Func) {
	p.funcs[name] = fn
}

// ExecuteHint runs hint against scope.
// Handled hints are appended to scope.Handled.
func (p *Processor) ExecuteHint(ctx context.Context, hint domain.Hint, scope *domain.HintScope) error {
	name, args, ok := parseCall(hint.Code)
	if !ok {
		return domain.ErrHintNotHandled
	}
	fn, ok := p.funcs[name]
	if !ok {
		return domain.ErrHintNotHandled
	}
	if err := fn(ctx, args, scope); err != nil {
		return zerr.With(zerr.With(err, "hint", name), "pc", hint.PC)
	}
	scope.Handled = append(scope.Handled, hint)
	return nil
}

// parseCall decodes `name(args...)`, where every argument is a string literal.
func parseCall(code string) (string, []string, bool) {
	m := callPattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", nil, false
	}
	args, ok := parseArgs(m[2])
	if !ok {
		return "", nil, false
	}
	return m[1], args, true
}

func parseArgs(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	var args []string
	for s != "" {
		lit, rest, ok := cutLiteral(s)
		if !ok {
			return nil, false
		}
		args = append(args, lit)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		after, found := strings.CutPrefix(rest, ",")
		if !found {
			return nil, false
		}
		s = strings.TrimSpace(after)
	}
	return args, true
}

// cutLiteral splits a leading quoted string literal from s.
func cutLiteral(s string) (string, string, bool) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", "", false
	}
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			body := s[1:i]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			lit, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return "", "", false
			}
			return lit, s[i+1:], true
		}
	}
	return "", "", false
}

func expectRevert(_ context.Context, args []string, scope *domain.HintScope) error {
	if len(args) > 1 {
		return zerr.With(zerr.New("expect_revert takes at most one argument"), "args", len(args))
	}
	scope.ExpectRevert = true
	if len(args) == 1 {
		scope.ExpectedRevertMessage = args[0]
	}
	return nil
}
