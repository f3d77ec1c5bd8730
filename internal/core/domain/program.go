package domain

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// IdentifierTypeFunction is the identifier type of a callable function.
const IdentifierTypeFunction = "function"

// Hint is a block of hint code attached to a program counter.
type Hint struct {
	PC               int             `json:"-"`
	Code             string          `json:"code"`
	AccessibleScopes []string        `json:"accessible_scopes"`
	FlowTrackingData json.RawMessage `json:"flow_tracking_data,omitempty"`
}

// Identifier is an entry of the program's identifier table.
// Only the fields needed to locate functions are decoded.
type Identifier struct {
	Type       string   `json:"type"`
	PC         *int     `json:"pc,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
}

// Entrypoint is a function of the main scope that can be invoked on its own.
type Entrypoint struct {
	Name string
	// PC is the program counter of the first instruction.
	PC int
	// End is the exclusive upper bound of the function body.
	End int
}

// Program is a deserialized compiled artifact.
// Keys the runner does not interpret are kept verbatim so the program can be re-encoded.
type Program struct {
	Prime           string
	Builtins        []string
	Data            []string
	Hints           map[int][]Hint
	Identifiers     map[string]Identifier
	MainScope       string
	CompilerVersion string

	raw map[string]json.RawMessage
}

type programJSON struct {
	Prime           string                `json:"prime"`
	Builtins        []string              `json:"builtins"`
	Data            []string              `json:"data"`
	Hints           map[string][]Hint     `json:"hints"`
	Identifiers     map[string]Identifier `json:"identifiers"`
	MainScope       string                `json:"main_scope"`
	CompilerVersion string                `json:"compiler_version"`
}

// UnmarshalJSON decodes a compiled program.
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var pj programJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	if pj.Data == nil {
		return zerr.With(zerr.New("program has no data section"), "field", "data")
	}

	hints := make(map[int][]Hint, len(pj.Hints))
	for key, list := range pj.Hints {
		pc, err := strconv.Atoi(key)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid hint pc"), "pc", key)
		}
		for i := range list {
			list[i].PC = pc
		}
		hints[pc] = list
	}

	mainScope := pj.MainScope
	if mainScope == "" {
		mainScope = DefaultMainScope
	}

	*p = Program{
		Prime:           pj.Prime,
		Builtins:        pj.Builtins,
		Data:            pj.Data,
		Hints:           hints,
		Identifiers:     pj.Identifiers,
		MainScope:       mainScope,
		CompilerVersion: pj.CompilerVersion,
		raw:             raw,
	}
	return nil
}

// Encode serializes the program, writing the current hint table over the original one.
func (p *Program) Encode() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.raw)+1)
	maps.Copy(out, p.raw)

	hints := make(map[string][]Hint, len(p.Hints))
	for pc, list := range p.Hints {
		hints[strconv.Itoa(pc)] = list
	}
	encoded, err := json.Marshal(hints)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode hints")
	}
	out["hints"] = encoded

	if _, ok := out["data"]; !ok {
		data, err := json.Marshal(p.Data)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode data")
		}
		out["data"] = data
	}

	return json.Marshal(out)
}

// Functions yields the functions of the main scope ordered by program counter.
func (p *Program) Functions() iter.Seq[Entrypoint] {
	return func(yield func(Entrypoint) bool) {
		for _, ep := range p.functions() {
			if !yield(ep) {
				return
			}
		}
	}
}

func (p *Program) functions() []Entrypoint {
	prefix := p.MainScope + "."
	var fns []Entrypoint
	for name, id := range p.Identifiers {
		if id.Type != IdentifierTypeFunction || id.PC == nil {
			continue
		}
		short, ok := strings.CutPrefix(name, prefix)
		if !ok || strings.Contains(short, ".") {
			continue
		}
		fns = append(fns, Entrypoint{Name: short, PC: *id.PC})
	}

	slices.SortFunc(fns, func(a, b Entrypoint) int {
		if a.PC != b.PC {
			return a.PC - b.PC
		}
		return strings.Compare(a.Name, b.Name)
	})

	// A function body runs until the next function, or the end of the bytecode.
	for i := range fns {
		fns[i].End = len(p.Data)
		if i+1 < len(fns) {
			fns[i].End = fns[i+1].PC
		}
	}
	return fns
}

// Entrypoint looks up a function of the main scope by its short name.
func (p *Program) Entrypoint(name string) (Entrypoint, bool) {
	for _, ep := range p.functions() {
		if ep.Name == name {
			return ep, true
		}
	}
	return Entrypoint{}, false
}

// HintsBetween returns the hints attached to program counters in [start, end), ordered by pc.
func (p *Program) HintsBetween(start, end int) []Hint {
	var out []Hint
	for _, pc := range slices.Sorted(maps.Keys(p.Hints)) {
		if pc < start || pc >= end {
			continue
		}
		out = append(out, p.Hints[pc]...)
	}
	return out
}

// WithoutHints returns a copy of the program with the given hints removed.
// Hints are matched by pc and code.
func (p *Program) WithoutHints(hints []Hint) *Program {
	type key struct {
		pc   int
		code string
	}
	drop := make(map[key]struct{}, len(hints))
	for _, h := range hints {
		drop[key{h.PC, h.Code}] = struct{}{}
	}

	cp := *p
	cp.Hints = make(map[int][]Hint, len(p.Hints))
	for pc, list := range p.Hints {
		var kept []Hint
		for _, h := range list {
			if _, ok := drop[key{pc, h.Code}]; ok {
				continue
			}
			kept = append(kept, h)
		}
		if len(kept) > 0 {
			cp.Hints[pc] = kept
		}
	}
	return &cp
}
