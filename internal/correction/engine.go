package correction

import (
	"fmt"
	"sync"
)

// Engine holds the compiled rule table and document-ID grammar.
type Engine struct {
	rules   []compiledRule
	grammar *compiledGrammar
}

// NewEngine validates and compiles the tables. Every problem found is
// reported; each one matches ErrMalformedConfig.
func NewEngine(rules []Rule, grammar Grammar) (*Engine, error) {
	var problems []error

	compiled := make([]compiledRule, 0, len(rules))
	reasons := make(map[string]int, len(rules))
	for i, r := range rules {
		if prev, dup := reasons[r.Reason]; dup && r.Reason != "" {
			problems = append(problems, configErrorf(fmt.Sprintf("rules[%d].reason", i), "reason %q already used by rules[%d]", r.Reason, prev))
			continue
		}
		reasons[r.Reason] = i
		cr, err := compileRule(i, r)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		compiled = append(compiled, cr)
	}

	g, err := compileGrammar(grammar)
	if err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return nil, joinProblems(problems)
	}
	return &Engine{rules: compiled, grammar: g}, nil
}

// MustNewEngine is like NewEngine but panics on a malformed table.
func MustNewEngine(rules []Rule, grammar Grammar) *Engine {
	e, err := NewEngine(rules, grammar)
	if err != nil {
		panic(err)
	}
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return MustNewEngine(DefaultRules(), DefaultGrammar())
})

// Default returns the shared engine built from DefaultRules and DefaultGrammar.
func Default() *Engine {
	return defaultEngine()
}

// ApplyLiteralRules runs every rule in declaration order, each over the
// output of the rules before it.
func (e *Engine) ApplyLiteralRules(text string) (string, []Fix) {
	var fixes []Fix
	for i := range e.rules {
		var ruleFixes []Fix
		text, ruleFixes = e.rules[i].apply(text)
		fixes = append(fixes, ruleFixes...)
	}
	return text, fixes
}

// ApplyStructuralCorrection rewrites the AllDigit segments of every document
// ID in text. It is idempotent.
func (e *Engine) ApplyStructuralCorrection(text string) (string, []Fix) {
	return e.grammar.rewrite(text, e.grammar.recognize(text))
}

// Recognize returns the document IDs found in text with their segments
// classified and the structural correction precomputed. Text is not changed.
func (e *Engine) Recognize(text string) []DocumentID {
	return e.grammar.recognize(text)
}

// Correct runs the literal pass to completion and then the structural pass
// over its output. It accepts any string.
func (e *Engine) Correct(text string) *CorrectionResult {
	res := &CorrectionResult{
		Input:       text,
		Output:      text,
		Fixes:       []Fix{},
		DocumentIDs: []DocumentID{},
	}
	if text == "" {
		res.Summary = summarize(nil, nil)
		return res
	}

	intermediate, literal := e.ApplyLiteralRules(text)
	ids := e.grammar.recognize(intermediate)
	output, structural := e.grammar.rewrite(intermediate, ids)

	res.Output = output
	res.Fixes = append(append(res.Fixes, literal...), structural...)
	if ids != nil {
		res.DocumentIDs = ids
	}
	res.Summary = summarize(res.Fixes, res.DocumentIDs)
	return res
}

// Rules returns a copy of the rule table in application order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Rule
	}
	return out
}

// Grammar returns a copy of the document-ID grammar.
func (e *Engine) Grammar() Grammar {
	return e.grammar.spec.clone()
}
