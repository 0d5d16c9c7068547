package correction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Rule is one entry of the literal rule table.
//
// Pattern uses regexp2 syntax, so lookaround such as `0P(?=[^0-9])` is
// allowed. Replacement is literal text except for `$n` and `${n}`, which
// expand capture group n, and `$$`, which is a single dollar sign.
type Rule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Reason      string `json:"reason"`
}

type templatePart struct {
	literal string
	group   int // -1 for literal parts
}

type compiledRule struct {
	Rule
	re       *regexp2.Regexp
	template []templatePart
}

func compileRule(i int, r Rule) (compiledRule, error) {
	field := fmt.Sprintf("rules[%d]", i)
	if r.Pattern == "" {
		return compiledRule{}, configErrorf(field+".pattern", "pattern is required")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return compiledRule{}, configErrorf(field+".reason", "reason is required")
	}
	if strings.HasPrefix(r.Reason, structuralMechanismPrefix) {
		return compiledRule{}, configErrorf(field+".reason", "prefix %q is reserved", structuralMechanismPrefix)
	}
	re, err := regexp2.Compile(r.Pattern, regexp2.None)
	if err != nil {
		return compiledRule{}, &ConfigError{Field: field + ".pattern", Message: "invalid pattern", Cause: err}
	}
	parts, err := parseTemplate(r.Replacement)
	if err != nil {
		return compiledRule{}, &ConfigError{Field: field + ".replacement", Message: "invalid replacement", Cause: err}
	}
	groups := make(map[int]bool)
	for _, n := range re.GetGroupNumbers() {
		groups[n] = true
	}
	for _, p := range parts {
		if p.group >= 0 && !groups[p.group] {
			return compiledRule{}, configErrorf(field+".replacement", "pattern has no group %d", p.group)
		}
	}
	return compiledRule{Rule: r, re: re, template: parts}, nil
}

func parseTemplate(s string) ([]templatePart, error) {
	var parts []templatePart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			lit.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("dangling $ at offset %d", i)
		}
		switch next := s[i+1]; {
		case next == '$':
			lit.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated ${ at offset %d", i)
			}
			n, err := strconv.Atoi(s[i+2 : i+2+end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad group reference %q", s[i:i+3+end])
			}
			flush()
			parts = append(parts, templatePart{group: n})
			i += 2 + end
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(s[i+1 : j])
			flush()
			parts = append(parts, templatePart{group: n})
			i = j - 1
		default:
			return nil, fmt.Errorf("unexpected character %q after $ at offset %d", next, i)
		}
	}
	flush()
	return parts, nil
}

func (r *compiledRule) expand(m *regexp2.Match) string {
	if len(r.template) == 1 && r.template[0].group < 0 {
		return r.template[0].literal
	}
	var b strings.Builder
	for _, p := range r.template {
		if p.group < 0 {
			b.WriteString(p.literal)
			continue
		}
		if g := m.GroupByNumber(p.group); g != nil {
			b.WriteString(g.String())
		}
	}
	return b.String()
}

// apply runs one left-to-right scan of the rule over text. Matches are found
// against text as given, so a replacement is never rescanned by the rule that
// produced it.
func (r *compiledRule) apply(text string) (string, []Fix) {
	m, err := r.re.FindStringMatch(text)
	if err != nil || m == nil {
		return text, nil
	}
	idx := newRuneIndex(text)
	var (
		b     strings.Builder
		fixes []Fix
		last  int
	)
	for m != nil {
		start := idx[m.Index]
		end := idx[m.Index+m.Length]
		before := text[start:end]
		// Zero-length matches never insert text.
		if after := r.expand(m); m.Length > 0 && after != before {
			b.WriteString(text[last:start])
			fixes = append(fixes, Fix{
				Pass:         PassLiteral,
				Mechanism:    r.Reason,
				Before:       before,
				After:        after,
				Offset:       start,
				OutputOffset: b.Len(),
			})
			b.WriteString(after)
			last = end
		}
		if m, err = r.re.FindNextMatch(m); err != nil {
			break
		}
	}
	if len(fixes) == 0 {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), fixes
}

// runeIndex maps regexp2 rune offsets to byte offsets. regexp2 decodes the
// input the same way as a range loop, one rune per invalid byte included.
type runeIndex []int

func newRuneIndex(s string) runeIndex {
	idx := make(runeIndex, 0, len(s)+1)
	for i := range s {
		idx = append(idx, i)
	}
	return append(idx, len(s))
}
