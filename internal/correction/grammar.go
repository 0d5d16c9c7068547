package correction

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

const (
	defaultCharset            = `\w`
	structuralMechanismPrefix = "document-id:"
)

// SegmentSpec describes one position of the document-ID grammar.
//
// Charset is the regexp class a candidate character must match for the
// position to be recognized; it defaults to \w. Vocabulary lists the codes
// expected at the position. It never gates recognition, which only looks at
// lengths and separators, but it flags segments as Known.
type SegmentSpec struct {
	Position   int         `json:"position"`
	Name       string      `json:"name"`
	Kind       SegmentKind `json:"kind"`
	MinLen     int         `json:"min_len"`
	MaxLen     int         `json:"max_len"`
	Charset    string      `json:"charset,omitempty"`
	Vocabulary []string    `json:"vocabulary,omitempty"`
}

// Grammar is the document-ID format as data.
type Grammar struct {
	Separator string        `json:"separator"`
	Segments  []SegmentSpec `json:"segments"`
	// DigitSubstitutions maps a confusable character to the digit it stands
	// for. It is applied to AllDigit segments only.
	DigitSubstitutions map[string]string `json:"digit_substitutions"`
}

func (g Grammar) clone() Grammar {
	out := Grammar{Separator: g.Separator}
	out.Segments = make([]SegmentSpec, len(g.Segments))
	for i, s := range g.Segments {
		s.Vocabulary = append([]string(nil), s.Vocabulary...)
		out.Segments[i] = s
	}
	if g.DigitSubstitutions != nil {
		out.DigitSubstitutions = make(map[string]string, len(g.DigitSubstitutions))
		for k, v := range g.DigitSubstitutions {
			out.DigitSubstitutions[k] = v
		}
	}
	return out
}

type compiledGrammar struct {
	spec     Grammar
	segments []SegmentSpec // ordered by Position
	vocab    []map[string]bool
	subs     map[rune]rune
	pattern  *regexp2.Regexp
}

func compileGrammar(g Grammar) (*compiledGrammar, error) {
	var problems []error
	add := func(err *ConfigError) { problems = append(problems, err) }

	if g.Separator == "" {
		add(configErrorf("grammar.separator", "separator is required"))
	}
	for _, r := range g.Separator {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			add(configErrorf("grammar.separator", "separator %q contains word character %q", g.Separator, r))
			break
		}
	}
	if len(g.Segments) == 0 {
		add(configErrorf("grammar.segments", "at least one segment is required"))
	}

	cg := &compiledGrammar{spec: g.clone(), subs: make(map[rune]rune)}
	cg.segments = append([]SegmentSpec(nil), cg.spec.Segments...)
	sort.SliceStable(cg.segments, func(i, j int) bool {
		return cg.segments[i].Position < cg.segments[j].Position
	})

	seen := make(map[int]SegmentKind)
	names := make(map[string]bool)
	hasDigit := false
	for i, s := range g.Segments {
		field := fmt.Sprintf("grammar.segments[%d]", i)
		if prev, dup := seen[s.Position]; dup {
			add(configErrorf(field+".position", "position %d declared twice (%s and %s)", s.Position, prev, s.Kind))
		} else {
			seen[s.Position] = s.Kind
		}
		if strings.TrimSpace(s.Name) == "" {
			add(configErrorf(field+".name", "name is required"))
		} else if names[s.Name] {
			add(configErrorf(field+".name", "name %q used twice", s.Name))
		}
		names[s.Name] = true
		if !s.Kind.Valid() {
			add(configErrorf(field+".kind", "kind is required"))
		}
		if s.Kind == AllDigit {
			hasDigit = true
		}
		if s.MinLen < 1 || s.MaxLen < s.MinLen {
			add(configErrorf(field, "invalid length bounds %d..%d", s.MinLen, s.MaxLen))
		}
		for j, code := range s.Vocabulary {
			vf := fmt.Sprintf("%s.vocabulary[%d]", field, j)
			if n := utf8.RuneCountInString(code); n < s.MinLen || n > s.MaxLen {
				add(configErrorf(vf, "code %q outside length bounds %d..%d", code, s.MinLen, s.MaxLen))
			}
			if s.Kind.Valid() {
				for _, r := range code {
					if !s.Kind.accepts(r) {
						add(configErrorf(vf, "code %q is not %s", code, s.Kind))
						break
					}
				}
			}
		}
	}
	for pos := 1; pos <= len(g.Segments); pos++ {
		if _, ok := seen[pos]; !ok {
			add(configErrorf("grammar.segments", "positions must run 1..%d, missing %d", len(g.Segments), pos))
		}
	}
	if len(g.Segments) > 0 && !hasDigit {
		add(configErrorf("grammar.segments", "no %s position to correct", AllDigit))
	}

	keys := make([]string, 0, len(g.DigitSubstitutions))
	for k := range g.DigitSubstitutions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, from := range keys {
		to := g.DigitSubstitutions[from]
		field := fmt.Sprintf("grammar.digit_substitutions[%q]", from)
		fr, fn := utf8.DecodeRuneInString(from)
		tr, tn := utf8.DecodeRuneInString(to)
		switch {
		case fn == 0 || fn != len(from) || fr == utf8.RuneError:
			add(configErrorf(field, "key must be a single character"))
		case tn == 0 || tn != len(to) || !unicode.IsDigit(tr):
			add(configErrorf(field, "target %q is not a single digit", to))
		case unicode.IsDigit(fr):
			add(configErrorf(field, "digit %q cannot be substituted", from))
		default:
			cg.subs[fr] = tr
		}
	}

	if len(problems) > 0 {
		return nil, joinProblems(problems)
	}

	cg.vocab = make([]map[string]bool, len(cg.segments))
	for i, s := range cg.segments {
		if len(s.Vocabulary) == 0 {
			continue
		}
		cg.vocab[i] = make(map[string]bool, len(s.Vocabulary))
		for _, code := range s.Vocabulary {
			cg.vocab[i][code] = true
		}
	}

	var b strings.Builder
	b.WriteString(`(?<!\w)`)
	for i, s := range cg.segments {
		if i > 0 {
			b.WriteString(regexp2.Escape(g.Separator))
		}
		charset := s.Charset
		if charset == "" {
			charset = defaultCharset
		}
		fmt.Fprintf(&b, "((?:%s){%d,%d})", charset, s.MinLen, s.MaxLen)
	}
	b.WriteString(`(?!\w)`)
	re, err := regexp2.Compile(b.String(), regexp2.None)
	if err != nil {
		return nil, &ConfigError{Field: "grammar.segments", Message: "invalid charset", Cause: err}
	}
	if got := len(re.GetGroupNumbers()) - 1; got != len(cg.segments) {
		return nil, configErrorf("grammar.segments", "charsets must not contain capture groups (%d groups for %d segments)", got, len(cg.segments))
	}
	cg.pattern = re
	return cg, nil
}

// recognize finds every document ID in text, leftmost first, without overlap.
func (g *compiledGrammar) recognize(text string) []DocumentID {
	m, err := g.pattern.FindStringMatch(text)
	if err != nil || m == nil {
		return nil
	}
	idx := newRuneIndex(text)
	var ids []DocumentID
	for m != nil {
		id := DocumentID{
			Start:    idx[m.Index],
			End:      idx[m.Index+m.Length],
			Segments: make([]Segment, len(g.segments)),
		}
		id.Raw = text[id.Start:id.End]
		corrected := make([]string, len(g.segments))
		for i, spec := range g.segments {
			grp := m.GroupByNumber(i + 1)
			seg := Segment{
				Position: spec.Position,
				Name:     spec.Name,
				Kind:     spec.Kind,
				Start:    idx[grp.Index],
				End:      idx[grp.Index+grp.Length],
			}
			seg.Text = text[seg.Start:seg.End]
			seg.Corrected = seg.Text
			if spec.Kind == AllDigit {
				seg.Corrected = g.toDigits(seg.Text)
			}
			seg.Known = g.vocab[i][seg.Text]
			id.Segments[i] = seg
			corrected[i] = seg.Corrected
		}
		id.Corrected = strings.Join(corrected, g.spec.Separator)
		ids = append(ids, id)
		if m, err = g.pattern.FindNextMatch(m); err != nil {
			break
		}
	}
	return ids
}

func (g *compiledGrammar) toDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := g.subs[r]; ok {
			return d
		}
		return r
	}, s)
}

// rewrite splices the corrected AllDigit segments of ids into text.
func (g *compiledGrammar) rewrite(text string, ids []DocumentID) (string, []Fix) {
	var (
		b     strings.Builder
		fixes []Fix
		last  int
	)
	for _, id := range ids {
		for _, seg := range id.Segments {
			if !seg.Changed() {
				continue
			}
			b.WriteString(text[last:seg.Start])
			fixes = append(fixes, Fix{
				Pass:         PassStructural,
				Mechanism:    structuralMechanismPrefix + seg.Name,
				Before:       seg.Text,
				After:        seg.Corrected,
				Offset:       seg.Start,
				OutputOffset: b.Len(),
				DocumentID:   id.Raw,
				Segment:      seg.Position,
			})
			b.WriteString(seg.Corrected)
			last = seg.End
		}
	}
	if len(fixes) == 0 {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), fixes
}
