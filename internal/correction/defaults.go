package correction

// DefaultRules returns the literal rule table observed in the field. The
// order is part of the behaviour: multi-character literals first, then
// prefix-anchored I/1 confusions, then single-character swaps, and last the
// fixes for letters O that an earlier global O->0 pass over-zeroed.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `0002B`, Replacement: "00028", Reason: "0002B → 00028  [B↔8]"},
		{Pattern: `OOI`, Replacement: "001", Reason: "OOI → 001  [O=0, I=1]"},

		{Pattern: `PR[I1l]{1,2}`, Replacement: "PR1", Reason: "PR{I|II|1} → PR1"},
		{Pattern: `IN[I1l]{1,2}`, Replacement: "IN1", Reason: "IN{I|II|1} → IN1"},
		{Pattern: `GR[I1l]{1,2}`, Replacement: "GR1", Reason: "GR{I|II|1} → GR1"},

		{Pattern: `[1Il]N2`, Replacement: "IN2", Reason: "[1/I]N2 → IN2"},
		{Pattern: `[1Il]N1`, Replacement: "IN1", Reason: "[1/I]N1 → IN1"},

		{Pattern: `P[I1]E`, Replacement: "PLE", Reason: "P[I/1]E → PLE  [I=L, 1=L]"},
		{Pattern: `028`, Replacement: "02B", Reason: "028 → 02B  [8=B]"},
		{Pattern: `040`, Replacement: "04C", Reason: "040 → 04C  [0=C]"},

		{Pattern: `0P(?=[^0-9])`, Replacement: "OP", Reason: "0P → OP  [O over-zeroed]"},
		{Pattern: `0TH`, Replacement: "OTH", Reason: "0TH → OTH  [O over-zeroed]"},
	}
}

// DefaultGrammar returns the NNNNN-AAA-NNN-AA-AAA-AA-NNNNN format, e.g.
// 26437-RIA-001-DR-CLG-PC-00001. Lengths are lenient to tolerate OCR noise.
// The project number must already read as digits for an ID to be recognized.
func DefaultGrammar() Grammar {
	return Grammar{
		Separator: "-",
		Segments: []SegmentSpec{
			{Position: 1, Name: "project", Kind: AllDigit, MinLen: 2, MaxLen: 6, Charset: `\d`},
			{Position: 2, Name: "originator", Kind: AllAlpha, MinLen: 2, MaxLen: 4, Vocabulary: []string{"RIA"}},
			{Position: 3, Name: "series", Kind: AllDigit, MinLen: 2, MaxLen: 5},
			{Position: 4, Name: "type", Kind: AllAlpha, MinLen: 2, MaxLen: 3, Vocabulary: []string{"DR", "SH"}},
			{Position: 5, Name: "discipline", Kind: Mixed, MinLen: 2, MaxLen: 5, Vocabulary: []string{"CLG", "GEM", "GR1", "IN1", "IN2", "PR1", "PLE"}},
			{Position: 6, Name: "subcode", Kind: Mixed, MinLen: 2, MaxLen: 5, Vocabulary: []string{"PC", "ID"}},
			{Position: 7, Name: "sequence", Kind: AllDigit, MinLen: 4, MaxLen: 6},
		},
		DigitSubstitutions: map[string]string{
			"O": "0",
			"o": "0",
			"I": "1",
			"l": "1",
			"L": "1",
		},
	}
}
