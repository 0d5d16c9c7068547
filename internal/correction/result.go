package correction

import "fmt"

// Pass identifies which stage of the pipeline produced a Fix.
type Pass int

const (
	// PassLiteral is the ordered literal rule table.
	PassLiteral Pass = iota + 1
	// PassStructural is the document-ID segment corrector.
	PassStructural
)

func (p Pass) String() string {
	switch p {
	case PassLiteral:
		return "literal"
	case PassStructural:
		return "structural"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

func (p Pass) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pass) UnmarshalText(text []byte) error {
	switch string(text) {
	case "literal":
		*p = PassLiteral
	case "structural":
		*p = PassStructural
	default:
		return fmt.Errorf("unknown pass %q", string(text))
	}
	return nil
}

// Fix records one applied correction.
//
// Offset is the byte offset of Before in the text the producing step read.
// OutputOffset is where After starts in that step's output. Replaying the
// fixes of a result in order, each at its OutputOffset, turns the input into
// the output.
type Fix struct {
	Pass         Pass   `json:"pass"`
	Mechanism    string `json:"mechanism"`
	Before       string `json:"before"`
	After        string `json:"after"`
	Offset       int    `json:"offset"`
	OutputOffset int    `json:"output_offset"`

	// Set for structural fixes only.
	DocumentID string `json:"document_id,omitempty"`
	Segment    int    `json:"segment,omitempty"`
}

// Segment is one separator-delimited token of a recognized DocumentID.
type Segment struct {
	Position  int         `json:"position"`
	Name      string      `json:"name"`
	Kind      SegmentKind `json:"kind"`
	Text      string      `json:"text"`
	Corrected string      `json:"corrected"`
	Start     int         `json:"start"`
	End       int         `json:"end"`
	// Known is true when the position has a vocabulary and Text is in it.
	Known bool `json:"known,omitempty"`
}

// Changed reports whether the structural pass rewrote the segment.
func (s Segment) Changed() bool { return s.Text != s.Corrected }

// DocumentID is a substring recognized by the grammar. Start and End are byte
// offsets into the text handed to the structural pass.
type DocumentID struct {
	Raw       string    `json:"raw"`
	Corrected string    `json:"corrected"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Segments  []Segment `json:"segments"`
}

// Changed reports whether any segment of the ID was rewritten.
func (d DocumentID) Changed() bool { return d.Raw != d.Corrected }

// Summary aggregates the fix log of one CorrectionResult.
type Summary struct {
	TotalFixes      int            `json:"total_fixes"`
	LiteralFixes    int            `json:"literal_fixes"`
	StructuralFixes int            `json:"structural_fixes"`
	ByMechanism     map[string]int `json:"by_mechanism"`
	IDsRecognized   int            `json:"ids_recognized"`
	IDsModified     int            `json:"ids_modified"`
}

// CorrectionResult is the outcome of Engine.Correct for one page of text.
// DocumentIDs are the IDs found in the literal pass output, so their offsets
// refer to that intermediate text.
type CorrectionResult struct {
	Input       string       `json:"input"`
	Output      string       `json:"output"`
	Fixes       []Fix        `json:"fixes"`
	DocumentIDs []DocumentID `json:"document_ids"`
	Summary     Summary      `json:"summary"`
}

// Changed reports whether the output differs from the input.
func (r *CorrectionResult) Changed() bool { return r.Input != r.Output }

func summarize(fixes []Fix, ids []DocumentID) Summary {
	s := Summary{
		TotalFixes:    len(fixes),
		ByMechanism:   make(map[string]int),
		IDsRecognized: len(ids),
	}
	for _, f := range fixes {
		s.ByMechanism[f.Mechanism]++
		switch f.Pass {
		case PassLiteral:
			s.LiteralFixes++
		case PassStructural:
			s.StructuralFixes++
		}
	}
	for _, id := range ids {
		if id.Changed() {
			s.IDsModified++
		}
	}
	return s
}
