package correction

import (
	"fmt"
	"unicode"
)

// SegmentKind classifies a document-ID position. The kind of a segment always
// comes from its position in the grammar, never from the characters OCR read.
type SegmentKind int

const (
	kindInvalid SegmentKind = iota
	// AllDigit positions must hold digits only; they are the only positions
	// the structural pass rewrites.
	AllDigit
	// Mixed positions hold alphanumeric discipline codes such as GR1.
	Mixed
	// AllAlpha positions hold letter-only codes such as RIA or DR.
	AllAlpha
)

var kindNames = map[SegmentKind]string{
	AllDigit: "all_digit",
	Mixed:    "mixed",
	AllAlpha: "all_alpha",
}

// ParseSegmentKind converts the textual name used in grammar files.
func ParseSegmentKind(name string) (SegmentKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return kindInvalid, fmt.Errorf("unknown segment kind %q", name)
}

func (k SegmentKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k SegmentKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k SegmentKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid segment kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *SegmentKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSegmentKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// accepts reports whether r may legitimately appear in a segment of kind k.
func (k SegmentKind) accepts(r rune) bool {
	switch k {
	case AllDigit:
		return unicode.IsDigit(r)
	case AllAlpha:
		return unicode.IsLetter(r)
	case Mixed:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}
