// Package correction repairs OCR output for engineering document IDs of the
// form NNNNN-AAA-NNN-AA-AAA-AA-NNNNN.
//
// An Engine runs two passes over a page of text. The literal pass applies an
// ordered table of pattern rules for known misreads anywhere in the text. The
// structural pass then finds substrings shaped like document IDs and maps
// confusable letters to digits inside the positions the grammar declares
// AllDigit. Every change is reported as a Fix.
//
// Engines are immutable after construction and safe for concurrent use.
package correction
