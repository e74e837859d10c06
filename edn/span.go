package edn

// Span is a half-open-by-convention byte range [Start, End) into the
// original input string. Offsets are bytes, not runes or UTF-16 units.
//
// Every AST node produced by this package carries a Span covering exactly
// the text that produced it, not any surrounding whitespace or comments.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

func join(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}
