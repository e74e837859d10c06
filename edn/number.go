package edn

import (
	"math"
	"math/big"
	"strconv"
)

// scanNumber tries the six numeric alternatives of spec.md §4.1 in the
// fixed order the spec requires (big-integer, based, hex, octal, integer,
// float) plus the two `#f`-tagged special floats, and returns ok=false,
// having consumed nothing, if none apply — the caller then falls through
// to try symbols/keywords, since e.g. `.` or `...` is valid symbol text
// but not a number.
//
// A later alternative can match a prefix of an earlier one's text (the
// leading digits of a based integer are also a valid integer, and so on),
// which is exactly why the order is load-bearing: trying
// integer before based/hex/octal would swallow their leading digits as a
// plain decimal integer and leave the rest unconsumed.
func (p *parser) scanNumber() (Value, bool, error) {
	start := p.s.pos
	if v, ok, err := p.scanTaggedFloat(start); ok || err != nil {
		return v, ok, err
	}
	if v, ok := p.scanBigInteger(start); ok {
		return v, true, nil
	}
	if v, ok, err := p.scanBasedInteger(start); ok || err != nil {
		return v, ok, err
	}
	if v, ok, err := p.scanHexInteger(start); ok || err != nil {
		return v, ok, err
	}
	if v, ok, err := p.scanOctalInteger(start); ok || err != nil {
		return v, ok, err
	}
	if v, ok, err := p.scanPlainInteger(start); ok || err != nil {
		return v, ok, err
	}
	return p.scanFloat(start)
}

func scanSign(s *scanner) string {
	b, ok := s.peek()
	if ok && (b == '+' || b == '-') {
		s.advance()
		return string(b)
	}
	return ""
}

// scanBigInteger recognizes [sign] digit+ "N".
func (p *parser) scanBigInteger(start int) (Value, bool) {
	s := p.s
	mark := s.pos
	sign := scanSign(s)
	digitsStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isDigit(b) {
			break
		}
		s.advance()
	}
	if s.pos == digitsStart {
		s.pos = mark
		return Value{}, false
	}
	b, ok := s.peek()
	if !ok || b != 'N' {
		s.pos = mark
		return Value{}, false
	}
	digits := s.src[digitsStart:s.pos]
	s.advance() // 'N'

	n := new(big.Int)
	n.SetString(digits, 10)
	if sign == "-" {
		n.Neg(n)
	}
	return newValue(Span{start, s.pos}, KindBigInt, n), true
}

// scanBasedInteger recognizes base "r" digit+ where base is 2-36.
func (p *parser) scanBasedInteger(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos

	baseStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isDigit(b) {
			break
		}
		s.advance()
	}
	baseDigits := s.src[baseStart:s.pos]
	if baseDigits == "" {
		s.pos = mark
		return Value{}, false, nil
	}
	b, ok := s.peek()
	if !ok || b != 'r' {
		s.pos = mark
		return Value{}, false, nil
	}
	base, err := strconv.Atoi(baseDigits)
	if err != nil || base < 2 || base > 36 {
		s.pos = mark
		return Value{}, false, nil
	}
	s.advance() // 'r'

	digitsStart := s.pos
	for {
		c, ok := s.peek()
		if !ok || !isBaseDigit(c, base) {
			break
		}
		s.advance()
	}
	if s.pos == digitsStart {
		s.pos = mark
		return Value{}, false, nil
	}
	digits := s.src[digitsStart:s.pos]

	n, ok2 := new(big.Int).SetString(digits, base)
	if !ok2 {
		s.pos = mark
		return Value{}, false, nil
	}
	if !n.IsInt64() {
		return Value{}, false, errExpected(start, "integer fitting in 64 bits")
	}
	return newValue(Span{start, s.pos}, KindInt, n.Int64()), true, nil
}

// scanHexInteger recognizes [sign] "0x" hexdigit+.
func (p *parser) scanHexInteger(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos
	sign := scanSign(s)
	if !s.startsWith("0x") && !s.startsWith("0X") {
		s.pos = mark
		return Value{}, false, nil
	}
	s.advance()
	s.advance()
	digitsStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isHexDigit(b) {
			break
		}
		s.advance()
	}
	if s.pos == digitsStart {
		s.pos = mark
		return Value{}, false, nil
	}
	digits := s.src[digitsStart:s.pos]
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		s.pos = mark
		return Value{}, false, nil
	}
	if sign == "-" {
		n.Neg(n)
	}
	if !n.IsInt64() {
		return Value{}, false, errExpected(start, "integer fitting in 64 bits")
	}
	return newValue(Span{start, s.pos}, KindInt, n.Int64()), true, nil
}

// scanOctalInteger recognizes [sign] "0" octaldigit+ (a bare "0" with no
// following octal digit is left for scanPlainInteger to pick up as a
// decimal zero).
func (p *parser) scanOctalInteger(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos
	sign := scanSign(s)
	if b, ok := s.peek(); !ok || b != '0' {
		s.pos = mark
		return Value{}, false, nil
	}
	s.advance()
	digitsStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isOctalDigit(b) {
			break
		}
		s.advance()
	}
	if s.pos == digitsStart {
		s.pos = mark
		return Value{}, false, nil
	}
	digits := s.src[digitsStart:s.pos]
	n, ok := new(big.Int).SetString(digits, 8)
	if !ok {
		return Value{}, false, errExpected(digitsStart, "octal digits")
	}
	if sign == "-" {
		n.Neg(n)
	}
	if !n.IsInt64() {
		return Value{}, false, errExpected(start, "integer fitting in 64 bits")
	}
	return newValue(Span{start, s.pos}, KindInt, n.Int64()), true, nil
}

// scanPlainInteger recognizes [sign] digit+ provided it is not followed by
// '.' or [eE], in which case it is a float prefix instead. An overflowing
// decimal integer is a hard error rather than a backtrack: by this point
// the digit run is unambiguously an integer literal, per spec.md §3
// invariant 2, so there's no other alternative left to try.
func (p *parser) scanPlainInteger(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos
	sign := scanSign(s)
	digitsStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isDigit(b) {
			break
		}
		s.advance()
	}
	if s.pos == digitsStart {
		s.pos = mark
		return Value{}, false, nil
	}
	if b, ok := s.peek(); ok && (b == '.' || b == 'e' || b == 'E') {
		s.pos = mark
		return Value{}, false, nil
	}
	digits := s.src[digitsStart:s.pos]
	n, err := strconv.ParseInt(sign+digits, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return Value{}, false, errExpected(digitsStart, "integer fitting in 64 bits")
		}
		s.pos = mark
		return Value{}, false, nil
	}
	return newValue(Span{start, s.pos}, KindInt, n), true, nil
}

// scanFloat recognizes [sign] digit+ ["." digit+] [[eE] [sign] digit+].
func (p *parser) scanFloat(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos
	scanSign(s)
	intStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isDigit(b) {
			break
		}
		s.advance()
	}
	if s.pos == intStart {
		s.pos = mark
		return Value{}, false, nil
	}

	hasFraction := false
	if b, ok := s.peek(); ok && b == '.' {
		if b2, ok2 := s.peekN(1); ok2 && isDigit(b2) {
			hasFraction = true
			s.advance()
			for {
				b, ok := s.peek()
				if !ok || !isDigit(b) {
					break
				}
				s.advance()
			}
		}
	}

	hasExponent := false
	if b, ok := s.peek(); ok && (b == 'e' || b == 'E') {
		expMark := s.pos
		s.advance()
		scanSign(s)
		expDigitsStart := s.pos
		for {
			b, ok := s.peek()
			if !ok || !isDigit(b) {
				break
			}
			s.advance()
		}
		if s.pos == expDigitsStart {
			s.pos = expMark
		} else {
			hasExponent = true
		}
	}

	if !hasFraction && !hasExponent {
		s.pos = mark
		return Value{}, false, nil
	}

	text := s.src[mark:s.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, false, errExpected(mark, "float literal")
	}
	return newValue(Span{start, s.pos}, KindFloat, f), true, nil
}

// scanTaggedFloat recognizes the `#f NaN`, `#f +Infinity`, and `#f
// -Infinity` tagged literals of spec.md §4.1.
func (p *parser) scanTaggedFloat(start int) (Value, bool, error) {
	s := p.s
	mark := s.pos
	if !s.startsWith("#f") {
		return Value{}, false, nil
	}
	s.advance()
	s.advance()
	s.skipWhitespaceAndComments()
	switch {
	case s.startsWith("NaN"):
		for i := 0; i < len("NaN"); i++ {
			s.advance()
		}
		return newValue(Span{start, s.pos}, KindFloat, math.NaN()), true, nil
	case s.startsWith("+Infinity"):
		for i := 0; i < len("+Infinity"); i++ {
			s.advance()
		}
		return newValue(Span{start, s.pos}, KindFloat, math.Inf(1)), true, nil
	case s.startsWith("-Infinity"):
		for i := 0; i < len("-Infinity"); i++ {
			s.advance()
		}
		return newValue(Span{start, s.pos}, KindFloat, math.Inf(-1)), true, nil
	default:
		s.pos = mark
		return Value{}, false, errExpected(mark, "NaN, +Infinity, or -Infinity after #f")
	}
}
