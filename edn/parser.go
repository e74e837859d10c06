package edn

import (
	"strconv"
	"time"

	"github.com/heyLu/fressian"
)

// parser drives a scanner through the ordered disjunction of spec.md §4.2:
// nil, tagged number, boolean, number, instant, uuid, text, keyword,
// symbol, list, vector, map, set. It holds no state beyond the scanner; a
// parser is used for exactly one top-level parse and then discarded.
type parser struct {
	s *scanner
}

func newParser(src string) *parser {
	return &parser{s: newScanner(src)}
}

// ParseValue parses a single spanned value from src. Leading and trailing
// whitespace and comments are skipped; any other trailing content is a
// parse error, per spec.md §6's "reject trailing non-whitespace content".
func ParseValue(src string) (Value, error) {
	p := newParser(src)
	p.s.skipWhitespaceAndComments()
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.s.skipWhitespaceAndComments()
	if !p.s.isAtEnd() {
		return Value{}, errExpected(p.s.pos, "end of input")
	}
	return v, nil
}

// ParseAtom parses a single atomic spanned value (see Value.IsAtom),
// rejecting collections and any trailing content.
func ParseAtom(src string) (Value, error) {
	v, err := ParseValue(src)
	if err != nil {
		return Value{}, err
	}
	if !v.IsAtom() {
		return Value{}, errExpected(v.Span().Start, "atom")
	}
	return v, nil
}

// parseValue dispatches on the next byte of input to the production that
// can start with it; every branch either succeeds or returns a descriptive
// error, with no backtracking across branches once one is chosen.
func (p *parser) parseValue() (Value, error) {
	s := p.s
	start := s.pos
	b, ok := s.peek()
	if !ok {
		return Value{}, errExpected(start, "value")
	}
	switch b {
	case '(':
		return p.parseList(start)
	case '[':
		return p.parseVector(start)
	case '{':
		return p.parseMap(start)
	case '"':
		return p.scanString(start)
	case '#':
		return p.parseTagged(start)
	case ':':
		return p.parseKeyword(start)
	}
	if v, ok, err := p.scanNumber(); ok || err != nil {
		return v, err
	}
	return p.parseSymbolOrLiteral(start)
}

// parseTagged handles every production beginning with '#': the set literal
// `#{…}` and the five tagged forms `#f`, `#inst`, `#instmillis`,
// `#instmicros`, `#uuid`.
func (p *parser) parseTagged(start int) (Value, error) {
	s := p.s
	if s.startsWith("#{") {
		return p.parseSet(start)
	}
	s.advance() // '#'
	tagStart := s.pos
	for {
		b, ok := s.peek()
		if !ok || b < 'a' || b > 'z' {
			break
		}
		s.advance()
	}
	tag := s.src[tagStart:s.pos]
	switch tag {
	case "f":
		s.pos = start
		v, _, err := p.scanTaggedFloat(start)
		return v, err
	case "inst":
		return p.parseInstString(start)
	case "instmillis":
		return p.parseInstMillis(start)
	case "instmicros":
		return p.parseInstMicros(start)
	case "uuid":
		return p.parseUUID(start)
	default:
		return Value{}, errExpected(start, "#inst, #instmillis, #instmicros, #uuid, or #f")
	}
}

func (p *parser) parseInstString(start int) (Value, error) {
	s := p.s
	s.skipWhitespaceAndComments()
	if b, ok := s.peek(); !ok || b != '"' {
		return Value{}, errExpected(s.pos, "quoted RFC-3339 datetime after #inst")
	}
	strStart := s.pos
	v, err := p.scanString(strStart)
	if err != nil {
		return Value{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v.Payload().(string))
	if err != nil {
		return Value{}, errExpected(strStart, "invalid datetime")
	}
	return newValue(Span{start, s.pos}, KindInstant, t.UTC()), nil
}

// scanSignedInt64 scans [sign] digit+ and reports errMsg at the offset
// where a digit was expected but none was found.
func (p *parser) scanSignedInt64(errMsg string) (int64, error) {
	s := p.s
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
		return 0, errExpected(s.pos, errMsg)
	}
	n, err := strconv.ParseInt(sign+s.src[digitsStart:s.pos], 10, 64)
	if err != nil {
		return 0, errExpected(digitsStart, errMsg)
	}
	return n, nil
}

func (p *parser) parseInstMillis(start int) (Value, error) {
	s := p.s
	s.skipWhitespaceAndComments()
	ms, err := p.scanSignedInt64("integer milliseconds after #instmillis")
	if err != nil {
		return Value{}, err
	}
	return newValue(Span{start, s.pos}, KindInstant, time.UnixMilli(ms).UTC()), nil
}

// parseInstMicros implements spec.md §4.1's rounding rule for negative
// microsecond counts: truncate toward zero at the second boundary (Go's
// integer division already does this) and take the sub-second remainder's
// absolute value so it is always non-negative.
func (p *parser) parseInstMicros(start int) (Value, error) {
	s := p.s
	s.skipWhitespaceAndComments()
	us, err := p.scanSignedInt64("integer microseconds after #instmicros")
	if err != nil {
		return Value{}, err
	}
	const microsPerSecond = int64(1_000_000)
	secs := us / microsPerSecond
	rem := us % microsPerSecond
	if rem < 0 {
		rem = -rem
	}
	return newValue(Span{start, s.pos}, KindInstant, time.Unix(secs, rem*1000).UTC()), nil
}

func (p *parser) parseUUID(start int) (Value, error) {
	s := p.s
	s.skipWhitespaceAndComments()
	if b, ok := s.peek(); !ok || b != '"' {
		return Value{}, errExpected(s.pos, "quoted UUID after #uuid")
	}
	strStart := s.pos
	v, err := p.scanString(strStart)
	if err != nil {
		return Value{}, err
	}
	u, err := fressian.NewUUIDFromString(v.Payload().(string))
	if err != nil {
		return Value{}, errExpected(strStart, "canonical UUID string")
	}
	return newValue(Span{start, s.pos}, KindUuid, *u), nil
}

func (p *parser) parseKeyword(start int) (Value, error) {
	s := p.s
	s.advance() // ':'
	text, ok := s.scanSymbolText()
	if !ok {
		return Value{}, errExpected(s.pos, "keyword")
	}
	ns, name := splitNamespace(text)
	return newValue(Span{start, s.pos}, KindKeyword, NewKw(ns, name)), nil
}

// parseSymbolOrLiteral scans a bare symbol and recognizes the three
// reserved literal names (nil, true, false) along the way: they occupy the
// same lexical class as ordinary symbols, so they must be distinguished
// after scanning rather than before.
func (p *parser) parseSymbolOrLiteral(start int) (Value, error) {
	s := p.s
	text, ok := s.scanSymbolText()
	if !ok {
		return Value{}, errExpected(start, "value")
	}
	switch text {
	case "nil":
		return newValue(Span{start, s.pos}, KindNil, nil), nil
	case "true":
		return newValue(Span{start, s.pos}, KindBool, true), nil
	case "false":
		return newValue(Span{start, s.pos}, KindBool, false), nil
	}
	ns, name := splitNamespace(text)
	return newValue(Span{start, s.pos}, KindSymbol, Sym{Namespace: ns, Name: name}), nil
}

// parseForms reads values separated by whitespace/comments until closer is
// seen, consuming the closer. It is shared by list, vector, and set, which
// differ only in the opening delimiter (already consumed by the caller)
// and in how the resulting slice is wrapped into a Value.
func (p *parser) parseForms(closer byte, what string) ([]Value, error) {
	s := p.s
	var out []Value
	for {
		s.skipWhitespaceAndComments()
		b, ok := s.peek()
		if !ok {
			return nil, errExpected(s.pos, "closing "+string(closer)+" for "+what)
		}
		if b == closer {
			s.advance()
			return out, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (p *parser) parseList(start int) (Value, error) {
	p.s.advance() // '('
	vs, err := p.parseForms(')', "list")
	if err != nil {
		return Value{}, err
	}
	return newValue(Span{start, p.s.pos}, KindList, NewList(vs)), nil
}

func (p *parser) parseVector(start int) (Value, error) {
	p.s.advance() // '['
	vs, err := p.parseForms(']', "vector")
	if err != nil {
		return Value{}, err
	}
	if vs == nil {
		vs = []Value{}
	}
	return newValue(Span{start, p.s.pos}, KindVector, vs), nil
}

func (p *parser) parseSet(start int) (Value, error) {
	p.s.advance() // '#'
	p.s.advance() // '{'
	vs, err := p.parseForms('}', "set")
	if err != nil {
		return Value{}, err
	}
	return newValue(Span{start, p.s.pos}, KindSet, NewSet(vs)), nil
}

func (p *parser) parseMap(start int) (Value, error) {
	s := p.s
	s.advance() // '{'
	var kvs []Value
	for {
		s.skipWhitespaceAndComments()
		b, ok := s.peek()
		if !ok {
			return Value{}, errExpected(s.pos, "closing } for map")
		}
		if b == '}' {
			s.advance()
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		kvs = append(kvs, v)
	}
	if len(kvs)%2 != 0 {
		return Value{}, errExpected(start, "even number of map elements")
	}
	return newValue(Span{start, s.pos}, KindMap, NewMap(kvs)), nil
}
