package edn

import "strings"

// scanString recognizes a quoted string literal: '"' then any run of
// ordinary characters and `\\ \" \n \t \r` escapes, then a closing '"'.
// No other escape sequences are recognized, per spec.md §4.1.
func (p *parser) scanString(start int) (Value, error) {
	s := p.s
	s.advance() // opening '"'

	var sb strings.Builder
	for {
		b, ok := s.peek()
		if !ok {
			return Value{}, errExpected(s.pos, "closing \" for string")
		}
		if b == '"' {
			s.advance()
			return newValue(Span{start, s.pos}, KindText, sb.String()), nil
		}
		if b == '\\' {
			s.advance()
			esc, ok := s.peek()
			if !ok {
				return Value{}, errExpected(s.pos, "escape character after \\")
			}
			switch esc {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return Value{}, errExpected(s.pos, "one of \\\\ \\\" \\n \\t \\r")
			}
			s.advance()
			continue
		}
		sb.WriteByte(b)
		s.advance()
	}
}

// scanSymbolText reads the raw text of a symbol or keyword name, without
// the leading ':' that marks a keyword: one or more initial+subsequent
// segments joined by '.' and optionally split into namespace/name by a
// single '/', or the verbatim forms "." and "...".
func (s *scanner) scanSymbolText() (string, bool) {
	start := s.pos
	if s.startsWith("...") {
		s.pos += 3
		return "...", true
	}
	b, ok := s.peek()
	if !ok {
		return "", false
	}
	if b == '.' {
		s.advance()
		return ".", true
	}
	if !isSymbolInitial(b) {
		return "", false
	}
	for {
		b, ok := s.peek()
		if !ok {
			break
		}
		if isSymbolSubsequent(b) || b == '.' || b == '/' {
			s.advance()
			continue
		}
		break
	}
	return s.src[start:s.pos], true
}

// splitNamespace splits "ns.seg/name" into ("ns.seg", "name"), or returns
// ("", text) if there is no '/'.
func splitNamespace(text string) (namespace, name string) {
	if i := strings.LastIndexByte(text, '/'); i >= 0 && i != len(text)-1 {
		return text[:i], text[i+1:]
	}
	return "", text
}
