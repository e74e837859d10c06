package edn

import "testing"

// Decimal-integer overflow must be a hard parse error (spec.md §3 invariant
// 2), not a silent backtrack that lets the digit run be re-read as a bare
// symbol.
func TestPlainIntegerOverflowIsError(t *testing.T) {
	if _, err := ParseValue("99999999999999999999"); err == nil {
		t.Fatalf("expected overflow error for oversized decimal integer")
	}
}

// A based-integer prefix whose digit body is empty or invalid in that base
// must backtrack to try the next numeric alternative rather than aborting
// the whole parse.
func TestScanBasedIntegerBacktracksOnInvalidBody(t *testing.T) {
	p := newParser("3rd")
	v, ok, err := p.scanBasedInteger(0)
	if err != nil {
		t.Fatalf("scanBasedInteger(%q) returned hard error %v, want backtrack", "3rd", err)
	}
	if ok {
		t.Fatalf("scanBasedInteger(%q) = %v, ok, want a backtrack (ok=false)", "3rd", v)
	}
	if p.s.pos != 0 {
		t.Errorf("scanBasedInteger(%q) left pos = %d, want 0 (fully backtracked)", "3rd", p.s.pos)
	}
}

func TestScanBasedIntegerOverflowStillErrors(t *testing.T) {
	if _, err := ParseValue("36rzzzzzzzzzzzzzzzzzzzzzzzzz"); err == nil {
		t.Fatalf("expected overflow error for oversized based integer")
	}
}

// A "0x"/"0X" prefix whose following digits are empty or invalid hex must
// likewise backtrack rather than hard-error.
func TestScanHexIntegerBacktracksOnInvalidBody(t *testing.T) {
	p := newParser("0xg")
	v, ok, err := p.scanHexInteger(0)
	if err != nil {
		t.Fatalf("scanHexInteger(%q) returned hard error %v, want backtrack", "0xg", err)
	}
	if ok {
		t.Fatalf("scanHexInteger(%q) = %v, ok, want a backtrack (ok=false)", "0xg", v)
	}
	if p.s.pos != 0 {
		t.Errorf("scanHexInteger(%q) left pos = %d, want 0 (fully backtracked)", "0xg", p.s.pos)
	}
}

func TestScanHexIntegerOverflowStillErrors(t *testing.T) {
	if _, err := ParseValue("0xffffffffffffffffff"); err == nil {
		t.Fatalf("expected overflow error for oversized hex integer")
	}
}

// Once a based/hex/decimal integer's body has been validly scanned, the
// alternatives it was tried against no longer matter: an in-range value
// still parses to the expected int64.
func TestPlainIntegerStillParsesInRange(t *testing.T) {
	v, err := ParseValue("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Payload().(int64) != 42 {
		t.Errorf("ParseValue(42) = %v, want 42", v.Payload())
	}
}
