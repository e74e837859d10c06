package edn

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustParseValue(t *testing.T, src string) Value {
	t.Helper()
	v, err := ParseValue(src)
	if err != nil {
		t.Fatalf("ParseValue(%q): unexpected error: %v", src, err)
	}
	return v
}

func TestParseValueAtoms(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
		want interface{}
	}{
		{"nil", KindNil, nil},
		{"true", KindBool, true},
		{"false", KindBool, false},
		{"42", KindInt, int64(42)},
		{"-42", KindInt, int64(-42)},
		{"0", KindInt, int64(0)},
		{"0x2A", KindInt, int64(42)},
		{"052", KindInt, int64(42)},
		{"16rff", KindInt, int64(255)},
		{"123N", KindBigInt, big.NewInt(123)},
		{"1.5", KindFloat, 1.5},
		{"1e10", KindFloat, 1e10},
		{`"hello"`, KindText, "hello"},
		{`"a\nb\t\"c\""`, KindText, "a\nb\t\"c\""},
	}
	for _, c := range cases {
		v := mustParseValue(t, c.src)
		if v.Kind() != c.kind {
			t.Errorf("ParseValue(%q).Kind() = %v, want %v", c.src, v.Kind(), c.kind)
		}
		switch want := c.want.(type) {
		case *big.Int:
			if got := v.Payload().(*big.Int); got.Cmp(want) != 0 {
				t.Errorf("ParseValue(%q) = %v, want %v", c.src, got, want)
			}
		default:
			if diff := cmp.Diff(c.want, v.Payload()); diff != "" {
				t.Errorf("ParseValue(%q) mismatch (-want +got):\n%s", c.src, diff)
			}
		}
	}
}

func TestParseValueBigIntegerSpan(t *testing.T) {
	v := mustParseValue(t, "123N")
	if v.Span() != (Span{0, 4}) {
		t.Errorf("span = %+v, want {0 4}", v.Span())
	}
}

func TestParseValueTaggedFloats(t *testing.T) {
	v := mustParseValue(t, "#f NaN")
	f := v.Payload().(float64)
	if !math.IsNaN(f) {
		t.Errorf("#f NaN = %v, want NaN", f)
	}

	v = mustParseValue(t, "#f +Infinity")
	if f := v.Payload().(float64); f != math.Inf(1) {
		t.Errorf("#f +Infinity = %v, want +Inf", f)
	}

	v = mustParseValue(t, "#f -Infinity")
	if f := v.Payload().(float64); f != math.Inf(-1) {
		t.Errorf("#f -Infinity = %v, want -Inf", f)
	}
}

func TestParseValueInstant(t *testing.T) {
	v := mustParseValue(t, `#inst "1985-04-12T23:20:50.52Z"`)
	want := time.Date(1985, 4, 12, 23, 20, 50, 520000000, time.UTC)
	got := v.Payload().(time.Time)
	if !got.Equal(want) {
		t.Errorf("#inst = %v, want %v", got, want)
	}
}

func TestParseValueInstMillis(t *testing.T) {
	v := mustParseValue(t, "#instmillis 1000")
	got := v.Payload().(time.Time)
	want := time.Unix(1, 0).UTC()
	if !got.Equal(want) {
		t.Errorf("#instmillis 1000 = %v, want %v", got, want)
	}
}

func TestParseValueInstMicrosNegative(t *testing.T) {
	// -1500000us is -1.5s: truncate toward zero at the second boundary
	// gives -1s, with a 500ms (non-negative) remainder.
	v := mustParseValue(t, "#instmicros -1500000")
	got := v.Payload().(time.Time)
	want := time.Unix(-1, 500000000).UTC()
	if !got.Equal(want) {
		t.Errorf("#instmicros -1500000 = %v, want %v", got, want)
	}
}

func TestParseValueUUID(t *testing.T) {
	v := mustParseValue(t, `#uuid "2a0a1982-96b6-11e6-bf91-02423fefa4c2"`)
	if v.Kind() != KindUuid {
		t.Fatalf("Kind() = %v, want KindUuid", v.Kind())
	}
}

func TestParseValueKeyword(t *testing.T) {
	v := mustParseValue(t, ":foo/bar")
	kw := v.Payload().(Kw)
	if kw.Namespace != "foo" || kw.Name != "bar" {
		t.Errorf(":foo/bar = %+v", kw)
	}
	if !kw.IsForward() || kw.IsBackward() {
		t.Errorf(":foo/bar should be forward")
	}

	v = mustParseValue(t, ":foo/_bar")
	kw = v.Payload().(Kw)
	if !kw.IsBackward() {
		t.Errorf(":foo/_bar should be backward")
	}
	if rev := kw.Reversed(); rev.Namespace != "foo" || rev.Name != "bar" {
		t.Errorf(":foo/_bar reversed = %+v, want foo/bar", rev)
	}
}

func TestParseValueSymbol(t *testing.T) {
	v := mustParseValue(t, "?x")
	sym := v.Payload().(Sym)
	if !sym.IsVariable() {
		t.Errorf("?x should be a variable symbol")
	}

	v = mustParseValue(t, "$src")
	if !v.Payload().(Sym).IsSrcVar() {
		t.Errorf("$src should be a src-var symbol")
	}
}

func TestParseValueWhitespaceCommaEquivalence(t *testing.T) {
	inputs := []string{"[1 2]", "[1,2]", "[1 ,, 2]", "[1;comment\n2]"}
	var want []Value
	for _, src := range inputs {
		v := mustParseValue(t, src)
		vs := v.Payload().([]Value)
		if want == nil {
			want = vs
			continue
		}
		if len(vs) != len(want) {
			t.Fatalf("%q: len = %d, want %d", src, len(vs), len(want))
		}
		for i := range vs {
			if vs[i].Compare(want[i]) != 0 {
				t.Errorf("%q: element %d = %v, want %v", src, i, vs[i].Payload(), want[i].Payload())
			}
		}
	}
}

func TestParseValueSetDedup(t *testing.T) {
	v := mustParseValue(t, "#{1 1 2}")
	s := v.Payload().(*Set)
	if s.Len() != 2 {
		t.Errorf("#{1 1 2}.Len() = %d, want 2", s.Len())
	}
}

func TestParseValueMapLastWins(t *testing.T) {
	v := mustParseValue(t, "{:a 1 :a 2}")
	m := v.Payload().(*Map)
	kw := NewKw("", "a")
	got, ok := m.Get(newValue(Span{}, KindKeyword, kw))
	if !ok {
		t.Fatalf("map missing key :a")
	}
	if got.Payload().(int64) != 2 {
		t.Errorf(`{:a 1 :a 2} ["a"] = %v, want 2`, got.Payload())
	}
}

func TestParseValueOddMapIsError(t *testing.T) {
	if _, err := ParseValue("{:a 1 :b}"); err == nil {
		t.Errorf("expected error for odd-length map")
	}
}

func TestParseValueList(t *testing.T) {
	v := mustParseValue(t, "(1 2 3)")
	n := v.Payload().(*ListNode)
	if got := ListLen(n); got != 3 {
		t.Errorf("ListLen = %d, want 3", got)
	}
}

func TestParseValueTrailingGarbageIsError(t *testing.T) {
	if _, err := ParseValue("1 2"); err == nil {
		t.Errorf("expected error for trailing content")
	}
}

func TestParseAtomRejectsCollections(t *testing.T) {
	if _, err := ParseAtom("[1 2]"); err == nil {
		t.Errorf("expected error parsing a vector as an atom")
	}
	v, err := ParseAtom("42")
	if err != nil {
		t.Fatalf("ParseAtom(42): %v", err)
	}
	if v.Payload().(int64) != 42 {
		t.Errorf("ParseAtom(42) = %v", v.Payload())
	}
}

func TestValueCompareOrdering(t *testing.T) {
	a := mustParseValue(t, "1")
	b := mustParseValue(t, "2")
	if a.Compare(b) >= 0 {
		t.Errorf("1 should compare less than 2")
	}
	if diff := cmp.Diff(a, a, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("value should equal itself: %s", diff)
	}
}

func TestBasedIntegerOverflowIsError(t *testing.T) {
	if _, err := ParseValue("36rzzzzzzzzzzzzzzzzzzzzzzzzz"); err == nil {
		t.Errorf("expected overflow error for oversized based integer")
	}
}
