package edn

import (
	"math/big"
	"time"

	"github.com/heyLu/fressian"

	"github.com/eenblam/mentat/ord"
)

// Kind tags the variant carried by a Value, mirroring the teacher's own
// index.ValueType discriminator (index/value.go) but extended with the
// extra EDN shapes (nil, big integer, symbol, the three collection kinds)
// that a datom value never needs but a parsed document does.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindText
	KindInstant
	KindUuid
	KindSymbol
	KindKeyword
	KindList
	KindVector
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindBigInt:
		return "big integer"
	case KindFloat:
		return "float"
	case KindText:
		return "string"
	case KindInstant:
		return "instant"
	case KindUuid:
		return "uuid"
	case KindSymbol:
		return "symbol"
	case KindKeyword:
		return "keyword"
	case KindList:
		return "list"
	case KindVector:
		return "vector"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "value"
	}
}

// Value is a span-annotated EDN value. It is immutable after construction:
// every field is set once, at parse time, and never mutated afterwards.
//
// The payload lives behind Payload() rather than as typed struct fields,
// the same way the teacher's index.Value keeps a bare `val interface{}`
// behind a ValueType tag — callers switch on Kind() and assert the
// concrete payload type, exactly as transactor/txdata_edn.go's
// datumValueFromValue does against edn.DecodeString's output.
//
// Concrete payload types by Kind:
//
//	KindNil      nil
//	KindBool     bool
//	KindInt      int64
//	KindBigInt   *big.Int
//	KindFloat    float64
//	KindText     string
//	KindInstant  time.Time (UTC)
//	KindUuid     fressian.UUID
//	KindSymbol   Sym
//	KindKeyword  Kw
//	KindList     *ListNode (nil means the empty list)
//	KindVector   []Value
//	KindSet      *Set
//	KindMap      *Map
type Value struct {
	span Span
	kind Kind
	val  interface{}
}

func newValue(span Span, kind Kind, val interface{}) Value {
	return Value{span: span, kind: kind, val: val}
}

// NewIntValue builds a zero-span integer Value, for callers (e.g. the
// query package's backward-attribute rewrite) that synthesize a Value
// from an already-parsed entid rather than from source text.
func NewIntValue(n int64) Value { return newValue(Span{}, KindInt, n) }

// NewKeywordValue builds a zero-span keyword Value; see NewIntValue.
func NewKeywordValue(k Kw) Value { return newValue(Span{}, KindKeyword, k) }

// Span returns the byte range of the input text that produced this value.
func (v Value) Span() Span { return v.span }

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// Payload returns the underlying Go value behind this Value; see the type
// table on Value for which concrete type to expect for each Kind.
func (v Value) Payload() interface{} { return v.val }

// IsAtom reports whether v is a non-collection value: nil, boolean, number,
// text, instant, uuid, symbol, or keyword.
func (v Value) IsAtom() bool {
	switch v.kind {
	case KindList, KindVector, KindSet, KindMap:
		return false
	default:
		return true
	}
}

// Sym is a symbol: an optional namespace plus a required name, e.g. `foo`
// or `foo.bar/baz`.
type Sym struct {
	Namespace string
	Name      string
}

func (s Sym) String() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "/" + s.Name
}

// IsVariable reports whether this symbol's name begins with '?', marking it
// as a query Variable.
func (s Sym) IsVariable() bool { return len(s.Name) > 0 && s.Name[0] == '?' }

// IsSrcVar reports whether this symbol's name begins with '$', marking it
// as a query SrcVar.
func (s Sym) IsSrcVar() bool { return len(s.Name) > 0 && s.Name[0] == '$' }

// Kw is a keyword: an optional namespace plus a required name, e.g. `:foo`
// or `:foo/bar`. Kw embeds the teacher's own fressian.Keyword, the same
// type database.Keyword wraps for exactly this purpose, so a parsed
// keyword is already shaped the way the rest of the fressian-based
// ecosystem expects.
type Kw struct {
	fressian.Keyword
}

// NewKw builds a keyword from a namespace and a name. An empty namespace
// means the keyword is unnamespaced.
func NewKw(namespace, name string) Kw {
	return Kw{fressian.Keyword{Namespace: namespace, Name: name}}
}

func (k Kw) String() string {
	if k.Namespace == "" {
		return ":" + k.Name
	}
	return ":" + k.Namespace + "/" + k.Name
}

// IsForward reports whether this keyword's name does not begin with '_'.
func (k Kw) IsForward() bool { return !k.IsBackward() }

// IsBackward reports whether this keyword's name begins with '_', marking
// it as the reverse direction of a reference attribute.
func (k Kw) IsBackward() bool { return len(k.Name) > 0 && k.Name[0] == '_' }

// Reversed flips the forward/backward bit: `:foo/_bar` becomes `:foo/bar`
// and vice versa.
func (k Kw) Reversed() Kw {
	if k.IsBackward() {
		return NewKw(k.Namespace, k.Name[1:])
	}
	return NewKw(k.Namespace, "_"+k.Name)
}

// Compare gives Value a total order so it can key the red-black tree
// backing Set and Map (see ord.Comparable), and so Set/Map iteration order
// is deterministic independent of insertion order. Values of different
// Kind order by Kind; values of the same Kind order by payload, the way
// index.Value.Compare (index/value.go) orders datom values of the same
// ValueType.
func (v Value) Compare(other ord.Comparable) int {
	ov := other.(Value)
	if v.kind != ov.kind {
		if v.kind < ov.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindNil:
		return 0
	case KindBool:
		a, b := v.val.(bool), ov.val.(bool)
		if a == b {
			return 0
		} else if !a {
			return -1
		}
		return 1
	case KindInt:
		a, b := v.val.(int64), ov.val.(int64)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case KindBigInt:
		return v.val.(*big.Int).Cmp(ov.val.(*big.Int))
	case KindFloat:
		a, b := v.val.(float64), ov.val.(float64)
		return compareFloat(a, b)
	case KindText:
		a, b := v.val.(string), ov.val.(string)
		if a == b {
			return 0
		} else if a < b {
			return -1
		}
		return 1
	case KindInstant:
		a, b := v.val.(time.Time), ov.val.(time.Time)
		if a.Equal(b) {
			return 0
		} else if a.Before(b) {
			return -1
		}
		return 1
	case KindUuid:
		a, b := v.val.(fressian.UUID), ov.val.(fressian.UUID)
		if a.Msb != b.Msb {
			if a.Msb < b.Msb {
				return -1
			}
			return 1
		}
		if a.Lsb != b.Lsb {
			if a.Lsb < b.Lsb {
				return -1
			}
			return 1
		}
		return 0
	case KindSymbol:
		return compareNames(v.val.(Sym).Namespace, v.val.(Sym).Name, ov.val.(Sym).Namespace, ov.val.(Sym).Name)
	case KindKeyword:
		return compareNames(v.val.(Kw).Namespace, v.val.(Kw).Name, ov.val.(Kw).Namespace, ov.val.(Kw).Name)
	case KindVector:
		return compareValueSlices(v.val.([]Value), ov.val.([]Value))
	case KindList:
		return compareValueSlices(ListToSlice(v.val.(*ListNode)), ListToSlice(ov.val.(*ListNode)))
	case KindSet:
		return compareValueSlices(v.val.(*Set).ToSlice(), ov.val.(*Set).ToSlice())
	case KindMap:
		return v.val.(*Map).compare(ov.val.(*Map))
	default:
		return 0
	}
}

// compareFloat orders floats with NaN treated as a valid, totally-ordered
// payload: NaN sorts below every other float (including -Inf), and all
// NaNs compare equal to each other, which gives a total order, per
// spec.md's requirement that "NaN is a valid, totally-ordered payload."
// Equality is numeric, not bitwise: 0.0 and -0.0 also compare equal.
func compareFloat(a, b float64) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareNames(ans, aname, bns, bname string) int {
	if ans != bns {
		if ans < bns {
			return -1
		}
		return 1
	}
	if aname == bname {
		return 0
	} else if aname < bname {
		return -1
	}
	return 1
}

func compareValueSlices(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
