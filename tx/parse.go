package tx

import (
	"github.com/eenblam/mentat/edn"
)

var (
	kwDbAdd     = edn.NewKw("db", "add")
	kwDbRetract = edn.NewKw("db", "retract")
)

// ParseEntity parses a single transaction entity: an entity vector
// `[op e a v]` or a map-notation entity `{…}`.
func ParseEntity(src string) (Entity, error) {
	v, err := edn.ParseValue(src)
	if err != nil {
		return Entity{}, err
	}
	return entityFromValue(v)
}

// ParseEntities parses a top-level vector of transaction entities.
func ParseEntities(src string) ([]Entity, error) {
	v, err := edn.ParseValue(src)
	if err != nil {
		return nil, err
	}
	if v.Kind() != edn.KindVector {
		return nil, edn.NewParseError(v.Span().Start, "entities")
	}
	vs := v.Payload().([]edn.Value)
	out := make([]Entity, 0, len(vs))
	for _, ev := range vs {
		entity, err := entityFromValue(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func entityFromValue(v edn.Value) (Entity, error) {
	switch v.Kind() {
	case edn.KindVector:
		return entityFromVector(v)
	case edn.KindMap:
		return entityFromMap(v)
	default:
		return Entity{}, edn.NewParseError(v.Span().Start, "entity")
	}
}

// entityFromVector implements spec.md §4.3's two entity-vector shapes. The
// shapes are mutually exclusive by the attribute keyword's forward/backward
// bit, so rather than trying one shape and backtracking to the other, we
// inspect the attribute first and pick the matching shape directly.
func entityFromVector(v edn.Value) (Entity, error) {
	vs := v.Payload().([]edn.Value)
	if len(vs) != 4 {
		return Entity{}, edn.NewParseError(v.Span().Start, "entity vector of the form [op e a v]")
	}

	op, err := opFromValue(vs[0])
	if err != nil {
		return Entity{}, err
	}

	attr, err := attributePlaceFromValue(vs[2])
	if err != nil {
		return Entity{}, err
	}

	if attr.IsBackward() {
		ePlace, err := entityPlaceFromValue(vs[3])
		if err != nil {
			return Entity{}, err
		}
		vPlace, err := valuePlaceFromValue(vs[1])
		if err != nil {
			return Entity{}, err
		}
		return Entity{Kind: EntityAddOrRetract, Op: op, E: ePlace, A: attr.Reversed(), V: vPlace}, nil
	}

	ePlace, err := entityPlaceFromValue(vs[1])
	if err != nil {
		return Entity{}, err
	}
	vPlace, err := valuePlaceFromValue(vs[3])
	if err != nil {
		return Entity{}, err
	}
	return Entity{Kind: EntityAddOrRetract, Op: op, E: ePlace, A: attr, V: vPlace}, nil
}

func opFromValue(v edn.Value) (OpType, error) {
	if v.Kind() != edn.KindKeyword {
		return 0, edn.NewParseError(v.Span().Start, ":db/add or :db/retract")
	}
	kw := v.Payload().(edn.Kw)
	switch {
	case kw == kwDbAdd:
		return OpAdd, nil
	case kw == kwDbRetract:
		return OpRetract, nil
	default:
		return 0, edn.NewParseError(v.Span().Start, ":db/add or :db/retract")
	}
}

// entityFromMap implements spec.md §4.3's map-notation entity: an ordered
// sequence of (EntidOrIdent, ValuePlace) pairs.
func entityFromMap(v edn.Value) (Entity, error) {
	m := v.Payload().(*edn.Map)
	entries := m.Entries()
	out := make([]MapNotationEntry, 0, len(entries))
	for _, e := range entries {
		eoi, ok := tryEntidOrIdent(e.Key)
		if !ok {
			return Entity{}, edn.NewParseError(e.Key.Span().Start, "entid or namespaced keyword")
		}
		vp, err := valuePlaceFromValue(e.Val)
		if err != nil {
			return Entity{}, err
		}
		out = append(out, MapNotationEntry{A: eoi, V: vp})
	}
	return Entity{Kind: EntityMapNotation, MapNotation: out}, nil
}

// tryEntidOrIdent reports ok=false, without an error, for any value that
// isn't shaped like an entid or keyword identifier — callers that try this
// as one of several ordered alternatives rely on that to fall through.
func tryEntidOrIdent(v edn.Value) (EntidOrIdent, bool) {
	switch v.Kind() {
	case edn.KindInt:
		return Entid(v.Payload().(int64)), true
	case edn.KindKeyword:
		kw := v.Payload().(edn.Kw)
		if kw.Namespace == "" {
			return EntidOrIdent{}, false
		}
		return Ident(kw), true
	default:
		return EntidOrIdent{}, false
	}
}

func attributePlaceFromValue(v edn.Value) (AttributePlace, error) {
	eoi, ok := tryEntidOrIdent(v)
	if !ok {
		return AttributePlace{}, edn.NewParseError(v.Span().Start, "namespaced keyword")
	}
	return AttributePlace{Entid: eoi}, nil
}

// entityPlaceFromValue tries, in spec.md §4.3's order, raw text (temp-id),
// entid/ident, lookup-ref, then tx-function.
func entityPlaceFromValue(v edn.Value) (EntityPlace, error) {
	if v.Kind() == edn.KindText {
		return EntityPlace{Kind: EntityPlaceTempId, TempId: v.Payload().(string)}, nil
	}
	if eoi, ok := tryEntidOrIdent(v); ok {
		return EntityPlace{Kind: EntityPlaceEntid, Entid: eoi}, nil
	}
	if lr, ok, err := tryLookupRef(v); err != nil {
		return EntityPlace{}, err
	} else if ok {
		return EntityPlace{Kind: EntityPlaceLookupRef, LookupRef: lr}, nil
	}
	if fn, ok, err := tryTxFunction(v); err != nil {
		return EntityPlace{}, err
	} else if ok {
		return EntityPlace{Kind: EntityPlaceTxFunction, TxFunction: fn}, nil
	}
	return EntityPlace{}, edn.NewParseError(v.Span().Start, "entity")
}

// valuePlaceFromValue tries, in spec.md §4.3's order, lookup-ref,
// tx-function, a bracketed vector of value-places, map-notation, then a
// bare atom. Any other collection shape is rejected.
func valuePlaceFromValue(v edn.Value) (ValuePlace, error) {
	if lr, ok, err := tryLookupRef(v); err != nil {
		return ValuePlace{}, err
	} else if ok {
		return ValuePlace{Kind: ValuePlaceLookupRef, LookupRef: lr}, nil
	}
	if fn, ok, err := tryTxFunction(v); err != nil {
		return ValuePlace{}, err
	} else if ok {
		return ValuePlace{Kind: ValuePlaceTxFunction, TxFunction: fn}, nil
	}
	if v.Kind() == edn.KindVector {
		vs := v.Payload().([]edn.Value)
		out := make([]ValuePlace, 0, len(vs))
		for _, elem := range vs {
			vp, err := valuePlaceFromValue(elem)
			if err != nil {
				return ValuePlace{}, err
			}
			out = append(out, vp)
		}
		return ValuePlace{Kind: ValuePlaceVector, Vector: out}, nil
	}
	if v.Kind() == edn.KindMap {
		m := v.Payload().(*edn.Map)
		entries := m.Entries()
		out := make([]MapNotationEntry, 0, len(entries))
		for _, e := range entries {
			eoi, ok := tryEntidOrIdent(e.Key)
			if !ok {
				return ValuePlace{}, edn.NewParseError(e.Key.Span().Start, "entid or namespaced keyword")
			}
			vp, err := valuePlaceFromValue(e.Val)
			if err != nil {
				return ValuePlace{}, err
			}
			out = append(out, MapNotationEntry{A: eoi, V: vp})
		}
		return ValuePlace{Kind: ValuePlaceMapNotation, MapNotation: out}, nil
	}
	if !v.IsAtom() {
		return ValuePlace{}, edn.NewParseError(v.Span().Start, "atom, vector, map-notation, lookup-ref, or tx-function")
	}
	return ValuePlace{Kind: ValuePlaceAtom, Atom: v}, nil
}

// tryLookupRef recognizes `(lookup-ref entid value)`: a three-element
// list whose head is the plain symbol `lookup-ref`. A list that merely
// starts with some other head is not a lookup-ref at all (ok=false, no
// error); a list that starts with `lookup-ref` but is otherwise malformed
// is a hard error.
func tryLookupRef(v edn.Value) (*LookupRef, bool, error) {
	if v.Kind() != edn.KindList {
		return nil, false, nil
	}
	elems := edn.ListToSlice(v.Payload().(*edn.ListNode))
	if len(elems) == 0 || !isPlainSymbolNamed(elems[0], "lookup-ref") {
		return nil, false, nil
	}
	if len(elems) != 3 {
		return nil, false, edn.NewParseError(v.Span().Start, "lookup-ref of the form (lookup-ref entid value)")
	}
	attr, err := attributePlaceFromValue(elems[1])
	if err != nil {
		return nil, false, err
	}
	if attr.IsBackward() {
		return nil, false, edn.NewParseError(elems[1].Span().Start, "forward entid")
	}
	return &LookupRef{A: attr, V: elems[2]}, true, nil
}

// tryTxFunction recognizes a one-element list whose sole element is a
// plain (un-namespaced) symbol other than `lookup-ref`.
func tryTxFunction(v edn.Value) (*TxFunction, bool, error) {
	if v.Kind() != edn.KindList {
		return nil, false, nil
	}
	elems := edn.ListToSlice(v.Payload().(*edn.ListNode))
	if len(elems) != 1 || elems[0].Kind() != edn.KindSymbol {
		return nil, false, nil
	}
	sym := elems[0].Payload().(edn.Sym)
	if sym.Namespace != "" || sym.Name == "lookup-ref" {
		return nil, false, nil
	}
	return &TxFunction{Op: sym}, true, nil
}

func isPlainSymbolNamed(v edn.Value, name string) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == name
}
