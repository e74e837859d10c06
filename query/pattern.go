package query

import "github.com/eenblam/mentat/edn"

func nonValuePlaceFromValue(v edn.Value) (PatternNonValuePlace, error) {
	if isPlaceholder(v) {
		return PatternNonValuePlace{Kind: NonValuePlaceholder}, nil
	}
	if vr, ok := tryVariable(v); ok {
		return PatternNonValuePlace{Kind: NonValueVariable, Variable: vr}, nil
	}
	if eoi, ok := tryEntidOrIdent(v); ok {
		return PatternNonValuePlace{Kind: NonValueEntid, Entid: eoi}, nil
	}
	return PatternNonValuePlace{}, edn.NewParseError(v.Span().Start, "pattern_non_value_place")
}

func valuePlaceFromValue(v edn.Value) (PatternValuePlace, error) {
	if isPlaceholder(v) {
		return PatternValuePlace{Kind: ValuePlaceholder}, nil
	}
	if vr, ok := tryVariable(v); ok {
		return PatternValuePlace{Kind: ValuePlaceVariable, Variable: vr}, nil
	}
	if !v.IsAtom() {
		return PatternValuePlace{}, edn.NewParseError(v.Span().Start, "pattern_value_place")
	}
	return PatternValuePlace{Kind: ValuePlaceConstant, Constant: v}, nil
}

// valuePlaceToNonValuePlace converts a v-position place into an e-position
// place, for backward-attribute rewriting. It fails when the constant
// carried by a PatternValuePlace is not itself an entid or a namespaced
// keyword identifier — spec.md §3 invariant 4's "resulting e position
// cannot accept a PatternNonValuePlace" case.
func valuePlaceToNonValuePlace(vp PatternValuePlace) (PatternNonValuePlace, error) {
	switch vp.Kind {
	case ValuePlaceholder:
		return PatternNonValuePlace{Kind: NonValuePlaceholder}, nil
	case ValuePlaceVariable:
		return PatternNonValuePlace{Kind: NonValueVariable, Variable: vp.Variable}, nil
	default:
		if eoi, ok := tryEntidOrIdent(vp.Constant); ok {
			return PatternNonValuePlace{Kind: NonValueEntid, Entid: eoi}, nil
		}
		return PatternNonValuePlace{}, edn.NewParseError(vp.Constant.Span().Start, "pattern_non_value_place")
	}
}

// nonValuePlaceToValuePlace converts an e-position place into a v-position
// place; this direction never fails, because every NonValuePlace variant
// has a corresponding ValuePlace variant.
func nonValuePlaceToValuePlace(nvp PatternNonValuePlace) PatternValuePlace {
	switch nvp.Kind {
	case NonValuePlaceholder:
		return PatternValuePlace{Kind: ValuePlaceholder}
	case NonValueVariable:
		return PatternValuePlace{Kind: ValuePlaceVariable, Variable: nvp.Variable}
	default:
		var c edn.Value
		if entid, ok := nvp.Entid.AsEntid(); ok {
			c = edn.NewIntValue(entid)
		} else {
			ident, _ := nvp.Entid.AsIdent()
			c = edn.NewKeywordValue(ident)
		}
		return PatternValuePlace{Kind: ValuePlaceConstant, Constant: c}
	}
}

// patternFromValue implements spec.md §4.4's Pattern production: optional
// source-var, entity-non-value-place, attribute-non-value-place, optional
// value-place, optional tx-non-value-place, followed by the
// backward-attribute rewrite: if the attribute is a backward namespaced
// keyword, e and v swap roles and the attribute reverses.
func patternFromValue(v edn.Value) (Pattern, error) {
	if v.Kind() != edn.KindVector {
		return Pattern{}, edn.NewParseError(v.Span().Start, "pattern")
	}
	vs := v.Payload().([]edn.Value)

	idx := 0
	var source *SrcVar
	if len(vs) > 0 {
		if sv, ok := trySrcVar(vs[0]); ok {
			source = &sv
			idx = 1
		}
	}

	if len(vs)-idx < 2 {
		return Pattern{}, edn.NewParseError(v.Span().Start, "pattern")
	}
	if len(vs)-idx > 4 {
		return Pattern{}, edn.NewParseError(v.Span().Start, "pattern")
	}

	e, err := nonValuePlaceFromValue(vs[idx])
	if err != nil {
		return Pattern{}, err
	}
	a, err := nonValuePlaceFromValue(vs[idx+1])
	if err != nil {
		return Pattern{}, err
	}

	val := PatternValuePlace{Kind: ValuePlaceholder}
	if len(vs)-idx >= 3 {
		val, err = valuePlaceFromValue(vs[idx+2])
		if err != nil {
			return Pattern{}, err
		}
	}

	txPlace := PatternNonValuePlace{Kind: NonValuePlaceholder}
	if len(vs)-idx >= 4 {
		txPlace, err = nonValuePlaceFromValue(vs[idx+3])
		if err != nil {
			return Pattern{}, err
		}
	}

	pat := Pattern{Source: source, E: e, A: a, V: val, Tx: txPlace}

	if pat.A.Kind == NonValueEntid {
		if kw, ok := pat.A.Entid.AsIdent(); ok && kw.IsBackward() {
			newE, err := valuePlaceToNonValuePlace(pat.V)
			if err != nil {
				return Pattern{}, edn.NewParseErrorWrap(v.Span().Start, "pattern", err)
			}
			newV := nonValuePlaceToValuePlace(pat.E)
			pat.E = newE
			pat.V = newV
			pat.A = PatternNonValuePlace{Kind: NonValueEntid, Entid: Ident(kw.Reversed())}
		}
	}

	return pat, nil
}
