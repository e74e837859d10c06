package query

import "github.com/eenblam/mentat/edn"

// findSpecFromValues implements spec.md §4.4's four find-spec shapes,
// distinguished by trailing token: `elem .` (scalar), `[elem …]` (coll),
// `[elem+]` (tuple), or bare `elem+` (rel).
func findSpecFromValues(vs []edn.Value, at int) (FindSpec, error) {
	if len(vs) == 0 {
		return FindSpec{}, edn.NewParseError(at, "find-spec")
	}
	if len(vs) == 2 && isDot(vs[1]) {
		elem, err := findElemFromValue(vs[0])
		if err != nil {
			return FindSpec{}, err
		}
		return FindSpec{Kind: FindSpecScalar, Elem: elem}, nil
	}
	if len(vs) == 1 && vs[0].Kind() == edn.KindVector {
		inner := vs[0].Payload().([]edn.Value)
		if len(inner) == 2 && isEllipsis(inner[1]) {
			elem, err := findElemFromValue(inner[0])
			if err != nil {
				return FindSpec{}, err
			}
			return FindSpec{Kind: FindSpecColl, Elem: elem}, nil
		}
		elems, err := findElemsFromValues(inner)
		if err != nil {
			return FindSpec{}, err
		}
		return FindSpec{Kind: FindSpecTuple, Elems: elems}, nil
	}
	elems, err := findElemsFromValues(vs)
	if err != nil {
		return FindSpec{}, err
	}
	return FindSpec{Kind: FindSpecRel, Elems: elems}, nil
}

func isDot(v edn.Value) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == "."
}

func findElemsFromValues(vs []edn.Value) ([]Element, error) {
	out := make([]Element, 0, len(vs))
	for _, v := range vs {
		e, err := findElemFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// findElemFromValue recognizes a variable, `(the ?v)`, `(pull ?v […])`,
// or any other `(fn arg*)` form as an aggregate.
func findElemFromValue(v edn.Value) (Element, error) {
	if vr, ok := tryVariable(v); ok {
		return Element{Kind: ElementVariable, Variable: vr}, nil
	}
	if v.Kind() == edn.KindList {
		elems := edn.ListToSlice(v.Payload().(*edn.ListNode))
		if len(elems) > 0 {
			if sym, ok := isPlainSymbol(elems[0]); ok {
				switch sym.Name {
				case "the":
					if len(elems) != 2 {
						return Element{}, edn.NewParseError(v.Span().Start, "(the ?v)")
					}
					vr, err := variableFromValue(elems[1])
					if err != nil {
						return Element{}, err
					}
					return Element{Kind: ElementCorresponding, Variable: vr}, nil
				case "pull":
					pull, err := pullFromElems(v, elems[1:])
					if err != nil {
						return Element{}, err
					}
					return Element{Kind: ElementPull, Pull: &pull}, nil
				default:
					args := make([]FnArg, 0, len(elems)-1)
					for _, a := range elems[1:] {
						fa, err := fnArgFromValue(a)
						if err != nil {
							return Element{}, err
						}
						args = append(args, fa)
					}
					agg := Aggregate{Func: sym, Args: args}
					return Element{Kind: ElementAggregate, Aggregate: &agg}, nil
				}
			}
		}
	}
	return Element{}, edn.NewParseError(v.Span().Start, "variable, (the ?v), (pull ?v […]), or aggregate")
}

// pullFromElems parses the body of `(pull src-var? ?v [attr-spec+])`.
func pullFromElems(v edn.Value, rest []edn.Value) (Pull, error) {
	idx := 0
	var source *SrcVar
	if len(rest) > 0 {
		if sv, ok := trySrcVar(rest[0]); ok {
			source = &sv
			idx = 1
		}
	}
	if len(rest)-idx != 2 {
		return Pull{}, edn.NewParseError(v.Span().Start, "(pull ?v [attr-spec+])")
	}
	vr, err := variableFromValue(rest[idx])
	if err != nil {
		return Pull{}, err
	}
	patVal := rest[idx+1]
	if patVal.Kind() != edn.KindVector {
		return Pull{}, edn.NewParseError(patVal.Span().Start, "pull pattern vector")
	}
	specs, err := pullAttributeSpecsFromValues(patVal.Payload().([]edn.Value))
	if err != nil {
		return Pull{}, err
	}
	return Pull{Source: source, Variable: vr, Patterns: specs}, nil
}

// pullAttributeSpecsFromValues parses attr-spec+: `*`, or a forward
// namespaced keyword optionally followed by `:as forward-keyword`.
func pullAttributeSpecsFromValues(vs []edn.Value) ([]PullAttributeSpec, error) {
	if len(vs) == 0 {
		return nil, edn.NewParseError(0, "attr-spec+")
	}
	out := make([]PullAttributeSpec, 0, len(vs))
	i := 0
	for i < len(vs) {
		v := vs[i]
		if isWildcard(v) {
			out = append(out, PullAttributeSpec{Kind: PullWildcard})
			i++
			continue
		}
		if v.Kind() != edn.KindKeyword {
			return nil, edn.NewParseError(v.Span().Start, "namespaced keyword")
		}
		kw := v.Payload().(edn.Kw)
		if kw.Namespace == "" || kw.IsBackward() {
			return nil, edn.NewParseError(v.Span().Start, "expected namespaced :forward/…")
		}
		spec := PullAttributeSpec{Kind: PullAttribute, Attribute: kw}
		i++
		if i+1 < len(vs) && isAsKeyword(vs[i]) {
			aliasVal := vs[i+1]
			if aliasVal.Kind() != edn.KindKeyword {
				return nil, edn.NewParseError(aliasVal.Span().Start, "namespaced keyword")
			}
			alias := aliasVal.Payload().(edn.Kw)
			if alias.IsBackward() {
				return nil, edn.NewParseError(aliasVal.Span().Start, "expected :forward…")
			}
			spec.Alias = &alias
			i += 2
		}
		out = append(out, spec)
	}
	return out, nil
}

func isWildcard(v edn.Value) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == "*"
}

func isAsKeyword(v edn.Value) bool {
	if v.Kind() != edn.KindKeyword {
		return false
	}
	kw := v.Payload().(edn.Kw)
	return kw.Namespace == "" && kw.Name == "as"
}
