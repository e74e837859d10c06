package query

import "github.com/eenblam/mentat/edn"

// clauseFromValue dispatches a single :where entry. A list is an or/not
// clause (it carries its own head symbol); a vector whose first element is
// itself a list is a predicate, where-fn, or type annotation; any other
// vector is a bare data pattern.
func clauseFromValue(v edn.Value) (WhereClause, error) {
	switch v.Kind() {
	case edn.KindList:
		return orOrNotClauseFromList(v)
	case edn.KindVector:
		vs := v.Payload().([]edn.Value)
		if len(vs) >= 1 && vs[0].Kind() == edn.KindList {
			return predOrWhereFnOrTypeFromVector(v, vs)
		}
		pat, err := patternFromValue(v)
		if err != nil {
			return WhereClause{}, err
		}
		return WhereClause{Kind: ClausePattern, Pattern: &pat}, nil
	default:
		return WhereClause{}, edn.NewParseError(v.Span().Start, "pattern")
	}
}

func clausesFromValues(vs []edn.Value) ([]WhereClause, error) {
	out := make([]WhereClause, 0, len(vs))
	for _, v := range vs {
		c, err := clauseFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// orOrNotClauseFromList recognizes `(or …)`, `(or-join […] …)`, `(not …)`,
// and `(not-join […] …)`, each optionally preceded by a source-var.
func orOrNotClauseFromList(v edn.Value) (WhereClause, error) {
	elems := edn.ListToSlice(v.Payload().(*edn.ListNode))

	idx := 0
	var source *SrcVar
	if len(elems) > 0 {
		if sv, ok := trySrcVar(elems[0]); ok {
			source = &sv
			idx = 1
		}
	}
	if len(elems)-idx < 1 {
		return WhereClause{}, edn.NewParseError(v.Span().Start, "or, or-join, not, or not-join")
	}
	head, ok := isPlainSymbol(elems[idx])
	if !ok {
		return WhereClause{}, edn.NewParseError(v.Span().Start, "or, or-join, not, or not-join")
	}

	switch head.Name {
	case "or":
		clauses, err := parseOrBody(elems[idx+1:])
		if err != nil {
			return WhereClause{}, err
		}
		oj := OrJoin{Source: source, Unify: UnifyVars{Kind: UnifyImplicit}, Clauses: clauses}
		return WhereClause{Kind: ClauseOrJoin, OrJoin: &oj}, nil
	case "or-join":
		if len(elems)-idx < 2 {
			return WhereClause{}, edn.NewParseError(v.Span().Start, "expected unique variables")
		}
		vars, err := ruleVarsFromValue(elems[idx+1])
		if err != nil {
			return WhereClause{}, err
		}
		clauses, err := parseOrBody(elems[idx+2:])
		if err != nil {
			return WhereClause{}, err
		}
		oj := OrJoin{Source: source, Unify: UnifyVars{Kind: UnifyExplicit, Vars: vars}, Clauses: clauses}
		return WhereClause{Kind: ClauseOrJoin, OrJoin: &oj}, nil
	case "not":
		clauses, err := clausesFromValues(elems[idx+1:])
		if err != nil {
			return WhereClause{}, err
		}
		nj := NotJoin{Source: source, Unify: UnifyVars{Kind: UnifyImplicit}, Clauses: clauses}
		return WhereClause{Kind: ClauseNotJoin, NotJoin: &nj}, nil
	case "not-join":
		if len(elems)-idx < 2 {
			return WhereClause{}, edn.NewParseError(v.Span().Start, "expected unique variables")
		}
		vars, err := ruleVarsFromValue(elems[idx+1])
		if err != nil {
			return WhereClause{}, err
		}
		clauses, err := clausesFromValues(elems[idx+2:])
		if err != nil {
			return WhereClause{}, err
		}
		nj := NotJoin{Source: source, Unify: UnifyVars{Kind: UnifyExplicit, Vars: vars}, Clauses: clauses}
		return WhereClause{Kind: ClauseNotJoin, NotJoin: &nj}, nil
	default:
		return WhereClause{}, edn.NewParseError(v.Span().Start, "or, or-join, not, or not-join")
	}
}

// parseOrBody parses the body of an or/or-join clause: each entry is
// either a where-clause, or an `(and where-clause+)` grouping.
func parseOrBody(vs []edn.Value) ([][]WhereClause, error) {
	if len(vs) == 0 {
		return nil, edn.NewParseError(0, "where-clause")
	}
	out := make([][]WhereClause, 0, len(vs))
	for _, v := range vs {
		if v.Kind() == edn.KindList {
			elems := edn.ListToSlice(v.Payload().(*edn.ListNode))
			if len(elems) > 0 {
				if sym, ok := isPlainSymbol(elems[0]); ok && sym.Namespace == "" && sym.Name == "and" {
					clauses, err := clausesFromValues(elems[1:])
					if err != nil {
						return nil, err
					}
					out = append(out, clauses)
					continue
				}
			}
		}
		c, err := clauseFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, []WhereClause{c})
	}
	return out, nil
}

// ruleVarsFromValue parses `[ var+ ]` and rejects duplicates, per spec.md
// §3 invariant 5.
func ruleVarsFromValue(v edn.Value) ([]Variable, error) {
	if v.Kind() != edn.KindVector {
		return nil, edn.NewParseError(v.Span().Start, "expected unique variables")
	}
	vs := v.Payload().([]edn.Value)
	out := make([]Variable, 0, len(vs))
	seen := make(map[string]bool, len(vs))
	for _, elem := range vs {
		vr, err := variableFromValue(elem)
		if err != nil {
			return nil, err
		}
		key := vr.Sym.String()
		if seen[key] {
			return nil, edn.NewParseError(elem.Span().Start, "expected unique variables")
		}
		seen[key] = true
		out = append(out, vr)
	}
	return out, nil
}

// predOrWhereFnOrTypeFromVector handles `[(fn arg*)]`, `[(fn arg*)
// binding]`, and `[(type ?v :keyword)]`.
func predOrWhereFnOrTypeFromVector(v edn.Value, vs []edn.Value) (WhereClause, error) {
	inner := edn.ListToSlice(vs[0].Payload().(*edn.ListNode))
	if len(inner) == 0 {
		return WhereClause{}, edn.NewParseError(vs[0].Span().Start, "query function")
	}

	if sym, ok := isPlainSymbol(inner[0]); ok && sym.Namespace == "" && sym.Name == "type" {
		if len(vs) != 1 || len(inner) != 3 {
			return WhereClause{}, edn.NewParseError(v.Span().Start, "type annotation of the form [(type ?v :keyword)]")
		}
		vr, err := variableFromValue(inner[1])
		if err != nil {
			return WhereClause{}, err
		}
		if inner[2].Kind() != edn.KindKeyword {
			return WhereClause{}, edn.NewParseError(inner[2].Span().Start, "keyword")
		}
		ta := TypeAnnotation{Variable: vr, Type: inner[2].Payload().(edn.Kw)}
		return WhereClause{Kind: ClauseTypeAnnotation, TypeAnnotation: &ta}, nil
	}

	fn, err := queryFunctionFromValue(inner[0])
	if err != nil {
		return WhereClause{}, err
	}
	args := make([]FnArg, 0, len(inner)-1)
	for _, a := range inner[1:] {
		fa, err := fnArgFromValue(a)
		if err != nil {
			return WhereClause{}, err
		}
		args = append(args, fa)
	}

	switch len(vs) {
	case 1:
		p := Pred{Func: fn, Args: args}
		return WhereClause{Kind: ClausePred, Pred: &p}, nil
	case 2:
		b, err := bindingFromValue(vs[1])
		if err != nil {
			return WhereClause{}, err
		}
		wf := WhereFn{Func: fn, Args: args, Binding: b}
		return WhereClause{Kind: ClauseWhereFn, WhereFn: &wf}, nil
	default:
		return WhereClause{}, edn.NewParseError(v.Span().Start, "pred-expr or fn-expr")
	}
}

// bindingFromValue implements spec.md §4.4's where-fn binding grammar:
// [[var-or-placeholder+]] (BindRel), [var …] (BindColl), [var-or-placeholder+]
// (BindTuple), or a bare variable (BindScalar).
func bindingFromValue(v edn.Value) (Binding, error) {
	if vr, ok := tryVariable(v); ok {
		return Binding{Kind: BindScalar, Scalar: vr}, nil
	}
	if v.Kind() != edn.KindVector {
		return Binding{}, edn.NewParseError(v.Span().Start, "binding")
	}
	vs := v.Payload().([]edn.Value)

	if len(vs) == 1 && vs[0].Kind() == edn.KindVector {
		vps, err := varOrPlaceholdersFromValues(vs[0].Payload().([]edn.Value))
		if err != nil {
			return Binding{}, err
		}
		return Binding{Kind: BindRel, Rel: vps}, nil
	}
	if len(vs) == 2 && isEllipsis(vs[1]) {
		vr, err := variableFromValue(vs[0])
		if err != nil {
			return Binding{}, err
		}
		return Binding{Kind: BindColl, Coll: vr}, nil
	}
	vps, err := varOrPlaceholdersFromValues(vs)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Kind: BindTuple, Tuple: vps}, nil
}

func varOrPlaceholdersFromValues(vs []edn.Value) ([]VariableOrPlaceholder, error) {
	if len(vs) == 0 {
		return nil, edn.NewParseError(0, "variable or placeholder")
	}
	out := make([]VariableOrPlaceholder, 0, len(vs))
	for _, v := range vs {
		if isPlaceholder(v) {
			out = append(out, VariableOrPlaceholder{IsPlaceholder: true})
			continue
		}
		vr, err := variableFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, VariableOrPlaceholder{Variable: vr})
	}
	return out, nil
}
