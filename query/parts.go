package query

import (
	"github.com/eenblam/mentat/edn"
)

// partKind identifies one of the keyword-introduced sections of a
// top-level query vector.
type partKind int

const (
	partFind partKind = iota
	partIn
	partWhere
	partLimit
	partOrder
	partWith
)

func partKindFromKeyword(kw edn.Kw) (partKind, bool) {
	if kw.Namespace != "" {
		return 0, false
	}
	switch kw.Name {
	case "find":
		return partFind, true
	case "in":
		return partIn, true
	case "where":
		return partWhere, true
	case "limit":
		return partLimit, true
	case "order":
		return partOrder, true
	case "with":
		return partWith, true
	default:
		return 0, false
	}
}

func partKindName(k partKind) string {
	switch k {
	case partFind:
		return ":find"
	case partIn:
		return ":in"
	case partWhere:
		return ":where"
	case partLimit:
		return ":limit"
	case partOrder:
		return ":order"
	case partWith:
		return ":with"
	default:
		return "query part"
	}
}

// splitQueryParts walks a top-level `[:find … :where … ]` vector and groups
// the forms following each keyword marker, up to the next marker or the
// end of input.
func splitQueryParts(vs []edn.Value) (map[partKind][]edn.Value, error) {
	parts := make(map[partKind][]edn.Value)
	order := make([]partKind, 0, 6)

	i := 0
	for i < len(vs) {
		v := vs[i]
		if v.Kind() != edn.KindKeyword {
			return nil, edn.NewParseError(v.Span().Start, "query part keyword (:find, :in, :where, :limit, :order, or :with)")
		}
		kind, ok := partKindFromKeyword(v.Payload().(edn.Kw))
		if !ok {
			return nil, edn.NewParseError(v.Span().Start, "query part keyword (:find, :in, :where, :limit, :order, or :with)")
		}
		if _, dup := parts[kind]; dup {
			return nil, edn.NewParseError(v.Span().Start, "at most one "+partKindName(kind)+" clause")
		}
		j := i + 1
		for j < len(vs) && vs[j].Kind() != edn.KindKeyword {
			j++
		}
		parts[kind] = vs[i+1 : j]
		order = append(order, kind)
		i = j
	}

	if _, ok := parts[partFind]; !ok {
		return nil, edn.NewParseError(0, "required :find clause")
	}
	return parts, nil
}

// ParseQuery parses a complete query of the form
// `[:find … :in … :where … :limit … :order … :with …]`, per spec.md §4.4.
func ParseQuery(src string) (*ParsedQuery, error) {
	v, err := edn.ParseValue(src)
	if err != nil {
		return nil, err
	}
	if v.Kind() != edn.KindVector {
		return nil, edn.NewParseError(v.Span().Start, "query vector")
	}
	parts, err := splitQueryParts(v.Payload().([]edn.Value))
	if err != nil {
		return nil, err
	}

	find, err := findSpecFromValues(parts[partFind], v.Span().Start)
	if err != nil {
		return nil, err
	}

	pq := &ParsedQuery{Find: find}

	if inVs, ok := parts[partIn]; ok {
		inEntries, err := inBindingsFromValues(inVs)
		if err != nil {
			return nil, err
		}
		pq.In = inEntries
	}

	if whereVs, ok := parts[partWhere]; ok {
		clauses, err := clausesFromValues(whereVs)
		if err != nil {
			return nil, err
		}
		pq.Where = clauses
	}

	if limitVs, ok := parts[partLimit]; ok {
		limit, err := limitFromValues(limitVs)
		if err != nil {
			return nil, err
		}
		pq.Limit = &limit
	}

	if orderVs, ok := parts[partOrder]; ok {
		orders, err := ordersFromValues(orderVs)
		if err != nil {
			return nil, err
		}
		pq.Order = orders
	}

	if withVs, ok := parts[partWith]; ok {
		vars, err := withVarsFromValues(withVs)
		if err != nil {
			return nil, err
		}
		pq.With = vars
	}

	if err := validateParsedQuery(pq); err != nil {
		return nil, err
	}

	return pq, nil
}

// ParseWhereFn parses a single standalone `[(fn arg*) binding]` where-fn
// clause, for callers (such as a rule body) that parse one function
// binding at a time rather than an entire query vector.
func ParseWhereFn(src string) (WhereFn, error) {
	v, err := edn.ParseValue(src)
	if err != nil {
		return WhereFn{}, err
	}
	if v.Kind() != edn.KindVector {
		return WhereFn{}, edn.NewParseError(v.Span().Start, "[(fn arg*) binding]")
	}
	vs := v.Payload().([]edn.Value)
	if len(vs) != 2 || vs[0].Kind() != edn.KindList {
		return WhereFn{}, edn.NewParseError(v.Span().Start, "[(fn arg*) binding]")
	}
	clause, err := predOrWhereFnOrTypeFromVector(v, vs)
	if err != nil {
		return WhereFn{}, err
	}
	if clause.Kind != ClauseWhereFn {
		return WhereFn{}, edn.NewParseError(v.Span().Start, "[(fn arg*) binding]")
	}
	return *clause.WhereFn, nil
}

// inBindingsFromValues parses the body of an :in clause: one or more of a
// source variable, the rules variable `%`, or a destructuring binding.
func inBindingsFromValues(vs []edn.Value) ([]InBindingEntry, error) {
	out := make([]InBindingEntry, 0, len(vs))
	for _, v := range vs {
		if isRulesVar(v) {
			out = append(out, InBindingEntry{Kind: InBindingRulesVar})
			continue
		}
		if sv, ok := trySrcVar(v); ok {
			out = append(out, InBindingEntry{Kind: InBindingSrcVar, SrcVar: sv})
			continue
		}
		b, err := bindingFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, InBindingEntry{Kind: InBindingDestructure, Binding: b})
	}
	return out, nil
}

// limitFromValues parses the single form following :limit: a variable, or
// a fixed positive integer count (spec.md §3 invariant 6 rejects zero and
// negative limits).
func limitFromValues(vs []edn.Value) (Limit, error) {
	if len(vs) != 1 {
		return Limit{}, edn.NewParseError(0, "single :limit value")
	}
	v := vs[0]
	if vr, ok := tryVariable(v); ok {
		return Limit{Kind: LimitVariable, Variable: vr}, nil
	}
	if v.Kind() != edn.KindInt {
		return Limit{}, edn.NewParseError(v.Span().Start, "variable or positive integer")
	}
	n := v.Payload().(int64)
	if n <= 0 {
		return Limit{}, edn.NewParseError(v.Span().Start, "positive :limit value")
	}
	return Limit{Kind: LimitFixed, Fixed: uint64(n)}, nil
}

// ordersFromValues parses the :order clause's entries: `(asc ?v)`,
// `(desc ?v)`, or a bare variable defaulting to ascending.
func ordersFromValues(vs []edn.Value) ([]Order, error) {
	out := make([]Order, 0, len(vs))
	for _, v := range vs {
		if vr, ok := tryVariable(v); ok {
			out = append(out, Order{Direction: Ascending, Variable: vr})
			continue
		}
		if v.Kind() != edn.KindList {
			return nil, edn.NewParseError(v.Span().Start, "(asc ?v), (desc ?v), or ?v")
		}
		elems := edn.ListToSlice(v.Payload().(*edn.ListNode))
		if len(elems) != 2 {
			return nil, edn.NewParseError(v.Span().Start, "(asc ?v) or (desc ?v)")
		}
		sym, ok := isPlainSymbol(elems[0])
		if !ok {
			return nil, edn.NewParseError(v.Span().Start, "(asc ?v) or (desc ?v)")
		}
		var dir Direction
		switch sym.Name {
		case "asc":
			dir = Ascending
		case "desc":
			dir = Descending
		default:
			return nil, edn.NewParseError(v.Span().Start, "(asc ?v) or (desc ?v)")
		}
		vr, err := variableFromValue(elems[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Order{Direction: dir, Variable: vr})
	}
	return out, nil
}

func withVarsFromValues(vs []edn.Value) ([]Variable, error) {
	out := make([]Variable, 0, len(vs))
	for _, v := range vs {
		vr, err := variableFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, vr)
	}
	return out, nil
}

// validateParsedQuery checks cross-clause invariants that no single part's
// parser can see on its own: :in/:with variable collisions, per spec.md
// §4.4.
func validateParsedQuery(pq *ParsedQuery) error {
	inVars := make(map[string]bool)
	for _, entry := range pq.In {
		if entry.Kind != InBindingDestructure {
			continue
		}
		for _, vr := range bindingVariables(entry.Binding) {
			inVars[vr.Sym.String()] = true
		}
	}
	for _, vr := range pq.With {
		key := vr.Sym.String()
		if inVars[key] {
			return edn.NewParseError(0, ":with variable not also bound by :in: "+key)
		}
	}
	return nil
}

func bindingVariables(b Binding) []Variable {
	switch b.Kind {
	case BindScalar:
		return []Variable{b.Scalar}
	case BindColl:
		return []Variable{b.Coll}
	case BindTuple:
		return variablesFromPlaceholders(b.Tuple)
	case BindRel:
		return variablesFromPlaceholders(b.Rel)
	default:
		return nil
	}
}

func variablesFromPlaceholders(vps []VariableOrPlaceholder) []Variable {
	out := make([]Variable, 0, len(vps))
	for _, vp := range vps {
		if !vp.IsPlaceholder {
			out = append(out, vp.Variable)
		}
	}
	return out
}
