package query

import "github.com/eenblam/mentat/edn"

func isPlaceholder(v edn.Value) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == "_"
}

func isEllipsis(v edn.Value) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == "..."
}

// tryVariable recognizes a symbol whose name begins with '?'.
func tryVariable(v edn.Value) (Variable, bool) {
	if v.Kind() != edn.KindSymbol {
		return Variable{}, false
	}
	sym := v.Payload().(edn.Sym)
	if !sym.IsVariable() {
		return Variable{}, false
	}
	return Variable{Sym: sym}, true
}

func variableFromValue(v edn.Value) (Variable, error) {
	vr, ok := tryVariable(v)
	if !ok {
		return Variable{}, edn.NewParseError(v.Span().Start, "variable")
	}
	return vr, nil
}

// trySrcVar recognizes a symbol whose name begins with '$'.
func trySrcVar(v edn.Value) (SrcVar, bool) {
	if v.Kind() != edn.KindSymbol {
		return SrcVar{}, false
	}
	sym := v.Payload().(edn.Sym)
	if !sym.IsSrcVar() {
		return SrcVar{}, false
	}
	return SrcVar{Sym: sym}, true
}

func isRulesVar(v edn.Value) bool {
	if v.Kind() != edn.KindSymbol {
		return false
	}
	sym := v.Payload().(edn.Sym)
	return sym.Namespace == "" && sym.Name == "%"
}

// isPlainSymbol reports whether v is a symbol that is neither a variable
// nor a src-var nor the placeholder nor the rules-var.
func isPlainSymbol(v edn.Value) (edn.Sym, bool) {
	if v.Kind() != edn.KindSymbol {
		return edn.Sym{}, false
	}
	sym := v.Payload().(edn.Sym)
	if sym.IsVariable() || sym.IsSrcVar() {
		return edn.Sym{}, false
	}
	if sym.Namespace == "" && (sym.Name == "_" || sym.Name == "%") {
		return edn.Sym{}, false
	}
	return sym, true
}

// tryEntidOrIdent recognizes a raw entid or a namespaced keyword
// identifier; it is shared by the e/a/tx non-value-place conversions.
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

// queryFunctionFromValue recognizes a predicate or where-fn function name:
// a plain symbol or a variable.
func queryFunctionFromValue(v edn.Value) (QueryFunction, error) {
	if vr, ok := tryVariable(v); ok {
		return QueryFunction{IsVariable: true, Variable: vr}, nil
	}
	if sym, ok := isPlainSymbol(v); ok {
		return QueryFunction{Symbol: sym}, nil
	}
	return QueryFunction{}, edn.NewParseError(v.Span().Start, "query function")
}

// fnArgFromValue recognizes (variable | constant | src-var), or a
// bracketed vector of fn-args. "constant" is any value that is not itself
// one of the other three shapes, per spec.md §4.4's fn-arg rule.
func fnArgFromValue(v edn.Value) (FnArg, error) {
	if vr, ok := tryVariable(v); ok {
		return FnArg{Kind: FnArgVariableKind, Variable: vr}, nil
	}
	if sv, ok := trySrcVar(v); ok {
		return FnArg{Kind: FnArgSrcVarKind, SrcVar: sv}, nil
	}
	if v.Kind() == edn.KindVector {
		vs := v.Payload().([]edn.Value)
		out := make([]FnArg, 0, len(vs))
		for _, elem := range vs {
			fa, err := fnArgFromValue(elem)
			if err != nil {
				return FnArg{}, err
			}
			out = append(out, fa)
		}
		return FnArg{Kind: FnArgVectorKind, Vector: out}, nil
	}
	return FnArg{Kind: FnArgConstantKind, Constant: v}, nil
}
