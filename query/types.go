// Package query parses the Datalog-style query language: a top-level
// vector of query parts (:find, :in, :where, :limit, :order, :with)
// assembled into a ParsedQuery, built on top of the edn value layer the
// same way the transaction language is.
package query

import "github.com/eenblam/mentat/edn"

// Variable is a symbol whose name begins with '?'.
type Variable struct {
	Sym edn.Sym
}

// SrcVar is a symbol whose name begins with '$'.
type SrcVar struct {
	Sym edn.Sym
}

// EntidOrIdent is either a bare entid (int64) or a namespaced keyword
// identifier standing in for one; the query layer's own copy of the same
// concept the transaction layer uses for attribute/entity places, kept
// separate because the two ASTs evolve independently.
type EntidOrIdent struct {
	isIdent bool
	entid   int64
	ident   edn.Kw
}

func Entid(i int64) EntidOrIdent       { return EntidOrIdent{entid: i} }
func Ident(k edn.Kw) EntidOrIdent      { return EntidOrIdent{isIdent: true, ident: k} }
func (e EntidOrIdent) IsIdent() bool   { return e.isIdent }
func (e EntidOrIdent) AsEntid() (int64, bool)  { return e.entid, !e.isIdent }
func (e EntidOrIdent) AsIdent() (edn.Kw, bool) { return e.ident, e.isIdent }

// NonValuePlaceKind discriminates the variants of a PatternNonValuePlace,
// used for the e, a, and tx positions of a Pattern.
type NonValuePlaceKind int

const (
	NonValuePlaceholder NonValuePlaceKind = iota
	NonValueVariable
	NonValueEntid
)

// PatternNonValuePlace is the e/a/tx position of a Pattern: a placeholder,
// a variable, or an entid/ident.
type PatternNonValuePlace struct {
	Kind     NonValuePlaceKind
	Variable Variable
	Entid    EntidOrIdent
}

// ValuePlaceKind discriminates the variants of a PatternValuePlace, used
// for the v position of a Pattern.
type ValuePlaceKind int

const (
	ValuePlaceholder ValuePlaceKind = iota
	ValuePlaceVariable
	ValuePlaceConstant
)

// PatternValuePlace is the v position of a Pattern: a placeholder, a
// variable, or a constant atom.
type PatternValuePlace struct {
	Kind     ValuePlaceKind
	Variable Variable
	Constant edn.Value
}

// Pattern is a where-clause matching entity/attribute/value/tx positions.
// Missing v or tx positions default to Placeholder, per spec.
type Pattern struct {
	Source *SrcVar
	E      PatternNonValuePlace
	A      PatternNonValuePlace
	V      PatternValuePlace
	Tx     PatternNonValuePlace
}

// UnifyVarsKind discriminates Implicit vs. Explicit unification for
// or-join/not-join clauses.
type UnifyVarsKind int

const (
	UnifyImplicit UnifyVarsKind = iota
	UnifyExplicit
)

// UnifyVars names which variables an or-join/not-join clause unifies on.
type UnifyVars struct {
	Kind UnifyVarsKind
	Vars []Variable
}

// OrJoin is `(or where-clause…)` or `(or-join [var+] where-clause…)`.
type OrJoin struct {
	Source  *SrcVar
	Unify   UnifyVars
	Clauses [][]WhereClause
}

// NotJoin is `(not where-clause…)` or `(not-join [var+] where-clause…)`.
type NotJoin struct {
	Source  *SrcVar
	Unify   UnifyVars
	Clauses []WhereClause
}

// TypeAnnotation is `[(type ?v :keyword)]`.
type TypeAnnotation struct {
	Variable Variable
	Type     edn.Kw
}

// FnArgKind discriminates the variants of a FnArg.
type FnArgKind int

const (
	FnArgVariableKind FnArgKind = iota
	FnArgConstantKind
	FnArgSrcVarKind
	FnArgVectorKind
)

// FnArg is any spanned value convertible via the variable/constant/src-var
// rules, or a bracketed vector of fn-args (see spec.md §9's open question
// about this rule's whitespace asymmetry, resolved in DESIGN.md).
type FnArg struct {
	Kind     FnArgKind
	Variable Variable
	Constant edn.Value
	SrcVar   SrcVar
	Vector   []FnArg
}

// QueryFunction is a predicate or where-fn's function name: a plain symbol
// or a variable.
type QueryFunction struct {
	IsVariable bool
	Symbol     edn.Sym
	Variable   Variable
}

// Pred is `[(fn arg*)]`: a predicate clause with no binding position.
type Pred struct {
	Func QueryFunction
	Args []FnArg
}

// BindingKind discriminates the variants of a Binding.
type BindingKind int

const (
	BindScalar BindingKind = iota
	BindTuple
	BindColl
	BindRel
)

// VariableOrPlaceholder is one slot of a BindTuple or BindRel binding.
type VariableOrPlaceholder struct {
	IsPlaceholder bool
	Variable      Variable
}

// Binding is the destructuring shape a where-fn or :in input binds its
// result to.
type Binding struct {
	Kind    BindingKind
	Scalar  Variable
	Coll    Variable
	Tuple   []VariableOrPlaceholder
	Rel     []VariableOrPlaceholder
}

// WhereFn is `[(fn arg*) binding]`: a function call with a binding
// position for its result.
type WhereFn struct {
	Func    QueryFunction
	Args    []FnArg
	Binding Binding
}

// WhereClauseKind discriminates the variants of a WhereClause.
type WhereClauseKind int

const (
	ClausePattern WhereClauseKind = iota
	ClauseOrJoin
	ClauseNotJoin
	ClauseTypeAnnotation
	ClausePred
	ClauseWhereFn
)

// WhereClause is one element of a query's :where sequence.
type WhereClause struct {
	Kind           WhereClauseKind
	Pattern        *Pattern
	OrJoin         *OrJoin
	NotJoin        *NotJoin
	TypeAnnotation *TypeAnnotation
	Pred           *Pred
	WhereFn        *WhereFn
}

// PullAttributeSpecKind discriminates the variants of PullAttributeSpec.
type PullAttributeSpecKind int

const (
	PullWildcard PullAttributeSpecKind = iota
	PullAttribute
)

// PullAttributeSpec is one entry of a pull pattern: the wildcard `*`, or a
// forward namespaced keyword with an optional `:as` alias.
type PullAttributeSpec struct {
	Kind      PullAttributeSpecKind
	Attribute edn.Kw
	Alias     *edn.Kw
}

// Pull is `(pull ?v [attr-spec+])`.
type Pull struct {
	Source   *SrcVar
	Variable Variable
	Patterns []PullAttributeSpec
}

// Aggregate is `(fn arg*)` used as a find-element.
type Aggregate struct {
	Func edn.Sym
	Args []FnArg
}

// ElementKind discriminates the variants of a find Element.
type ElementKind int

const (
	ElementVariable ElementKind = iota
	ElementCorresponding
	ElementPull
	ElementAggregate
)

// Element is one slot of a find-spec: a bare variable, `(the ?v)`,
// `(pull ?v […])`, or an aggregate function call.
type Element struct {
	Kind        ElementKind
	Variable    Variable
	Pull        *Pull
	Aggregate   *Aggregate
}

// FindSpecKind discriminates the variants of FindSpec.
type FindSpecKind int

const (
	FindSpecScalar FindSpecKind = iota
	FindSpecTuple
	FindSpecColl
	FindSpecRel
)

// FindSpec is the :find clause's result shape.
type FindSpec struct {
	Kind  FindSpecKind
	Elem  Element
	Elems []Element
}

// LimitKind discriminates the variants of Limit.
type LimitKind int

const (
	LimitVariable LimitKind = iota
	LimitFixed
)

// Limit is the :limit clause: a variable, or a fixed positive count.
type Limit struct {
	Kind     LimitKind
	Variable Variable
	Fixed    uint64
}

// Direction is the sort direction of an Order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Order is one entry of the :order clause.
type Order struct {
	Direction Direction
	Variable  Variable
}

// ParsedQuery is the assembled record built from a query's sequence of
// top-level parts.
type ParsedQuery struct {
	Find  FindSpec
	In    []InBindingEntry
	Where []WhereClause
	Limit *Limit
	Order []Order
	With  []Variable
}

// InBindingKind discriminates the variants of one :in entry.
type InBindingKind int

const (
	InBindingSrcVar InBindingKind = iota
	InBindingRulesVar
	InBindingDestructure
)

// InBindingEntry is one entry of the :in clause: a source variable, the
// rules variable `%`, or a destructuring binding.
type InBindingEntry struct {
	Kind    InBindingKind
	SrcVar  SrcVar
	Binding Binding
}
