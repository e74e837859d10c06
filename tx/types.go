// Package tx parses the transaction language: entity vectors and
// map-notation entities built on top of the edn value layer. Backward
// attributes are rewritten to their forward form at parse time, as the
// query package does for patterns. The tx AST types carry no spans of
// their own; only the edn.Value leaves they hold (atoms, lookup-ref
// values) keep theirs.
package tx

import "github.com/eenblam/mentat/edn"

// OpType is the operation an AddOrRetract entity performs.
type OpType int

const (
	OpAdd OpType = iota
	OpRetract
)

func (op OpType) String() string {
	if op == OpRetract {
		return ":db/retract"
	}
	return ":db/add"
}

// EntidOrIdent is either a bare entid (int64) or a namespaced keyword
// identifier standing in for one. Exactly one of Entid/Ident is set;
// IsIdent reports which.
type EntidOrIdent struct {
	isIdent bool
	entid   int64
	ident   edn.Kw
}

// Entid builds an EntidOrIdent wrapping a raw entid.
func Entid(i int64) EntidOrIdent { return EntidOrIdent{entid: i} }

// Ident builds an EntidOrIdent wrapping a namespaced keyword identifier.
func Ident(k edn.Kw) EntidOrIdent { return EntidOrIdent{isIdent: true, ident: k} }

// IsIdent reports whether this value is a keyword identifier rather than a
// raw entid.
func (e EntidOrIdent) IsIdent() bool { return e.isIdent }

// AsEntid returns the wrapped entid and true, or zero and false if this
// value is an Ident.
func (e EntidOrIdent) AsEntid() (int64, bool) { return e.entid, !e.isIdent }

// AsIdent returns the wrapped keyword and true, or zero and false if this
// value is an Entid.
func (e EntidOrIdent) AsIdent() (edn.Kw, bool) { return e.ident, e.isIdent }

// AttributePlace identifies an attribute; per spec only the Entid variant
// is constructed at parse time.
type AttributePlace struct {
	Entid EntidOrIdent
}

// IsBackward reports whether this attribute place names a backward
// (reversed) keyword, e.g. :foo/_bar.
func (a AttributePlace) IsBackward() bool {
	kw, ok := a.Entid.AsIdent()
	return ok && kw.IsBackward()
}

// Reversed flips a backward attribute place to its forward form.
func (a AttributePlace) Reversed() AttributePlace {
	kw, ok := a.Entid.AsIdent()
	if !ok {
		return a
	}
	return AttributePlace{Entid: Ident(kw.Reversed())}
}

// LookupRef identifies an entity by a unique-valued attribute and a value:
// (lookup-ref entid value).
type LookupRef struct {
	A AttributePlace
	V edn.Value
}

// TxFunction is a zero-argument transaction function reference, e.g.
// (squuid).
type TxFunction struct {
	Op edn.Sym
}

// EntityPlaceKind discriminates the variants of EntityPlace.
type EntityPlaceKind int

const (
	EntityPlaceTempId EntityPlaceKind = iota
	EntityPlaceEntid
	EntityPlaceLookupRef
	EntityPlaceTxFunction
)

// EntityPlace names the entity side of an entity/attribute/value triple:
// a temp-id, a raw entid or ident, a lookup ref, or a tx-function call.
type EntityPlace struct {
	Kind       EntityPlaceKind
	TempId     string
	Entid      EntidOrIdent
	LookupRef  *LookupRef
	TxFunction *TxFunction
}

// ValuePlaceKind discriminates the variants of ValuePlace.
type ValuePlaceKind int

const (
	ValuePlaceAtom ValuePlaceKind = iota
	ValuePlaceLookupRef
	ValuePlaceTxFunction
	ValuePlaceVector
	ValuePlaceMapNotation
)

// ValuePlace names the value side of an entity/attribute/value triple.
type ValuePlace struct {
	Kind        ValuePlaceKind
	Atom        edn.Value
	LookupRef   *LookupRef
	TxFunction  *TxFunction
	Vector      []ValuePlace
	MapNotation []MapNotationEntry
}

// MapNotationEntry is one (attribute, value) pair of a map-notation entity
// or of a ValuePlace's nested map-notation.
type MapNotationEntry struct {
	A EntidOrIdent
	V ValuePlace
}

// EntityKind discriminates the variants of Entity.
type EntityKind int

const (
	EntityAddOrRetract EntityKind = iota
	EntityMapNotation
)

// Entity is one parsed transaction entity: either an explicit
// add-or-retract triple, or a map-notation entity, which is a sequence of
// attribute/value pairs with no separate entity id field.
type Entity struct {
	Kind EntityKind

	Op OpType
	E  EntityPlace
	A  AttributePlace
	V  ValuePlace

	MapNotation []MapNotationEntry
}
