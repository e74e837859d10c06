package tx

import (
	"testing"
)

func TestParseEntityForward(t *testing.T) {
	e, err := ParseEntity(`[:db/add 42 :foo/bar "x"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Kind != EntityAddOrRetract || e.Op != OpAdd {
		t.Fatalf("e = %+v", e)
	}
	entid, ok := e.E.Entid.AsEntid()
	if !ok || entid != 42 {
		t.Errorf("e.E = %+v, want entid 42", e.E)
	}
	attr, ok := e.A.Entid.AsIdent()
	if !ok || attr.Namespace != "foo" || attr.Name != "bar" {
		t.Errorf("e.A = %+v, want :foo/bar", e.A)
	}
	if e.V.Kind != ValuePlaceAtom || e.V.Atom.Payload().(string) != "x" {
		t.Errorf("e.V = %+v, want atom \"x\"", e.V)
	}
}

// Reversed entity swap, per spec.md §8's concrete scenario 5: a backward
// attribute swaps the vector's e and v positions and reverses to forward.
func TestParseEntityReversedSwap(t *testing.T) {
	e, err := ParseEntity(`[:db/add 100 :foo/_bar 200]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.A.IsBackward() {
		t.Fatalf("resulting attribute place should be forward")
	}
	attr, _ := e.A.Entid.AsIdent()
	if attr.Namespace != "foo" || attr.Name != "bar" {
		t.Errorf("attr = %+v, want :foo/bar", attr)
	}
	entid, ok := e.E.Entid.AsEntid()
	if e.E.Kind != EntityPlaceEntid || !ok || entid != 200 {
		t.Fatalf("e.E = %+v, want entid 200 (the vector's last position)", e.E)
	}
	if e.V.Kind != ValuePlaceAtom || e.V.Atom.Payload().(int64) != 100 {
		t.Fatalf("e.V = %+v, want atom 100 (the vector's second position)", e.V)
	}
}

func TestParseEntityTempId(t *testing.T) {
	e, err := ParseEntity(`[:db/add "temp-1" :foo/bar 1]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.E.Kind != EntityPlaceTempId || e.E.TempId != "temp-1" {
		t.Errorf("e.E = %+v", e.E)
	}
}

func TestParseEntityLookupRef(t *testing.T) {
	e, err := ParseEntity(`[:db/add (lookup-ref :foo/id 1) :foo/bar 2]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.E.Kind != EntityPlaceLookupRef {
		t.Fatalf("e.E.Kind = %v, want EntityPlaceLookupRef", e.E.Kind)
	}
	attr, _ := e.E.LookupRef.A.Entid.AsIdent()
	if attr.Name != "id" {
		t.Errorf("lookup-ref attribute = %+v", attr)
	}
}

func TestParseEntityMapNotation(t *testing.T) {
	e, err := ParseEntity(`{:foo/bar 1 :foo/baz "x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Kind != EntityMapNotation {
		t.Fatalf("e.Kind = %v, want EntityMapNotation", e.Kind)
	}
	if len(e.MapNotation) != 2 {
		t.Fatalf("len(e.MapNotation) = %d, want 2", len(e.MapNotation))
	}
}

func TestParseEntitiesVector(t *testing.T) {
	es, err := ParseEntities(`[[:db/add 1 :foo/bar 2] [:db/retract 1 :foo/bar 2]]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(es) != 2 {
		t.Fatalf("len = %d, want 2", len(es))
	}
	if es[0].Op != OpAdd || es[1].Op != OpRetract {
		t.Errorf("ops = %v, %v", es[0].Op, es[1].Op)
	}
}

func TestParseEntityValuePlaceVector(t *testing.T) {
	e, err := ParseEntity(`[:db/add 1 :foo/bar [1 2 3]]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.V.Kind != ValuePlaceVector || len(e.V.Vector) != 3 {
		t.Fatalf("e.V = %+v", e.V)
	}
}

func TestParseEntityRejectsBareSet(t *testing.T) {
	if _, err := ParseEntity(`[:db/add 1 :foo/bar #{1 2}]`); err == nil {
		t.Errorf("expected error for a bare set value-place")
	}
}

func TestParseEntityRejectsBadOp(t *testing.T) {
	if _, err := ParseEntity(`[:db/frob 1 :foo/bar 2]`); err == nil {
		t.Errorf("expected error for an unknown op")
	}
}

func TestParseEntityRejectsUnnamespacedAttribute(t *testing.T) {
	if _, err := ParseEntity(`[:db/add 1 :bar 2]`); err == nil {
		t.Errorf("expected error for an unnamespaced attribute keyword")
	}
}
