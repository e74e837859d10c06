// Package ord gives otherwise-unrelated types a total order so that
// containers built on top of them (see edn.Set, edn.Map) can keep a
// deterministic iteration order.
//
// Adapted from the teacher's root-level comparable package: same shape
// (a single Compare method), renamed to avoid colliding with Go's
// predeclared `comparable` type-constraint identifier, and with the
// teacher's Less/Equal helper predicates dropped — every caller in this
// module already has a Value in hand and calls Value.Compare directly, so
// the helpers had no call site.
package ord

// Comparable orders itself against another value of the same type.
// Compare returns a negative number if the receiver sorts before other,
// zero if they are equal, and a positive number if it sorts after.
type Comparable interface {
	Compare(other Comparable) int
}
