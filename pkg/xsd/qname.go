package xsd

import (
	"cmp"
	"maps"
	"slices"
)

// QName is a namespace URI and local name pair. It is the key for every named
// declaration.
type QName struct {
	Namespace string
	Local     string
}

// String returns the name in {namespace}local form, or just the local name
// when there is no namespace.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}

	return "{" + q.Namespace + "}" + q.Local
}

// IsZero reports whether q has neither a namespace nor a local name.
func (q QName) IsZero() bool {
	return q == QName{}
}

// IsBuiltin reports whether q names a type in the XML Schema namespace.
func (q QName) IsBuiltin() bool {
	return q.Namespace == Namespace
}

// Compare orders names by namespace, then local name.
func Compare(a, b QName) int {
	if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}

	return cmp.Compare(a.Local, b.Local)
}

// SortedKeys returns the keys of m in [Compare] order.
func SortedKeys[V any](m map[QName]V) []QName {
	return slices.SortedFunc(maps.Keys(m), Compare)
}
