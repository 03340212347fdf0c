package jsonschema

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"

	"github.com/MacroPower/xsd2json/pkg/xsd"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// ElementKeyPrefix prefixes element keys inside $defs, because XSD keeps
// elements and types in separate symbol spaces.
const ElementKeyPrefix = "element."

const defsPointer = "#/$defs/"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// DefRef returns the $ref value for a $defs key.
func DefRef(key string) string {
	return defsPointer + key
}

// Keys holds the $defs key of every named type and top-level element.
type Keys struct {
	prefixes map[string]string
	types    map[xsd.QName]string
	elements map[xsd.QName]string
	scheme   IdentifierScheme
}

// NewKeys derives keys for every type and element in idx. Two names that
// derive the same key are reported as [xsderrors.IdentifierCollisionError].
func NewKeys(idx *xsd.Index, scheme IdentifierScheme) (*Keys, error) {
	k := &Keys{
		prefixes: idx.Prefixes,
		types:    map[xsd.QName]string{},
		elements: map[xsd.QName]string{},
		scheme:   scheme,
	}

	var (
		merr  error
		owner = map[string][]xsd.QName{}
		order []string
	)

	claim := func(key string, q xsd.QName) {
		if _, ok := owner[key]; !ok {
			order = append(order, key)
		}

		owner[key] = append(owner[key], q)
	}

	for _, d := range idx.SimpleTypes.Decls() {
		k.types[d.Name] = k.derive(d.Name)
		claim(k.types[d.Name], d.Name)
	}

	for _, d := range idx.ComplexTypes.Decls() {
		k.types[d.Name] = k.derive(d.Name)
		claim(k.types[d.Name], d.Name)
	}

	for _, d := range idx.Elements.Decls() {
		k.elements[d.Name] = k.derive(d.Name)
		claim(ElementKeyPrefix+k.elements[d.Name], d.Name)
	}

	for _, key := range order {
		names := owner[key]
		if len(names) < 2 {
			continue
		}

		strs := make([]string, len(names))
		for i, q := range names {
			strs[i] = q.String()
		}

		merr = multierror.Append(merr, &xsderrors.IdentifierCollisionError{Key: key, Names: strs})
	}

	if merr != nil {
		return nil, merr
	}

	return k, nil
}

// Type returns the key of the simple or complex type named q.
func (k *Keys) Type(q xsd.QName) (string, bool) {
	key, ok := k.types[q]
	return key, ok
}

// Element returns the key of the top-level element named q, without
// [ElementKeyPrefix].
func (k *Keys) Element(q xsd.QName) (string, bool) {
	key, ok := k.elements[q]
	return key, ok
}

func (k *Keys) derive(q xsd.QName) string {
	key := q.Local

	if k.scheme == IdentifierPrefixed && q.Namespace != "" {
		prefix, ok := k.prefixes[q.Namespace]
		if !ok {
			prefix = strcase.ToSnake(lastSegment(q.Namespace))
		}

		if prefix != "" {
			key = prefix + "." + key
		}
	}

	return unsafeKeyChars.ReplaceAllString(key, "_")
}

// lastSegment returns the last path or URN segment of a namespace URI.
func lastSegment(ns string) string {
	ns = strings.TrimRight(ns, "/#")
	if i := strings.LastIndexAny(ns, "/:"); i >= 0 {
		return ns[i+1:]
	}

	return ns
}
