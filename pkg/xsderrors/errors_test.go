package xsderrors_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

func TestErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err      error
		sentinel error
		msg      string
	}{
		"parse": {
			err:      &xsderrors.ParseError{Path: "a.xsd", Err: io.ErrUnexpectedEOF},
			sentinel: xsderrors.ErrParse,
			msg:      "parse a.xsd: unexpected EOF",
		},
		"unresolved": {
			err:      &xsderrors.UnresolvedReferenceError{Kind: "type", Name: "{urn:a}T", From: "{urn:a}E"},
			sentinel: xsderrors.ErrUnresolvedReference,
			msg:      "unresolved reference: type {urn:a}T (referenced from {urn:a}E)",
		},
		"duplicate": {
			err:      &xsderrors.DuplicateDeclarationError{Kind: "element", Name: "E"},
			sentinel: xsderrors.ErrDuplicateDeclaration,
			msg:      "duplicate declaration: element E",
		},
		"collision": {
			err:      &xsderrors.IdentifierCollisionError{Key: "T", Names: []string{"{urn:a}T", "{urn:b}T"}},
			sentinel: xsderrors.ErrIdentifierCollision,
			msg:      `identifier collision: "T" derived from {urn:a}T, {urn:b}T`,
		},
		"unsupported": {
			err:      &xsderrors.UnsupportedConstructError{Construct: "any", In: "T"},
			sentinel: xsderrors.ErrUnsupportedConstruct,
			msg:      "unsupported construct: xs:any in T",
		},
		"facet": {
			err: &xsderrors.FacetConflictError{
				Type:   "Age",
				Facets: [2]string{"minInclusive", "maxInclusive"},
				Detail: "10 > 5",
			},
			sentinel: xsderrors.ErrFacetConflict,
			msg:      "facet conflict in Age: minInclusive and maxInclusive: 10 > 5",
		},
		"cycle": {
			err:      &xsderrors.ReferenceCycleError{Kind: "group", Path: []string{"A", "B", "A"}},
			sentinel: xsderrors.ErrReferenceCycle,
			msg:      "reference cycle: group A -> B -> A",
		},
		"truncation": {
			err:      &xsderrors.FlattenTruncationWarning{Ref: "Node", Location: "/properties/child"},
			sentinel: xsderrors.ErrFlattenTruncated,
			msg:      `flatten truncated: recursive reference "Node" at /properties/child`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("convert: %w", tc.err)
			require.ErrorIs(t, wrapped, tc.sentinel)
			assert.Equal(t, tc.msg, tc.err.Error())
		})
	}
}

func TestParseErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	err := &xsderrors.ParseError{Path: "a.xsd", Err: io.ErrUnexpectedEOF}
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.False(t, errors.Is(err, xsderrors.ErrUnresolvedReference))
	require.ErrorIs(t, xsderrors.ErrWriteFile, xsderrors.ErrWrite)
}
