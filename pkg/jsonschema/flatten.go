// Copyright (c) 2023 dadav, Licensed under the MIT License.
// Modifications Copyright (c) 2024 MacroPower, Licensed under the Apache License, Version 2.0.

package jsonschema

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// DefaultMaxRecursion is how often a definition may be expanded on one path
// before the Flattener truncates it.
const DefaultMaxRecursion = 1

const truncatedComment = "truncated recursive reference to "

// Flattener inlines every local $ref of a schema.
type Flattener struct {
	// MaxRecursion is how many times one definition may be expanded inside
	// itself. Deeper occurrences become truncation markers.
	MaxRecursion int
}

// NewFlattener creates a new [Flattener].
func NewFlattener(maxRecursion int) *Flattener {
	if maxRecursion < 1 {
		maxRecursion = DefaultMaxRecursion
	}

	return &Flattener{MaxRecursion: maxRecursion}
}

type flattening struct {
	defs     Definitions
	depth    map[string]int
	warnings []*xsderrors.FlattenTruncationWarning
	max      int
}

// Flatten returns a copy of withRefs with every "#/$defs/..." reference
// replaced by the referenced definition, and without $defs. Recursive
// definitions are cut off after [Flattener.MaxRecursion] expansions; each cut
// is reported as a warning. withRefs is not modified.
func (f *Flattener) Flatten(withRefs *Schema) (*Schema, []*xsderrors.FlattenTruncationWarning, error) {
	if withRefs == nil {
		return nil, nil, nil
	}

	st := &flattening{
		defs:  withRefs.Definitions,
		depth: map[string]int{},
		max:   f.MaxRecursion,
	}
	if st.max < 1 {
		st.max = DefaultMaxRecursion
	}

	out, err := st.node(Clone(withRefs), "")
	if err != nil {
		return nil, nil, err
	}

	for _, w := range st.warnings {
		slog.Debug("truncated recursive reference",
			slog.String("ref", w.Ref),
			slog.String("location", w.Location),
		)
	}

	return out, st.warnings, nil
}

// node flattens s in place. Every error found below s is returned.
func (st *flattening) node(s *Schema, ptr string) (*Schema, error) {
	if s == nil {
		return nil, nil
	}

	s.Definitions = nil

	if s.Ref != "" {
		return st.ref(s, ptr)
	}

	var merr error

	for _, c := range children(s) {
		v, err := st.node(c.schema, ptr+c.ptr)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		c.set(v)
	}

	return s, merr
}

func (st *flattening) ref(s *Schema, ptr string) (*Schema, error) {
	key, ok := strings.CutPrefix(s.Ref, defsPointer)
	def, found := st.defs[unescapePointer(key)]

	if !ok || !found {
		return nil, &xsderrors.UnresolvedReferenceError{Kind: "$ref", Name: s.Ref, From: "#" + ptr}
	}

	key = unescapePointer(key)

	var target *Schema

	if st.depth[key] >= st.max {
		target = st.marker(key)
		st.warnings = append(st.warnings, &xsderrors.FlattenTruncationWarning{Ref: key, Location: "#" + ptr})
	} else {
		st.depth[key]++

		var err error

		target, err = st.node(Clone(def), ptr)

		st.depth[key]--

		if err != nil {
			return nil, err
		}
	}

	s.Ref = ""

	siblings, err := st.node(s, ptr)
	if err != nil {
		return nil, err
	}

	return overlay(target, siblings), nil
}

// marker stands in for a definition that would expand into itself. It keeps
// the definition's type and annotations.
func (st *flattening) marker(key string) *Schema {
	m := &Schema{Comments: truncatedComment + key}

	def := st.defs[key]
	for range len(st.defs) + 1 {
		if def == nil {
			break
		}

		if m.Title == "" {
			m.Title = def.Title
		}

		if m.Description == "" {
			m.Description = def.Description
		}

		if def.Type != "" {
			m.Type = def.Type
			break
		}

		next, ok := strings.CutPrefix(def.Ref, defsPointer)
		if !ok {
			break
		}

		def = st.defs[unescapePointer(next)]
	}

	return m
}

// overlay applies the keywords found next to a $ref to its expansion.
// Annotations replace those of the expansion; anything else is combined with
// it through allOf.
func overlay(target, siblings *Schema) *Schema {
	if siblings.Title != "" {
		target.Title = siblings.Title
	}

	if siblings.Description != "" {
		target.Description = siblings.Description
	}

	if siblings.Default != nil {
		target.Default = siblings.Default
	}

	if len(siblings.Examples) > 0 {
		target.Examples = siblings.Examples
	}

	if siblings.Comments != "" {
		target.Comments = siblings.Comments
	}

	siblings.Title = ""
	siblings.Description = ""
	siblings.Default = nil
	siblings.Examples = nil
	siblings.Comments = ""

	if isEmpty(siblings) {
		return target
	}

	wrapped := &Schema{
		Title:       target.Title,
		Description: target.Description,
		AllOf:       []*Schema{target, siblings},
	}
	target.Title = ""
	target.Description = ""

	return wrapped
}

func isEmpty(s *Schema) bool {
	b, err := json.Marshal(s)
	return err == nil && string(b) == "true"
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func unescapePointer(s string) string {
	return pointerUnescaper.Replace(s)
}
