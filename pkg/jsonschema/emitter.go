package jsonschema

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
	invopopjsonschema "github.com/invopop/jsonschema"

	"github.com/MacroPower/xsd2json/pkg/xsd"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// Defs is the output of [Emitter.Emit].
type Defs struct {
	// Elements, SimpleTypes and ComplexTypes are keyed by $defs key, without
	// [ElementKeyPrefix] for elements.
	Elements     Definitions
	SimpleTypes  Definitions
	ComplexTypes Definitions
	// WithRefs is the root schema, referencing the root elements and holding
	// every definition under $defs.
	WithRefs *Schema
	Notes    []Note
	// Roots are the keys of the root elements.
	Roots []string
}

// Emitter turns an [xsd.Index] into JSON Schema definitions.
type Emitter struct {
	opts Options
}

// NewEmitter creates a new [Emitter].
func NewEmitter(opts Options) *Emitter {
	return &Emitter{opts: opts.withDefaults()}
}

// Emit resolves every top-level element, simple type and complex type in idx.
// All resolution errors are returned together.
func (e *Emitter) Emit(idx *xsd.Index) (*Defs, error) {
	keys, err := NewKeys(idx, e.opts.Identifiers)
	if err != nil {
		return nil, err
	}

	roots, err := e.roots(idx)
	if err != nil {
		return nil, err
	}

	r := NewResolver(idx, keys, e.opts)

	out := &Defs{
		Elements:     Definitions{},
		SimpleTypes:  Definitions{},
		ComplexTypes: Definitions{},
	}

	var merr error

	for _, c := range idx.Unsupported {
		if err := r.unsupported(c, e.opts.Title); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	resolve := func(defs Definitions, d xsd.Decl, key string) {
		s, err := r.Resolve(d, Context{})
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s %s: %w", d.Kind(), d.QName().Local, err))
			return
		}

		defs[key] = s
	}

	for _, d := range idx.SimpleTypes.Decls() {
		key, _ := keys.Type(d.Name)
		resolve(out.SimpleTypes, d, key)
	}

	for _, d := range idx.ComplexTypes.Decls() {
		key, _ := keys.Type(d.Name)
		resolve(out.ComplexTypes, d, key)
	}

	for _, d := range idx.Elements.Decls() {
		key, _ := keys.Element(d.Name)
		resolve(out.Elements, d, key)
	}

	if merr != nil {
		return nil, merr
	}

	for _, d := range roots {
		key, _ := keys.Element(d.Name)
		out.Roots = append(out.Roots, key)
	}

	out.WithRefs = e.withRefs(out)
	out.Notes = r.Notes()

	slog.Debug("emitted definitions",
		slog.Int("elements", len(out.Elements)),
		slog.Int("simple_types", len(out.SimpleTypes)),
		slog.Int("complex_types", len(out.ComplexTypes)),
		slog.Int("notes", len(out.Notes)),
	)

	return out, nil
}

// roots returns the configured root elements, or every top-level element.
func (e *Emitter) roots(idx *xsd.Index) ([]*xsd.ElementDecl, error) {
	if len(e.opts.Roots) == 0 {
		return idx.Elements.Decls(), nil
	}

	var (
		roots []*xsd.ElementDecl
		merr  error
	)

	for _, name := range e.opts.Roots {
		i := slices.IndexFunc(idx.Elements.Decls(), func(d *xsd.ElementDecl) bool {
			return d.Name.String() == name || d.Name.Local == name
		})
		if i < 0 {
			merr = multierror.Append(merr, &xsderrors.UnresolvedReferenceError{
				Kind: "element",
				Name: name,
				From: "root elements",
			})

			continue
		}

		if d := idx.Elements.Decls()[i]; !slices.Contains(roots, d) {
			roots = append(roots, d)
		}
	}

	if merr != nil {
		return nil, merr
	}

	return roots, nil
}

func (e *Emitter) withRefs(defs *Defs) *Schema {
	s := &Schema{
		Version:     e.opts.Draft.URI(),
		Title:       e.opts.Title,
		Type:        "object",
		Definitions: Definitions{},
	}

	if e.opts.SchemaVersion != "" {
		setExtra(s, "version", e.opts.SchemaVersion)
	}

	if len(defs.Roots) > 0 {
		s.Properties = invopopjsonschema.NewProperties()
		for _, key := range defs.Roots {
			s.Properties.Set(key, &Schema{Ref: DefRef(ElementKeyPrefix + key)})
		}
	}

	switch n := len(defs.Roots); {
	case n == 1:
		s.Required = []string{defs.Roots[0]}
	case n > 1:
		lo, hi := uint64(1), uint64(1)
		s.MinProperties = &lo
		s.MaxProperties = &hi
	}

	for _, key := range slices.Sorted(maps.Keys(defs.SimpleTypes)) {
		s.Definitions[key] = Clone(defs.SimpleTypes[key])
	}

	for _, key := range slices.Sorted(maps.Keys(defs.ComplexTypes)) {
		s.Definitions[key] = Clone(defs.ComplexTypes[key])
	}

	for _, key := range slices.Sorted(maps.Keys(defs.Elements)) {
		s.Definitions[ElementKeyPrefix+key] = Clone(defs.Elements[key])
	}

	return s
}
