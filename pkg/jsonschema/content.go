package jsonschema

import (
	"math"
	"slices"

	invopopjsonschema "github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/MacroPower/xsd2json/pkg/xsd"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// object accumulates the properties of an object schema while a content
// model and its attributes are walked.
type object struct {
	props    *orderedmap.OrderedMap[string, *Schema]
	required []string
	choices  [][]*Schema
}

func newObject() *object {
	return &object{props: invopopjsonschema.NewProperties()}
}

// set adds or replaces a property. A replaced property keeps its position.
func (o *object) set(name string, s *Schema, required bool) {
	o.props.Set(name, s)

	if required && !slices.Contains(o.required, name) {
		o.required = append(o.required, name)
	}
}

func (o *object) has(name string) bool {
	_, ok := o.props.Get(name)
	return ok
}

func (o *object) keys() []string {
	keys := make([]string, 0, o.props.Len())
	for pair := o.props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

func (o *object) build() *Schema {
	s := &Schema{Type: "object", Required: o.required}

	if o.props.Len() > 0 {
		s.Properties = o.props
	}

	for i, c := range o.choices {
		if i == 0 {
			s.OneOf = c
			continue
		}

		s.AllOf = append(s.AllOf, &Schema{OneOf: c})
	}

	return s
}

// multiply combines the occurrence range of a particle with that of the
// group containing it. Products beyond the range of int saturate: Max becomes
// unbounded and Min is clamped to [math.MaxInt].
func multiply(outer, inner xsd.Occurs) xsd.Occurs {
	occ := xsd.Occurs{Min: product(outer.Min, inner.Min, math.MaxInt)}

	switch {
	case outer.Max == 0 || inner.Max == 0:
		occ.Max = 0
	case outer.Max == xsd.Unbounded || inner.Max == xsd.Unbounded:
		occ.Max = xsd.Unbounded
	default:
		occ.Max = product(outer.Max, inner.Max, xsd.Unbounded)
	}

	return occ
}

// product returns a*b for non-negative a and b, or limit on overflow.
func product(a, b, limit int) int {
	if a != 0 && b > math.MaxInt/a {
		return limit
	}

	return a * b
}

func (r *Resolver) particle(o *object, p xsd.Particle, outer xsd.Occurs, ctx Context, where string) error {
	occ := multiply(outer, p.ParticleOccurs())

	switch p := p.(type) {
	case *xsd.ElementDecl:
		return r.elementParticle(o, p, occ, ctx, where)

	case *xsd.GroupRef:
		ref := declRef{name: p.Ref, space: spaceGroup}

		g, ok := r.idx.Fragments.Groups.Lookup(p.Ref)
		if !ok {
			return &xsderrors.UnresolvedReferenceError{Kind: "group", Name: p.Ref.String(), From: where}
		}

		if i := slices.Index(ctx.path, ref); i >= 0 {
			return &xsderrors.ReferenceCycleError{
				Kind: "group",
				Path: append(names(ctx.path[i:]), p.Ref.Local),
			}
		}

		if g.Model == nil {
			return nil
		}

		return r.particle(o, g.Model, occ, ctx.push(ref), where)

	case *xsd.Wildcard:
		return r.unsupported(xsd.Construct{Name: "any", Detail: p.Namespace}, where)

	case *xsd.ModelGroup:
		if p.Compositor == xsd.Choice {
			return r.choice(o, p, occ, ctx, where)
		}

		if p.Occurs.Repeated() {
			r.note(NoteConversion, where, "repeated %s: its elements became independent arrays", p.Compositor)
		}

		for _, c := range p.Particles {
			if err := r.particle(o, c, occ, ctx, where); err != nil {
				return err
			}
		}
	}

	return nil
}

// choice maps an xs:choice to oneOf branches, each an object holding the
// properties of one alternative.
func (r *Resolver) choice(o *object, mg *xsd.ModelGroup, occ xsd.Occurs, ctx Context, where string) error {
	if occ.Repeated() {
		r.note(NoteConversion, where, "repeated choice: alternatives became optional properties")

		relaxed := xsd.Occurs{Min: 0, Max: occ.Max}
		for _, c := range mg.Particles {
			if err := r.particle(o, c, relaxed, ctx, where); err != nil {
				return err
			}
		}

		return nil
	}

	var (
		branches []*Schema
		props    []string
	)

	for _, c := range mg.Particles {
		sub := newObject()
		if err := r.particle(sub, c, xsd.Once, ctx, where); err != nil {
			return err
		}

		branches = append(branches, sub.build())
		props = append(props, sub.keys()...)
	}

	if len(branches) == 0 {
		return nil
	}

	if occ.Optional() && len(props) > 0 {
		none := make([]*Schema, len(props))
		for i, name := range props {
			none[i] = &Schema{Required: []string{name}}
		}

		branches = append(branches, &Schema{Not: &Schema{AnyOf: none}})
	}

	o.choices = append(o.choices, branches)

	return nil
}

func (r *Resolver) elementParticle(o *object, e *xsd.ElementDecl, occ xsd.Occurs, ctx Context, where string) error {
	if occ.Max == 0 {
		return nil
	}

	var (
		name string
		s    *Schema
	)

	if e.Ref.IsZero() {
		for _, c := range e.Unsupported {
			if err := r.unsupported(c, where+"/"+e.Name.Local); err != nil {
				return err
			}
		}

		var err error

		name = e.Name.Local

		s, err = r.elementType(e, ctx.inContent(), where+"/"+name)
		if err != nil {
			return err
		}
	} else {
		key, ok := r.keys.Element(e.Ref)
		if !ok {
			return &xsderrors.UnresolvedReferenceError{Kind: "element", Name: e.Ref.String(), From: where}
		}

		name = e.Ref.Local
		s = &Schema{Ref: DefRef(ElementKeyPrefix + key)}
	}

	if occ.Repeated() {
		s = arrayOf(s, occ)
	}

	if o.has(name) {
		r.note(NoteConversion, where, "element %q declared more than once; the last declaration is used", name)
	}

	o.set(name, s, occ.Min >= 1)

	return nil
}

// arrayOf wraps the schema of a repeated element. The description moves to
// the array.
func arrayOf(item *Schema, occ xsd.Occurs) *Schema {
	s := &Schema{Type: "array", Description: item.Description, Items: item}
	item.Description = ""

	if occ.Min > 1 {
		n := uint64(occ.Min)
		s.MinItems = &n
	}

	if occ.Max != xsd.Unbounded {
		n := uint64(occ.Max)
		s.MaxItems = &n
	}

	return s
}
