package jsonschema

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MacroPower/xsd2json/pkg/xsd"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// xmlNamespace is the namespace of the xml: attributes, which schemas import
// without a location.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// errInProgress is returned when a base type is requested while its own
// resolution is still running further up the content path.
var errInProgress = errors.New("declaration is being resolved")

type space int

const (
	spaceType space = iota
	spaceElement
	spaceGroup
	spaceAttributeGroup
)

func (s space) String() string {
	switch s {
	case spaceElement:
		return "element"
	case spaceGroup:
		return "group"
	case spaceAttributeGroup:
		return "attributeGroup"
	}

	return "type"
}

type declRef struct {
	name  xsd.QName
	space space
}

// Context is the resolution path of one [Resolver.Resolve] call: the named
// declarations currently being resolved, outermost first.
type Context struct {
	path []declRef
	// chain is the part of path reached through derivation and fragment
	// references only, without passing through an element.
	chain []declRef
}

func (c Context) push(d declRef) Context {
	return Context{
		path:  append(slices.Clip(c.path), d),
		chain: append(slices.Clip(c.chain), d),
	}
}

// inContent starts a new derivation chain below an element.
func (c Context) inContent() Context {
	return Context{path: c.path}
}

// Path returns the local names on the resolution path.
func (c Context) Path() []string {
	return names(c.path)
}

func names(refs []declRef) []string {
	out := make([]string, len(refs))
	for i, d := range refs {
		out[i] = d.name.Local
	}

	return out
}

// Resolver maps declarations to JSON Schema nodes. Named declarations are
// memoized; each result handed out is a fresh copy owned by the caller. A
// Resolver is not safe for concurrent use and is meant for a single
// [Emitter.Emit] run.
type Resolver struct {
	idx   *xsd.Index
	keys  *Keys
	memo  map[declRef]*Schema
	notes []Note
	opts  Options
}

// NewResolver creates a [Resolver] over idx. Named references are emitted as
// $ref values using keys.
func NewResolver(idx *xsd.Index, keys *Keys, opts Options) *Resolver {
	return &Resolver{
		idx:  idx,
		keys: keys,
		memo: map[declRef]*Schema{},
		opts: opts.withDefaults(),
	}
}

// Notes returns the notes recorded so far.
func (r *Resolver) Notes() []Note {
	return r.notes
}

// Resolve returns the JSON Schema equivalent of decl.
func (r *Resolver) Resolve(decl xsd.Decl, ctx Context) (*Schema, error) {
	switch d := decl.(type) {
	case *xsd.ElementDecl:
		if !d.TopLevel {
			return r.elementType(d, ctx.inContent(), r.where(d.Name, ctx))
		}

		return r.named(declRef{name: d.Name, space: spaceElement}, ctx, func(ctx Context) (*Schema, error) {
			return r.topElement(d, ctx)
		})

	case *xsd.SimpleTypeDecl:
		if d.Name.IsZero() {
			return r.simpleType(d, ctx)
		}

		return r.named(declRef{name: d.Name, space: spaceType}, ctx, func(ctx Context) (*Schema, error) {
			return r.simpleType(d, ctx)
		})

	case *xsd.ComplexTypeDecl:
		if d.Name.IsZero() {
			return r.complexType(d, ctx)
		}

		return r.named(declRef{name: d.Name, space: spaceType}, ctx, func(ctx Context) (*Schema, error) {
			return r.complexType(d, ctx)
		})

	case *xsd.GroupDecl:
		o := newObject()
		ref := declRef{name: d.Name, space: spaceGroup}

		if d.Model != nil {
			if err := r.particle(o, d.Model, xsd.Once, ctx.push(ref), d.Name.Local); err != nil {
				return nil, err
			}
		}

		return o.build(), nil

	case *xsd.AttributeGroupDecl:
		o := newObject()
		ref := declRef{name: d.Name, space: spaceAttributeGroup}

		if err := r.attributes(o, d.Attributes, ctx.push(ref), d.Name.Local); err != nil {
			return nil, err
		}

		return o.build(), nil

	case *xsd.AttributeDecl:
		_, s, err := r.attribute(d, ctx, d.Name.Local)
		return s, err
	}

	return nil, fmt.Errorf("cannot resolve %T", decl)
}

// named resolves a named declaration once and hands out copies.
func (r *Resolver) named(ref declRef, ctx Context, build func(Context) (*Schema, error)) (*Schema, error) {
	if s, ok := r.memo[ref]; ok {
		return Clone(s), nil
	}

	if i := slices.Index(ctx.chain, ref); i >= 0 {
		return nil, &xsderrors.ReferenceCycleError{
			Kind: ref.space.String(),
			Path: append(names(ctx.chain[i:]), ref.name.Local),
		}
	}

	if slices.Contains(ctx.path, ref) {
		return nil, fmt.Errorf("%w: %s", errInProgress, ref.name)
	}

	s, err := build(ctx.push(ref))
	if err != nil {
		return nil, err
	}

	r.memo[ref] = s

	return Clone(s), nil
}

// typeRef returns the schema for a type used by an element or attribute.
// Named types are always referenced, never inlined; the Emitter resolves each
// of them once, so recursive types need no special handling here.
func (r *Resolver) typeRef(ref xsd.TypeRef, ctx Context, where string) (*Schema, error) {
	switch {
	case ref.Simple != nil:
		return r.simpleType(ref.Simple, ctx)
	case ref.Complex != nil:
		return r.complexType(ref.Complex, ctx)
	case ref.Name.IsZero():
		return &Schema{}, nil
	case ref.Name.IsBuiltin():
		return r.builtin(ref.Name, where)
	}

	key, ok := r.keys.Type(ref.Name)
	if !ok {
		return nil, &xsderrors.UnresolvedReferenceError{Kind: "type", Name: ref.Name.String(), From: where}
	}

	return &Schema{Ref: DefRef(key)}, nil
}

func (r *Resolver) builtin(q xsd.QName, where string) (*Schema, error) {
	if q.Local == "NOTATION" {
		if err := r.unsupported(xsd.Construct{Name: "NOTATION"}, where); err != nil {
			return nil, err
		}

		return &Schema{Type: "string"}, nil
	}

	s, ok := builtinSchema(q.Local)
	if !ok {
		return nil, &xsderrors.UnresolvedReferenceError{Kind: "type", Name: q.String(), From: where}
	}

	return s, nil
}

// fullSimple returns the complete schema of a simple type, for use as the
// base of a restriction.
func (r *Resolver) fullSimple(ref xsd.TypeRef, ctx Context, where string) (*Schema, error) {
	switch {
	case ref.Simple != nil:
		return r.simpleType(ref.Simple, ctx)
	case ref.Name.IsZero():
		return &Schema{}, nil
	case ref.Name.IsBuiltin():
		return r.builtin(ref.Name, where)
	}

	st, ok := r.idx.SimpleTypes.Lookup(ref.Name)
	if !ok {
		return nil, &xsderrors.UnresolvedReferenceError{Kind: "simpleType", Name: ref.Name.String(), From: where}
	}

	s, err := r.Resolve(st, ctx)
	if err != nil {
		return nil, err
	}

	stripAnnotations(s)

	return s, nil
}

func (r *Resolver) simpleType(st *xsd.SimpleTypeDecl, ctx Context) (*Schema, error) {
	where := r.where(st.Name, ctx)

	for _, c := range st.Unsupported {
		if err := r.unsupported(c, where); err != nil {
			return nil, err
		}
	}

	var s *Schema

	switch st.Variant {
	case xsd.VariantList:
		items, err := r.typeRef(st.ItemType, ctx, where)
		if err != nil {
			return nil, err
		}

		s = &Schema{Type: "array", Items: items}

	case xsd.VariantUnion:
		s = &Schema{}

		for _, m := range st.Members {
			ms, err := r.typeRef(m, ctx, where)
			if err != nil {
				return nil, err
			}

			s.AnyOf = append(s.AnyOf, ms)
		}

	default:
		base, err := r.fullSimple(st.Base, ctx, where)
		if err != nil {
			return nil, err
		}

		if err := r.applyFacets(base, &st.Facets, where); err != nil {
			return nil, err
		}

		s = base
	}

	if st.Doc != "" {
		s.Description = st.Doc
	}

	return s, nil
}

func (r *Resolver) complexType(ct *xsd.ComplexTypeDecl, ctx Context) (*Schema, error) {
	where := r.where(ct.Name, ctx)

	for _, c := range ct.Unsupported {
		if err := r.unsupported(c, where); err != nil {
			return nil, err
		}
	}

	if ct.Mixed {
		r.note(NoteConversion, where, "mixed content: character data is not represented")
	}

	var (
		s   *Schema
		err error
	)

	simpleBase := r.isSimple(ct.Base)

	switch {
	case ct.Content == xsd.ContentSimple || (ct.Derivation == xsd.DerivationExtension && simpleBase):
		s, err = r.simpleContent(ct, ctx, where)
	case ct.Derivation == xsd.DerivationExtension && !isAnyType(ct.Base):
		s, err = r.extension(ct, ctx, where)
	default:
		s, err = r.ownContent(ct, ctx, where)
		if err == nil && ct.Derivation == xsd.DerivationRestriction && !isAnyType(ct.Base) {
			key, ok := r.keys.Type(ct.Base)
			if !ok {
				return nil, &xsderrors.UnresolvedReferenceError{Kind: "complexType", Name: ct.Base.String(), From: where}
			}

			s.Comments = "restriction of " + key
		}
	}

	if err != nil {
		return nil, err
	}

	if ct.Doc != "" {
		s.Description = ct.Doc
	}

	return s, nil
}

func (r *Resolver) ownContent(ct *xsd.ComplexTypeDecl, ctx Context, where string) (*Schema, error) {
	o := newObject()

	if ct.Model != nil {
		if err := r.particle(o, ct.Model, xsd.Once, ctx, where); err != nil {
			return nil, err
		}
	}

	if err := r.attributes(o, ct.Attributes, ctx, where); err != nil {
		return nil, err
	}

	return o.build(), nil
}

func (r *Resolver) extension(ct *xsd.ComplexTypeDecl, ctx Context, where string) (*Schema, error) {
	baseDecl, ok := r.idx.ComplexTypes.Lookup(ct.Base)
	if !ok {
		return nil, &xsderrors.UnresolvedReferenceError{Kind: "complexType", Name: ct.Base.String(), From: where}
	}

	own, err := r.ownContent(ct, ctx, where)
	if err != nil {
		return nil, err
	}

	base, err := r.Resolve(baseDecl, ctx)
	if errors.Is(err, errInProgress) {
		key, _ := r.keys.Type(ct.Base)
		r.note(NoteConversion, where, "extension of %s, which contains this type, kept as a reference", key)

		return &Schema{AllOf: []*Schema{{Ref: DefRef(key)}, own}}, nil
	}

	if err != nil {
		return nil, err
	}

	stripAnnotations(base)

	return mergeExtension(base, own), nil
}

// simpleContent maps a complex type whose content is text: the text becomes
// a property next to the attributes.
func (r *Resolver) simpleContent(ct *xsd.ComplexTypeDecl, ctx Context, where string) (*Schema, error) {
	var base *Schema

	if baseDecl, ok := r.idx.ComplexTypes.Lookup(ct.Base); ok {
		s, err := r.Resolve(baseDecl, ctx)
		if err != nil {
			return nil, err
		}

		base = s
	}

	textRef, err := r.textType(ct.Base, where)
	if err != nil {
		return nil, err
	}

	var text *Schema

	if ct.Derivation == xsd.DerivationRestriction && !ct.Facets.IsZero() {
		text, err = r.fullSimple(textRef, ctx, where)
		if err == nil {
			err = r.applyFacets(text, &ct.Facets, where)
		}
	} else {
		text, err = r.typeRef(textRef, ctx, where)
	}

	if err != nil {
		return nil, err
	}

	o := newObject()
	o.set(r.opts.TextKey, text, false)

	if base != nil && base.Properties != nil {
		for pair := base.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key != r.opts.TextKey {
				o.set(pair.Key, pair.Value, slices.Contains(base.Required, pair.Key))
			}
		}
	}

	if err := r.attributes(o, ct.Attributes, ctx, where); err != nil {
		return nil, err
	}

	return o.build(), nil
}

// textType follows complex types with simple content down to the simple
// type of their text.
func (r *Resolver) textType(q xsd.QName, where string) (xsd.TypeRef, error) {
	seen := map[xsd.QName]bool{}

	for !q.IsZero() && !q.IsBuiltin() {
		if _, ok := r.idx.SimpleTypes.Lookup(q); ok {
			break
		}

		ct, ok := r.idx.ComplexTypes.Lookup(q)
		if !ok {
			return xsd.TypeRef{}, &xsderrors.UnresolvedReferenceError{Kind: "type", Name: q.String(), From: where}
		}

		if seen[q] {
			return xsd.TypeRef{}, &xsderrors.ReferenceCycleError{Kind: "type", Path: []string{where, q.Local}}
		}

		seen[q] = true

		if ct.Content != xsd.ContentSimple && (ct.Derivation != xsd.DerivationExtension || !r.isSimple(ct.Base)) {
			return xsd.TypeRef{}, nil
		}

		q = ct.Base
	}

	return xsd.TypeRef{Name: q}, nil
}

func (r *Resolver) topElement(e *xsd.ElementDecl, ctx Context) (*Schema, error) {
	where := e.Name.Local

	for _, c := range e.Unsupported {
		if err := r.unsupported(c, where); err != nil {
			return nil, err
		}
	}

	return r.elementType(e, ctx, where)
}

// elementType returns the schema of one occurrence of e.
func (r *Resolver) elementType(e *xsd.ElementDecl, ctx Context, where string) (*Schema, error) {
	s, err := r.typeRef(e.Type, ctx, where)
	if err != nil {
		return nil, err
	}

	typ := r.valueType(e.Type)

	if e.Default != nil {
		s.Default = typedValue(*e.Default, typ)
	}

	if e.Fixed != nil {
		s.Const = typedValue(*e.Fixed, typ)
	}

	if e.Nillable {
		s = &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
	}

	if e.Doc != "" {
		s.Description = e.Doc
	}

	return s, nil
}

// valueType returns the JSON type of values of a simple type, or "" when it
// has none, without resolving the type.
func (r *Resolver) valueType(ref xsd.TypeRef) string {
	for range 64 {
		st := ref.Simple

		switch {
		case st != nil:
		case ref.Name.IsBuiltin():
			b := builtins[ref.Name.Local]
			if b.list {
				return "array"
			}

			return b.typ
		case ref.Name.IsZero():
			return ""
		default:
			var ok bool
			if st, ok = r.idx.SimpleTypes.Lookup(ref.Name); !ok {
				return ""
			}
		}

		switch st.Variant {
		case xsd.VariantList:
			return "array"
		case xsd.VariantUnion:
			return ""
		}

		ref = st.Base
	}

	return ""
}

func (r *Resolver) attributes(o *object, items []xsd.AttributeItem, ctx Context, where string) error {
	for _, item := range items {
		switch a := item.(type) {
		case *xsd.AttributeGroupRef:
			ref := declRef{name: a.Ref, space: spaceAttributeGroup}

			ag, ok := r.idx.Fragments.AttributeGroups.Lookup(a.Ref)
			if !ok {
				return &xsderrors.UnresolvedReferenceError{Kind: "attributeGroup", Name: a.Ref.String(), From: where}
			}

			if i := slices.Index(ctx.path, ref); i >= 0 {
				return &xsderrors.ReferenceCycleError{
					Kind: "attributeGroup",
					Path: append(names(ctx.path[i:]), a.Ref.Local),
				}
			}

			for _, c := range ag.Unsupported {
				if err := r.unsupported(c, a.Ref.Local); err != nil {
					return err
				}
			}

			if err := r.attributes(o, ag.Attributes, ctx.push(ref), where); err != nil {
				return err
			}

		case *xsd.AttributeDecl:
			if a.Use == xsd.UseProhibited {
				continue
			}

			name, s, err := r.attribute(a, ctx, where)
			if err != nil {
				return err
			}

			o.set(r.opts.AttributePrefix+name, s, a.Use == xsd.UseRequired)
		}
	}

	return nil
}

func (r *Resolver) attribute(a *xsd.AttributeDecl, ctx Context, where string) (string, *Schema, error) {
	decl := a

	if !a.Ref.IsZero() {
		g, ok := r.idx.Fragments.Attributes.Lookup(a.Ref)
		switch {
		case ok:
			decl = g
		case a.Ref.Namespace == xmlNamespace:
			return "xml:" + a.Ref.Local, &Schema{Type: "string"}, nil
		default:
			return "", nil, &xsderrors.UnresolvedReferenceError{Kind: "attribute", Name: a.Ref.String(), From: where}
		}
	}

	s, err := r.typeRef(decl.Type, ctx, where)
	if err != nil {
		return "", nil, err
	}

	typ := r.valueType(decl.Type)

	if def := cmp.Or(a.Default, decl.Default); def != nil {
		s.Default = typedValue(*def, typ)
	}

	if fixed := cmp.Or(a.Fixed, decl.Fixed); fixed != nil {
		s.Const = typedValue(*fixed, typ)
	}

	if doc := cmp.Or(a.Doc, decl.Doc); doc != "" {
		s.Description = doc
	}

	return decl.Name.Local, s, nil
}

// unsupported is the single decision point for constructs without a mapping.
func (r *Resolver) unsupported(c xsd.Construct, where string) error {
	if r.opts.Unsupported == PolicyWarn {
		msg := "xs:" + c.Name + " skipped"
		if c.Detail != "" {
			msg += " (" + c.Detail + ")"
		}

		r.note(NoteUnsupportedSkipped, where, "%s", msg)

		return nil
	}

	return &xsderrors.UnsupportedConstructError{Construct: c.Name, In: where}
}

func (r *Resolver) note(kind NoteKind, where, format string, args ...any) {
	n := Note{Kind: kind, Where: where, Message: fmt.Sprintf(format, args...)}

	slog.Debug("conversion note",
		slog.String("where", n.Where),
		slog.String("message", n.Message),
	)

	r.notes = append(r.notes, n)
}

// where labels a declaration for errors and notes.
func (r *Resolver) where(q xsd.QName, ctx Context) string {
	if !q.IsZero() {
		return q.Local
	}

	if len(ctx.path) > 0 {
		return "anonymous type in " + ctx.path[len(ctx.path)-1].name.Local
	}

	return "anonymous type"
}

// isSimple reports whether q names a builtin or simple type.
func (r *Resolver) isSimple(q xsd.QName) bool {
	if q.IsZero() {
		return false
	}

	if q.IsBuiltin() {
		return !isAnyType(q)
	}

	_, ok := r.idx.SimpleTypes.Lookup(q)

	return ok
}

func isAnyType(q xsd.QName) bool {
	return q.IsZero() || (q.IsBuiltin() && q.Local == "anyType")
}

// stripAnnotations removes the annotations a derived type must not inherit.
func stripAnnotations(s *Schema) {
	s.Title = ""
	s.Description = ""
	s.Comments = ""
}
