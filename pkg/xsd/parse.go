package xsd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"aqwari.net/xml/xmltree"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

var (
	errNotSchema = errors.New("root element is not xs:schema")
	errNoName    = errors.New("missing name attribute")
)

// ParseOption configures [Parse].
type ParseOption func(*parser)

// WithTargetNamespace makes a document without a targetNamespace adopt ns.
// This is how an included "chameleon" schema takes on its includer's
// namespace.
func WithTargetNamespace(ns string) ParseOption {
	return func(p *parser) {
		p.chameleon = ns
	}
}

type parser struct {
	doc              *Document
	facetErr         error
	chameleon        string
	tns              string
	elementQualified bool
	attrQualified    bool
}

// Parse reads one schema document. The path is used for error messages and
// for resolving relative include locations.
func Parse(path string, data []byte, opts ...ParseOption) (*Document, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, &xsderrors.ParseError{Path: path, Err: err}
	}

	if root.Name.Space != Namespace || root.Name.Local != "schema" {
		return nil, &xsderrors.ParseError{
			Path: path,
			Err:  fmt.Errorf("%w: got {%s}%s", errNotSchema, root.Name.Space, root.Name.Local),
		}
	}

	p := &parser{doc: &Document{Path: path, Prefixes: map[string]string{}, root: root}}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.schema(root); err != nil {
		return nil, &xsderrors.ParseError{Path: path, Err: err}
	}

	return p.doc, nil
}

func (p *parser) schema(root *xmltree.Element) error {
	p.tns = root.Attr("", "targetNamespace")
	if p.tns == "" && p.chameleon != "" {
		p.tns = p.chameleon
		p.doc.Chameleon = true
	}

	p.doc.TargetNamespace = p.tns
	p.elementQualified = root.Attr("", "elementFormDefault") == "qualified"
	p.attrQualified = root.Attr("", "attributeFormDefault") == "qualified"
	p.notePrefix(root, p.tns)

	for i := range root.Children {
		el := &root.Children[i]
		if el.Name.Space != Namespace {
			continue
		}

		var (
			decl Decl
			err  error
		)

		switch el.Name.Local {
		case "element":
			decl, err = p.element(el, true)
		case "simpleType":
			decl, err = p.simpleType(el, true)
		case "complexType":
			decl, err = p.complexType(el, true)
		case "group":
			decl, err = p.group(el)
		case "attributeGroup":
			decl, err = p.attributeGroup(el)
		case "attribute":
			decl, err = p.attribute(el, true)
		case "include":
			p.doc.Includes = append(p.doc.Includes, Include{Location: el.Attr("", "schemaLocation")})
		case "import":
			ns := el.Attr("", "namespace")
			p.notePrefix(el, ns)
			p.doc.Includes = append(p.doc.Includes, Include{
				Location:  el.Attr("", "schemaLocation"),
				Namespace: ns,
				Import:    true,
			})
		case "annotation":
			p.doc.Doc = joinDoc(p.doc.Doc, documentation(el))
		default:
			p.doc.Unsupported = append(p.doc.Unsupported, Construct{
				Name:   el.Name.Local,
				Detail: el.Attr("", "name"),
			})
		}

		if err != nil {
			return err
		}

		if decl != nil {
			p.doc.Decls = append(p.doc.Decls, decl)
		}
	}

	return nil
}

func (p *parser) element(el *xmltree.Element, top bool) (*ElementDecl, error) {
	e := &ElementDecl{TopLevel: top, Occurs: Once}

	if ref := el.Attr("", "ref"); ref != "" && !top {
		e.Ref = p.resolve(el, ref)
	} else {
		name := el.Attr("", "name")
		if name == "" {
			return nil, fmt.Errorf("xs:element: %w", errNoName)
		}

		e.Name = QName{Local: name}
		if top || p.qualified(el, p.elementQualified) {
			e.Name.Namespace = p.tns
		}
	}

	if !top {
		occ, err := occurs(el)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", e.label(), err)
		}

		e.Occurs = occ
	}

	e.Nillable = parseBool(el.Attr("", "nillable"))
	e.Abstract = parseBool(el.Attr("", "abstract"))
	e.Default = optionalAttr(el, "default")
	e.Fixed = optionalAttr(el, "fixed")

	if t := el.Attr("", "type"); t != "" {
		e.Type.Name = p.resolve(el, t)
	}

	if sg := el.Attr("", "substitutionGroup"); sg != "" {
		e.Unsupported = append(e.Unsupported, Construct{Name: "substitutionGroup", Detail: sg})
	}

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "annotation":
			e.Doc = joinDoc(e.Doc, documentation(c))
		case "simpleType":
			st, err := p.simpleType(c, false)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", e.label(), err)
			}

			e.Type = TypeRef{Simple: st}
		case "complexType":
			ct, err := p.complexType(c, false)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", e.label(), err)
			}

			e.Type = TypeRef{Complex: ct}
		default:
			e.Unsupported = append(e.Unsupported, Construct{Name: c.Name.Local, Detail: c.Attr("", "name")})
		}
	}

	return e, nil
}

func (e *ElementDecl) label() string {
	if e.Name.IsZero() {
		return "ref=" + e.Ref.String()
	}

	return e.Name.String()
}

func (p *parser) simpleType(el *xmltree.Element, top bool) (*SimpleTypeDecl, error) {
	st := &SimpleTypeDecl{}

	if top {
		name := el.Attr("", "name")
		if name == "" {
			return nil, fmt.Errorf("xs:simpleType: %w", errNoName)
		}

		st.Name = QName{Namespace: p.tns, Local: name}
	}

	derived := false

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		var err error

		switch c.Name.Local {
		case "annotation":
			st.Doc = joinDoc(st.Doc, documentation(c))
		case "restriction":
			derived = true
			st.Variant = VariantRestriction
			err = p.simpleRestriction(c, st)
		case "list":
			derived = true
			st.Variant = VariantList
			if it := c.Attr("", "itemType"); it != "" {
				st.ItemType.Name = p.resolve(c, it)
			}

			st.ItemType, err = p.inlineSimple(c, st.ItemType)
		case "union":
			derived = true
			st.Variant = VariantUnion
			for _, m := range strings.Fields(c.Attr("", "memberTypes")) {
				st.Members = append(st.Members, TypeRef{Name: p.resolve(c, m)})
			}

			for j := range c.Children {
				m := &c.Children[j]
				if m.Name.Space != Namespace || m.Name.Local != "simpleType" {
					continue
				}

				inline, ierr := p.simpleType(m, false)
				if ierr != nil {
					return nil, ierr
				}

				st.Members = append(st.Members, TypeRef{Simple: inline})
			}
		}

		if err != nil {
			return nil, fmt.Errorf("simpleType %s: %w", st.Name, err)
		}
	}

	if !derived {
		return nil, fmt.Errorf("simpleType %s: expected restriction, list or union", st.Name)
	}

	return st, nil
}

func (p *parser) simpleRestriction(el *xmltree.Element, st *SimpleTypeDecl) error {
	if b := el.Attr("", "base"); b != "" {
		st.Base.Name = p.resolve(el, b)
	}

	var err error

	st.Base, err = p.inlineSimple(el, st.Base)
	if err != nil {
		return err
	}

	st.Unsupported = append(st.Unsupported, p.facets(el, &st.Facets)...)

	return p.facetErr
}

// inlineSimple returns ref, or the anonymous xs:simpleType child of el when
// ref is unset.
func (p *parser) inlineSimple(el *xmltree.Element, ref TypeRef) (TypeRef, error) {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace || c.Name.Local != "simpleType" {
			continue
		}

		if !ref.IsZero() {
			return ref, nil
		}

		st, err := p.simpleType(c, false)
		if err != nil {
			return ref, err
		}

		return TypeRef{Simple: st}, nil
	}

	return ref, nil
}

// facets reads the facet children of a restriction into f and returns the
// children that are neither facets nor structural. Integer parse failures
// are left in p.facetErr.
func (p *parser) facets(el *xmltree.Element, f *Facets) []Construct {
	var unsupported []Construct

	p.facetErr = nil

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		v := c.Attr("", "value")

		switch c.Name.Local {
		case "enumeration":
			f.Enumeration = append(f.Enumeration, v)
		case "pattern":
			f.Patterns = append(f.Patterns, v)
		case "minInclusive":
			f.MinInclusive = v
		case "maxInclusive":
			f.MaxInclusive = v
		case "minExclusive":
			f.MinExclusive = v
		case "maxExclusive":
			f.MaxExclusive = v
		case "whiteSpace":
			f.WhiteSpace = v
		case "length":
			f.Length = p.facetInt(c.Name.Local, v)
		case "minLength":
			f.MinLength = p.facetInt(c.Name.Local, v)
		case "maxLength":
			f.MaxLength = p.facetInt(c.Name.Local, v)
		case "totalDigits":
			f.TotalDigits = p.facetInt(c.Name.Local, v)
		case "fractionDigits":
			f.FractionDigits = p.facetInt(c.Name.Local, v)
		case "annotation", "simpleType", "attribute", "attributeGroup", "anyAttribute",
			"sequence", "choice", "all", "group":
		default:
			unsupported = append(unsupported, Construct{Name: c.Name.Local})
		}
	}

	return unsupported
}

func (p *parser) facetInt(name, v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		if p.facetErr == nil {
			p.facetErr = fmt.Errorf("facet %s: invalid value %q", name, v)
		}

		return nil
	}

	return &n
}

func (p *parser) complexType(el *xmltree.Element, top bool) (*ComplexTypeDecl, error) {
	ct := &ComplexTypeDecl{
		Mixed:    parseBool(el.Attr("", "mixed")),
		Abstract: parseBool(el.Attr("", "abstract")),
	}

	if top {
		name := el.Attr("", "name")
		if name == "" {
			return nil, fmt.Errorf("xs:complexType: %w", errNoName)
		}

		ct.Name = QName{Namespace: p.tns, Local: name}
	}

	if err := p.contentChildren(el, ct); err != nil {
		return nil, fmt.Errorf("complexType %s: %w", ct.Name, err)
	}

	if ct.Content == ContentEmpty && ct.Model != nil {
		ct.Content = ContentElement
	}

	return ct, nil
}

// contentChildren reads the particles and attributes of el into ct. It is
// used for the complexType itself and for the derivation element inside
// simpleContent or complexContent.
func (p *parser) contentChildren(el *xmltree.Element, ct *ComplexTypeDecl) error {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "annotation":
			ct.Doc = joinDoc(ct.Doc, documentation(c))
		case "sequence", "choice", "all":
			mg, err := p.modelGroup(c)
			if err != nil {
				return err
			}

			ct.Model = mg
		case "group":
			gr, err := p.groupRef(c)
			if err != nil {
				return err
			}

			ct.Model = gr
		case "attribute":
			a, err := p.attribute(c, false)
			if err != nil {
				return err
			}

			ct.Attributes = append(ct.Attributes, a)
		case "attributeGroup":
			ct.Attributes = append(ct.Attributes, &AttributeGroupRef{Ref: p.resolve(c, c.Attr("", "ref"))})
		case "simpleContent":
			ct.Content = ContentSimple
			if err := p.derivation(c, ct); err != nil {
				return err
			}
		case "complexContent":
			ct.Content = ContentElement
			if parseBool(c.Attr("", "mixed")) {
				ct.Mixed = true
			}

			if err := p.derivation(c, ct); err != nil {
				return err
			}
		case "simpleType":
			// Only valid inside a simpleContent restriction, where it narrows
			// the base before the facets apply.
			ct.Unsupported = append(ct.Unsupported, Construct{Name: "simpleType", Detail: "inside simpleContent restriction"})
		case "enumeration", "pattern", "minInclusive", "maxInclusive", "minExclusive", "maxExclusive",
			"whiteSpace", "length", "minLength", "maxLength", "totalDigits", "fractionDigits":
			// Facets of a simpleContent restriction; read by derivation.
		default:
			ct.Unsupported = append(ct.Unsupported, Construct{Name: c.Name.Local})
		}
	}

	return nil
}

func (p *parser) derivation(el *xmltree.Element, ct *ComplexTypeDecl) error {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "extension":
			ct.Derivation = DerivationExtension
		case "restriction":
			ct.Derivation = DerivationRestriction
		default:
			continue
		}

		ct.Base = p.resolve(c, c.Attr("", "base"))

		if ct.Content == ContentSimple && ct.Derivation == DerivationRestriction {
			// Non-facet children are reported by contentChildren.
			p.facets(c, &ct.Facets)
			if p.facetErr != nil {
				return p.facetErr
			}
		}

		return p.contentChildren(c, ct)
	}

	return nil
}

func (p *parser) modelGroup(el *xmltree.Element) (*ModelGroup, error) {
	mg := &ModelGroup{}

	switch el.Name.Local {
	case "choice":
		mg.Compositor = Choice
	case "all":
		mg.Compositor = All
	default:
		mg.Compositor = Sequence
	}

	occ, err := occurs(el)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mg.Compositor, err)
	}

	mg.Occurs = occ

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		var part Particle

		switch c.Name.Local {
		case "element":
			part, err = p.element(c, false)
		case "group":
			part, err = p.groupRef(c)
		case "sequence", "choice", "all":
			part, err = p.modelGroup(c)
		case "any":
			var o Occurs

			o, err = occurs(c)
			part = &Wildcard{Namespace: c.Attr("", "namespace"), Occurs: o}
		}

		if err != nil {
			return nil, err
		}

		if part != nil {
			mg.Particles = append(mg.Particles, part)
		}
	}

	return mg, nil
}

func (p *parser) groupRef(el *xmltree.Element) (*GroupRef, error) {
	occ, err := occurs(el)
	if err != nil {
		return nil, fmt.Errorf("group ref: %w", err)
	}

	return &GroupRef{Ref: p.resolve(el, el.Attr("", "ref")), Occurs: occ}, nil
}

func (p *parser) group(el *xmltree.Element) (*GroupDecl, error) {
	name := el.Attr("", "name")
	if name == "" {
		return nil, fmt.Errorf("xs:group: %w", errNoName)
	}

	g := &GroupDecl{Name: QName{Namespace: p.tns, Local: name}}

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "annotation":
			g.Doc = joinDoc(g.Doc, documentation(c))
		case "sequence", "choice", "all":
			mg, err := p.modelGroup(c)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", g.Name, err)
			}

			g.Model = mg
		}
	}

	if g.Model == nil {
		g.Model = &ModelGroup{Compositor: Sequence, Occurs: Once}
	}

	return g, nil
}

func (p *parser) attribute(el *xmltree.Element, top bool) (*AttributeDecl, error) {
	a := &AttributeDecl{TopLevel: top}

	if ref := el.Attr("", "ref"); ref != "" && !top {
		a.Ref = p.resolve(el, ref)
	} else {
		name := el.Attr("", "name")
		if name == "" {
			return nil, fmt.Errorf("xs:attribute: %w", errNoName)
		}

		a.Name = QName{Local: name}
		if top || p.qualified(el, p.attrQualified) {
			a.Name.Namespace = p.tns
		}
	}

	switch el.Attr("", "use") {
	case "required":
		a.Use = UseRequired
	case "prohibited":
		a.Use = UseProhibited
	}

	a.Default = optionalAttr(el, "default")
	a.Fixed = optionalAttr(el, "fixed")

	if t := el.Attr("", "type"); t != "" {
		a.Type.Name = p.resolve(el, t)
	}

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "annotation":
			a.Doc = joinDoc(a.Doc, documentation(c))
		case "simpleType":
			st, err := p.simpleType(c, false)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}

			a.Type = TypeRef{Simple: st}
		}
	}

	return a, nil
}

func (p *parser) attributeGroup(el *xmltree.Element) (*AttributeGroupDecl, error) {
	name := el.Attr("", "name")
	if name == "" {
		return nil, fmt.Errorf("xs:attributeGroup: %w", errNoName)
	}

	ag := &AttributeGroupDecl{Name: QName{Namespace: p.tns, Local: name}}

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != Namespace {
			continue
		}

		switch c.Name.Local {
		case "annotation":
			ag.Doc = joinDoc(ag.Doc, documentation(c))
		case "attribute":
			a, err := p.attribute(c, false)
			if err != nil {
				return nil, fmt.Errorf("attributeGroup %s: %w", ag.Name, err)
			}

			ag.Attributes = append(ag.Attributes, a)
		case "attributeGroup":
			ag.Attributes = append(ag.Attributes, &AttributeGroupRef{Ref: p.resolve(c, c.Attr("", "ref"))})
		default:
			ag.Unsupported = append(ag.Unsupported, Construct{Name: c.Name.Local})
		}
	}

	return ag, nil
}

// resolve turns a prefixed name into a QName using the namespace scope of
// el. Unprefixed names without a default namespace belong to the chameleon
// namespace, if any.
func (p *parser) resolve(el *xmltree.Element, qname string) QName {
	qname = strings.TrimSpace(qname)
	if qname == "" {
		return QName{}
	}

	n := el.Resolve(qname)
	if n.Space == "" && !strings.Contains(qname, ":") {
		n.Space = p.chameleon
	}

	p.notePrefix(el, n.Space)

	return QName{Namespace: n.Space, Local: n.Local}
}

// notePrefix records the prefix bound to ns in the scope of el.
func (p *parser) notePrefix(el *xmltree.Element, ns string) {
	if ns == "" || ns == Namespace {
		return
	}

	if _, ok := p.doc.Prefixes[ns]; ok {
		return
	}

	prefix, _, ok := strings.Cut(el.Prefix(xml.Name{Space: ns, Local: "_"}), ":")
	if ok && prefix != "" {
		p.doc.Prefixes[ns] = prefix
	}
}

func (p *parser) qualified(el *xmltree.Element, def bool) bool {
	switch el.Attr("", "form") {
	case "qualified":
		return true
	case "unqualified":
		return false
	}

	return def
}

func occurs(el *xmltree.Element) (Occurs, error) {
	o := Once

	if v := strings.TrimSpace(el.Attr("", "minOccurs")); v != "" {
		n, err := occursValue("minOccurs", v)
		if err != nil {
			return o, err
		}

		o.Min = n
	}

	switch v := strings.TrimSpace(el.Attr("", "maxOccurs")); v {
	case "":
	case "unbounded":
		o.Max = Unbounded
	default:
		n, err := occursValue("maxOccurs", v)
		if err != nil {
			return o, err
		}

		o.Max = n
		if n == math.MaxInt {
			o.Max = Unbounded
		}
	}

	if o.Max != Unbounded && o.Min > o.Max {
		return o, fmt.Errorf("minOccurs %d exceeds maxOccurs %d", o.Min, o.Max)
	}

	return o, nil
}

// occursValue parses a non-negative occurrence count. Counts beyond the range
// of int are clamped to [math.MaxInt].
func occursValue(attr, v string) (int, error) {
	n, err := strconv.Atoi(v)

	switch {
	case errors.Is(err, strconv.ErrRange) && n > 0:
		return math.MaxInt, nil
	case err != nil || n < 0:
		return 0, fmt.Errorf("invalid %s %q", attr, v)
	}

	return n, nil
}

func parseBool(s string) bool {
	switch strings.TrimSpace(s) {
	case "1", "true":
		return true
	}

	return false
}

func optionalAttr(el *xmltree.Element, name string) *string {
	for _, a := range el.StartElement.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			v := a.Value
			return &v
		}
	}

	return nil
}

// documentation returns the collapsed text of every xs:documentation child
// of an xs:annotation element.
func documentation(el *xmltree.Element) string {
	var doc string

	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space == Namespace && c.Name.Local == "documentation" {
			doc = joinDoc(doc, strings.Join(strings.Fields(string(c.Content)), " "))
		}
	}

	return doc
}

func joinDoc(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}

	return a + " " + b
}
