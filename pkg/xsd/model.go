package xsd

import (
	"strconv"

	"aqwari.net/xml/xmltree"
)

// Namespace is the XML Schema namespace URI.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the [Occurs.Max] value for maxOccurs="unbounded".
const Unbounded = -1

// DeclKind identifies the symbol space of a [Decl].
type DeclKind int

const (
	KindElement DeclKind = iota + 1
	KindSimpleType
	KindComplexType
	KindGroup
	KindAttributeGroup
	KindAttribute
)

func (k DeclKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindSimpleType:
		return "simpleType"
	case KindComplexType:
		return "complexType"
	case KindGroup:
		return "group"
	case KindAttributeGroup:
		return "attributeGroup"
	case KindAttribute:
		return "attribute"
	}

	return "DeclKind(" + strconv.Itoa(int(k)) + ")"
}

// Decl is a top-level or local declaration.
type Decl interface {
	Kind() DeclKind
	// QName is the declared name. It is zero for anonymous types.
	QName() QName
}

// Particle is a member of a content model: an element, a group reference, a
// nested model group or a wildcard.
type Particle interface {
	ParticleOccurs() Occurs
	isParticle()
}

// AttributeItem is a member of an attribute list: an attribute declaration or
// an attribute group reference.
type AttributeItem interface {
	isAttributeItem()
}

// Occurs holds minOccurs and maxOccurs.
type Occurs struct {
	Min int
	Max int
}

// Once is the default cardinality.
var Once = Occurs{Min: 1, Max: 1}

// Repeated reports whether the particle may occur more than once.
func (o Occurs) Repeated() bool {
	return o.Max == Unbounded || o.Max > 1
}

// Optional reports whether the particle may be absent.
func (o Occurs) Optional() bool {
	return o.Min == 0
}

// Construct is a recognised XSD construct that has no JSON Schema mapping.
type Construct struct {
	// Name is the XSD local name, e.g. "anyAttribute" or "substitutionGroup".
	Name string
	// Detail is optional context, such as the referenced name.
	Detail string
}

// TypeRef points at a type, either by name or as an inline anonymous type.
// At most one field is set. A zero TypeRef means the type was omitted.
type TypeRef struct {
	Name    QName
	Simple  *SimpleTypeDecl
	Complex *ComplexTypeDecl
}

// IsZero reports whether no type was given.
func (r TypeRef) IsZero() bool {
	return r.Name.IsZero() && r.Simple == nil && r.Complex == nil
}

// ElementDecl is an xs:element. Inside a content model it is a [Particle]; a
// non-zero Ref makes it a reference to a top-level element.
type ElementDecl struct {
	Default     *string
	Fixed       *string
	Type        TypeRef
	Name        QName
	Ref         QName
	Doc         string
	Unsupported []Construct
	Occurs      Occurs
	Nillable    bool
	Abstract    bool
	TopLevel    bool
}

func (e *ElementDecl) Kind() DeclKind         { return KindElement }
func (e *ElementDecl) QName() QName           { return e.Name }
func (e *ElementDecl) ParticleOccurs() Occurs { return e.Occurs }
func (e *ElementDecl) isParticle()            {}

// SimpleVariant is the derivation form of a simple type.
type SimpleVariant int

const (
	VariantRestriction SimpleVariant = iota
	VariantList
	VariantUnion
)

// SimpleTypeDecl is an xs:simpleType.
type SimpleTypeDecl struct {
	Name        QName
	Doc         string
	Base        TypeRef
	ItemType    TypeRef
	Members     []TypeRef
	Unsupported []Construct
	Facets      Facets
	Variant     SimpleVariant
}

func (s *SimpleTypeDecl) Kind() DeclKind { return KindSimpleType }
func (s *SimpleTypeDecl) QName() QName   { return s.Name }

// Facets are the constraining facets of a restriction. Bounds are kept in
// their lexical form because their meaning depends on the base type.
type Facets struct {
	Length         *int
	MinLength      *int
	MaxLength      *int
	TotalDigits    *int
	FractionDigits *int
	MinInclusive   string
	MaxInclusive   string
	MinExclusive   string
	MaxExclusive   string
	WhiteSpace     string
	Enumeration    []string
	Patterns       []string
}

// IsZero reports whether no facet is set.
func (f *Facets) IsZero() bool {
	return f.Length == nil && f.MinLength == nil && f.MaxLength == nil &&
		f.TotalDigits == nil && f.FractionDigits == nil &&
		f.MinInclusive == "" && f.MaxInclusive == "" &&
		f.MinExclusive == "" && f.MaxExclusive == "" &&
		f.WhiteSpace == "" && len(f.Enumeration) == 0 && len(f.Patterns) == 0
}

// Derivation is how a complex type relates to its base.
type Derivation int

const (
	DerivationNone Derivation = iota
	DerivationExtension
	DerivationRestriction
)

func (d Derivation) String() string {
	switch d {
	case DerivationExtension:
		return "extension"
	case DerivationRestriction:
		return "restriction"
	}

	return "none"
}

// ContentKind is the content type of a complex type.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentElement
	ContentSimple
)

// ComplexTypeDecl is an xs:complexType.
type ComplexTypeDecl struct {
	// Model is the content model, or nil for empty and simple content.
	Model       Particle
	Name        QName
	Base        QName
	Doc         string
	Attributes  []AttributeItem
	Unsupported []Construct
	// Facets restrict the text of simple content.
	Facets     Facets
	Content    ContentKind
	Derivation Derivation
	Mixed      bool
	Abstract   bool
}

func (c *ComplexTypeDecl) Kind() DeclKind { return KindComplexType }
func (c *ComplexTypeDecl) QName() QName   { return c.Name }

// Compositor is the kind of a model group.
type Compositor int

const (
	Sequence Compositor = iota
	Choice
	All
)

func (c Compositor) String() string {
	switch c {
	case Choice:
		return "choice"
	case All:
		return "all"
	}

	return "sequence"
}

// ModelGroup is an xs:sequence, xs:choice or xs:all.
type ModelGroup struct {
	Particles  []Particle
	Occurs     Occurs
	Compositor Compositor
}

func (m *ModelGroup) ParticleOccurs() Occurs { return m.Occurs }
func (m *ModelGroup) isParticle()            {}

// GroupRef is an xs:group reference inside a content model.
type GroupRef struct {
	Ref    QName
	Occurs Occurs
}

func (g *GroupRef) ParticleOccurs() Occurs { return g.Occurs }
func (g *GroupRef) isParticle()            {}

// Wildcard is an xs:any particle.
type Wildcard struct {
	Namespace string
	Occurs    Occurs
}

func (w *Wildcard) ParticleOccurs() Occurs { return w.Occurs }
func (w *Wildcard) isParticle()            {}

// GroupDecl is a top-level xs:group.
type GroupDecl struct {
	Model *ModelGroup
	Name  QName
	Doc   string
}

func (g *GroupDecl) Kind() DeclKind { return KindGroup }
func (g *GroupDecl) QName() QName   { return g.Name }

// AttributeUse is the use attribute of an attribute declaration.
type AttributeUse int

const (
	UseOptional AttributeUse = iota
	UseRequired
	UseProhibited
)

// AttributeDecl is an xs:attribute. A non-zero Ref makes it a reference to a
// top-level attribute.
type AttributeDecl struct {
	Default  *string
	Fixed    *string
	Type     TypeRef
	Name     QName
	Ref      QName
	Doc      string
	Use      AttributeUse
	TopLevel bool
}

func (a *AttributeDecl) Kind() DeclKind { return KindAttribute }
func (a *AttributeDecl) QName() QName   { return a.Name }
func (a *AttributeDecl) isAttributeItem() {}

// AttributeGroupRef is an xs:attributeGroup reference.
type AttributeGroupRef struct {
	Ref QName
}

func (a *AttributeGroupRef) isAttributeItem() {}

// AttributeGroupDecl is a top-level xs:attributeGroup.
type AttributeGroupDecl struct {
	Name        QName
	Doc         string
	Attributes  []AttributeItem
	Unsupported []Construct
}

func (a *AttributeGroupDecl) Kind() DeclKind { return KindAttributeGroup }
func (a *AttributeGroupDecl) QName() QName   { return a.Name }

// Include is an xs:include or xs:import found in a document.
type Include struct {
	Location  string
	Namespace string
	Import    bool
}

// Document is one parsed schema file.
type Document struct {
	// Prefixes maps namespace URIs to the prefixes declared on the schema root.
	Prefixes        map[string]string
	Path            string
	TargetNamespace string
	Doc             string
	Decls           []Decl
	Includes        []Include
	Unsupported     []Construct
	// Chameleon is set when the document adopted its includer's namespace.
	Chameleon bool

	root *xmltree.Element
}
