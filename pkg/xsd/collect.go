package xsd

import (
	"github.com/hashicorp/go-multierror"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// Arena holds the top-level declarations of one kind in declaration order,
// indexed by [QName].
type Arena[T Decl] struct {
	slots map[QName]int
	decls []T
}

func newArena[T Decl]() *Arena[T] {
	return &Arena[T]{slots: map[QName]int{}}
}

func (a *Arena[T]) add(d T) bool {
	if _, ok := a.slots[d.QName()]; ok {
		return false
	}

	a.slots[d.QName()] = len(a.decls)
	a.decls = append(a.decls, d)

	return true
}

// Lookup returns the declaration named q.
func (a *Arena[T]) Lookup(q QName) (T, bool) {
	i, ok := a.slots[q]
	if !ok {
		var zero T
		return zero, false
	}

	return a.decls[i], true
}

// Decls returns every declaration in the order it was collected.
func (a *Arena[T]) Decls() []T {
	return a.decls
}

// Len returns the number of declarations.
func (a *Arena[T]) Len() int {
	return len(a.decls)
}

// Fragments is the combined lookup for reusable pieces of content models and
// attribute lists.
type Fragments struct {
	Groups          *Arena[*GroupDecl]
	AttributeGroups *Arena[*AttributeGroupDecl]
	Attributes      *Arena[*AttributeDecl]
}

// Index is the result of [Collect].
type Index struct {
	Elements     *Arena[*ElementDecl]
	SimpleTypes  *Arena[*SimpleTypeDecl]
	ComplexTypes *Arena[*ComplexTypeDecl]
	Fragments    Fragments
	// Prefixes maps namespace URIs to the prefixes declared for them.
	Prefixes map[string]string
	// TargetNamespace is the namespace of the first document.
	TargetNamespace string
	// Path is the path of the first document.
	Path string
	// Unsupported holds unmapped top-level constructs of every document.
	Unsupported []Construct
}

// Collect indexes the top-level declarations of docs. It does not resolve any
// reference. Declaring the same name twice in one symbol space, including a
// simple and a complex type sharing a name, is an error; every duplicate is
// reported.
func Collect(docs ...*Document) (*Index, error) {
	idx := &Index{
		Elements:     newArena[*ElementDecl](),
		SimpleTypes:  newArena[*SimpleTypeDecl](),
		ComplexTypes: newArena[*ComplexTypeDecl](),
		Fragments: Fragments{
			Groups:          newArena[*GroupDecl](),
			AttributeGroups: newArena[*AttributeGroupDecl](),
			Attributes:      newArena[*AttributeDecl](),
		},
		Prefixes: map[string]string{},
	}

	if len(docs) > 0 {
		idx.TargetNamespace = docs[0].TargetNamespace
		idx.Path = docs[0].Path
	}

	var merr error

	dup := func(kind string, q QName) {
		merr = multierror.Append(merr, &xsderrors.DuplicateDeclarationError{Kind: kind, Name: q.String()})
	}

	for _, doc := range docs {
		for ns, prefix := range doc.Prefixes {
			if _, ok := idx.Prefixes[ns]; !ok {
				idx.Prefixes[ns] = prefix
			}
		}

		idx.Unsupported = append(idx.Unsupported, doc.Unsupported...)

		for _, decl := range doc.Decls {
			switch d := decl.(type) {
			case *ElementDecl:
				if !idx.Elements.add(d) {
					dup("element", d.Name)
				}
			case *SimpleTypeDecl:
				if _, ok := idx.ComplexTypes.Lookup(d.Name); ok || !idx.SimpleTypes.add(d) {
					dup("type", d.Name)
				}
			case *ComplexTypeDecl:
				if _, ok := idx.SimpleTypes.Lookup(d.Name); ok || !idx.ComplexTypes.add(d) {
					dup("type", d.Name)
				}
			case *GroupDecl:
				if !idx.Fragments.Groups.add(d) {
					dup("group", d.Name)
				}
			case *AttributeGroupDecl:
				if !idx.Fragments.AttributeGroups.add(d) {
					dup("attributeGroup", d.Name)
				}
			case *AttributeDecl:
				if !idx.Fragments.Attributes.add(d) {
					dup("attribute", d.Name)
				}
			}
		}
	}

	if merr != nil {
		return nil, merr
	}

	return idx, nil
}

// LookupType returns the simple or complex type named q.
func (idx *Index) LookupType(q QName) (Decl, bool) {
	if st, ok := idx.SimpleTypes.Lookup(q); ok {
		return st, true
	}

	if ct, ok := idx.ComplexTypes.Lookup(q); ok {
		return ct, true
	}

	return nil, false
}
