package xsd

import (
	"bytes"
	"encoding/xml"
	"errors"

	"aqwari.net/xml/xmltree"
)

var errNoRoot = errors.New("no parsed root document")

// Merge combines the documents returned by [Loader.Load] into one schema
// document: every xs:include of the root document, and of the documents it
// includes, is replaced by the top-level components of the included file.
// A file included more than once is merged at its first include only.
//
// Imports are kept as xs:import elements, since their components belong to
// other namespaces.
func Merge(docs []*Document) ([]byte, error) {
	if len(docs) == 0 || docs[0].root == nil {
		return nil, errNoRoot
	}

	m := &merger{docs: docs, seen: map[*Document]bool{}}

	root := docs[0].root
	out := &xmltree.Element{
		StartElement: root.StartElement.Copy(),
		Scope:        root.Scope,
		Children:     m.children(docs[0]),
	}

	buf := bytes.NewBufferString(xml.Header)
	buf.Write(xmltree.MarshalIndent(out, "", "  "))

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

type merger struct {
	seen map[*Document]bool
	docs []*Document
}

func (m *merger) children(doc *Document) []xmltree.Element {
	m.seen[doc] = true

	var out []xmltree.Element

	for _, c := range doc.root.Children {
		if c.Name.Space == Namespace && c.Name.Local == "include" {
			inc := m.included(doc, c.Attr("", "schemaLocation"))
			if inc != nil {
				if !m.seen[inc] {
					out = append(out, m.children(inc)...)
				}

				continue
			}
		}

		out = append(out, c)
	}

	return out
}

// included returns the loaded document an xs:include of from refers to. A
// chameleon file is loaded once per namespace; the copy in the namespace of
// from is preferred.
func (m *merger) included(from *Document, loc string) *Document {
	if loc == "" {
		return nil
	}

	path, ok := location(from.Path, loc)
	if !ok {
		return nil
	}

	var match *Document

	for _, d := range m.docs {
		if d.Path != path || d.root == nil {
			continue
		}

		if d.TargetNamespace == from.TargetNamespace {
			return d
		}

		if match == nil {
			match = d
		}
	}

	return match
}
