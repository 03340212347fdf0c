// Package xsd models the declarations of an XML Schema document.
//
// Documents are parsed with [aqwari.net/xml/xmltree] into immutable
// declarations: elements, simple types, complex types, model groups,
// attribute groups and attributes. The [Loader] follows xs:include and
// xs:import locations, and [Collect] indexes every top-level declaration by
// its [QName] so later stages can resolve references without re-reading the
// tree.
package xsd
