package jsonschema

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// subschema is one child schema location of a node.
type subschema struct {
	schema *Schema
	set    func(*Schema)
	// ptr is the JSON pointer suffix from the parent, e.g. "/items".
	ptr string
}

// children lists the subschema locations of s in a stable order.
func children(s *Schema) []subschema {
	var out []subschema

	one := func(name string, p **Schema) {
		if *p != nil {
			out = append(out, subschema{schema: *p, ptr: "/" + name, set: func(v *Schema) { *p = v }})
		}
	}

	list := func(name string, l []*Schema) {
		for i := range l {
			out = append(out, subschema{
				schema: l[i],
				ptr:    "/" + name + "/" + strconv.Itoa(i),
				set:    func(v *Schema) { l[i] = v },
			})
		}
	}

	keyed := func(name string, m map[string]*Schema) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			out = append(out, subschema{
				schema: m[k],
				ptr:    "/" + name + "/" + escapePointer(k),
				set:    func(v *Schema) { m[k] = v },
			})
		}
	}

	keyed("$defs", s.Definitions)
	list("allOf", s.AllOf)
	list("anyOf", s.AnyOf)
	list("oneOf", s.OneOf)
	one("not", &s.Not)
	one("if", &s.If)
	one("then", &s.Then)
	one("else", &s.Else)
	keyed("dependentSchemas", s.DependentSchemas)
	list("prefixItems", s.PrefixItems)
	one("items", &s.Items)
	one("contains", &s.Contains)

	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, subschema{
				schema: pair.Value,
				ptr:    "/properties/" + escapePointer(pair.Key),
				set:    func(v *Schema) { pair.Value = v },
			})
		}
	}

	keyed("patternProperties", s.PatternProperties)
	one("additionalProperties", &s.AdditionalProperties)
	one("propertyNames", &s.PropertyNames)
	one("contentSchema", &s.ContentSchema)

	return out
}

// Walk calls fn for s and every nested subschema, parents first. The pointer
// passed to fn locates the node within s.
func Walk(s *Schema, fn func(ptr string, s *Schema) error) error {
	return walk(s, "", fn)
}

func walk(s *Schema, ptr string, fn func(string, *Schema) error) error {
	if s == nil {
		return nil
	}

	if err := fn(ptr, s); err != nil {
		return err
	}

	for _, c := range children(s) {
		if err := walk(c.schema, ptr+c.ptr, fn); err != nil {
			return err
		}
	}

	return nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string {
	return pointerEscaper.Replace(s)
}
