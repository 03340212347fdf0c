package jsonschema

import (
	"maps"
	"slices"

	invopopjsonschema "github.com/invopop/jsonschema"
)

// Clone returns a deep copy of s. Scalar values held in enum, const, default
// and extras are shared.
func Clone(s *Schema) *Schema {
	if s == nil {
		return nil
	}

	c := *s

	c.Definitions = cloneMap(s.Definitions)
	c.AllOf = cloneSlice(s.AllOf)
	c.AnyOf = cloneSlice(s.AnyOf)
	c.OneOf = cloneSlice(s.OneOf)
	c.Not = Clone(s.Not)
	c.If = Clone(s.If)
	c.Then = Clone(s.Then)
	c.Else = Clone(s.Else)
	c.DependentSchemas = cloneMap(s.DependentSchemas)
	c.PrefixItems = cloneSlice(s.PrefixItems)
	c.Items = Clone(s.Items)
	c.Contains = Clone(s.Contains)
	c.PatternProperties = cloneMap(s.PatternProperties)
	c.AdditionalProperties = Clone(s.AdditionalProperties)
	c.PropertyNames = Clone(s.PropertyNames)
	c.ContentSchema = Clone(s.ContentSchema)

	if s.Properties != nil {
		c.Properties = invopopjsonschema.NewProperties()
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			c.Properties.Set(pair.Key, Clone(pair.Value))
		}
	}

	c.Enum = slices.Clone(s.Enum)
	c.Required = slices.Clone(s.Required)
	c.Examples = slices.Clone(s.Examples)
	c.Extras = maps.Clone(s.Extras)

	if s.DependentRequired != nil {
		c.DependentRequired = make(map[string][]string, len(s.DependentRequired))
		for k, v := range s.DependentRequired {
			c.DependentRequired[k] = slices.Clone(v)
		}
	}

	return &c
}

func cloneSlice(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}

	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = Clone(s)
	}

	return out
}

func cloneMap[M ~map[string]*Schema](in M) M {
	if in == nil {
		return nil
	}

	out := make(M, len(in))
	for k, s := range in {
		out[k] = Clone(s)
	}

	return out
}
