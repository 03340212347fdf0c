package jsonschema

import (
	"slices"

	invopopjsonschema "github.com/invopop/jsonschema"
)

// mergeExtension adds the content of an extension, src, to the resolved
// schema of its base, dest, and returns dest. Properties from src replace
// base properties of the same name in place, and src alone decides whether
// they are required.
func mergeExtension(dest, src *Schema) *Schema {
	if dest == nil {
		return src
	}
	if src == nil {
		return dest
	}

	dest.Type = "object"

	if src.Properties != nil {
		if dest.Properties == nil {
			dest.Properties = invopopjsonschema.NewProperties()
		}

		for pair := src.Properties.Oldest(); pair != nil; pair = pair.Next() {
			dest.Properties.Set(pair.Key, pair.Value)
		}

		dest.Required = slices.DeleteFunc(dest.Required, func(name string) bool {
			_, redeclared := src.Properties.Get(name)
			return redeclared && !slices.Contains(src.Required, name)
		})
	}

	for _, name := range src.Required {
		if !slices.Contains(dest.Required, name) {
			dest.Required = append(dest.Required, name)
		}
	}

	// Both sides may constrain alternatives; keep them as separate oneOfs.
	switch {
	case len(src.OneOf) == 0:
	case len(dest.OneOf) == 0:
		dest.OneOf = src.OneOf
	default:
		dest.AllOf = append(dest.AllOf, &Schema{OneOf: src.OneOf})
	}

	dest.AllOf = append(dest.AllOf, src.AllOf...)

	if src.Description != "" {
		dest.Description = src.Description
	}

	return dest
}
