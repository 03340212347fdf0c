package jsonschema

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertySummary is the simplified constraint view of one property.
type PropertySummary struct {
	Type        string `yaml:"type,omitempty"`
	Format      string `yaml:"format,omitempty"`
	Items       string `yaml:"items,omitempty"`
	Description string `yaml:"description,omitempty"`
	Enum        []any  `yaml:"enum,omitempty"`
	Required    bool   `yaml:"required"`
	Nullable    bool   `yaml:"nullable,omitempty"`
	Truncated   bool   `yaml:"truncated,omitempty"`
}

// Property is one entry of a [PropertyMap].
type Property struct {
	Path    string
	Summary PropertySummary
}

// PropertyMap lists every property path of a schema in document order.
type PropertyMap []Property

// Get returns the summary for path.
func (m PropertyMap) Get(path string) (PropertySummary, bool) {
	i := slices.IndexFunc(m, func(p Property) bool { return p.Path == path })
	if i < 0 {
		return PropertySummary{}, false
	}

	return m[i].Summary, true
}

// MarshalYAML renders m as a mapping in document order.
func (m PropertyMap) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}

	for _, p := range m {
		var v yaml.Node
		if err := v.Encode(p.Summary); err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Path, err)
		}

		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Path},
			&v,
		)
	}

	return n, nil
}

type extractor struct {
	seen map[string]bool
	out  PropertyMap
}

// ExtractProperties walks a schema without references and lists its
// properties. Nested properties are joined with "." and array items add "[]".
// Properties of oneOf and anyOf branches are never required. When two
// branches declare the same path, the first one wins.
func ExtractProperties(s *Schema) PropertyMap {
	e := &extractor{seen: map[string]bool{}}
	e.object(s, "", false)

	return e.out
}

func (e *extractor) object(s *Schema, prefix string, inBranch bool) {
	if s == nil {
		return
	}

	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			path := pair.Key
			if prefix != "" {
				path = prefix + "." + pair.Key
			}

			required := !inBranch && slices.Contains(s.Required, pair.Key)
			e.property(path, pair.Value, required)
		}
	}

	for _, sub := range s.AllOf {
		e.object(sub, prefix, inBranch)
	}

	for _, sub := range s.OneOf {
		e.object(sub, prefix, true)
	}

	for _, sub := range s.AnyOf {
		e.object(sub, prefix, true)
	}
}

func (e *extractor) property(path string, s *Schema, required bool) {
	if s == nil || e.seen[path] {
		return
	}

	e.seen[path] = true

	value, nullable := nonNull(s)

	sum := PropertySummary{
		Type:        typeOf(value),
		Format:      value.Format,
		Description: cmp.Or(s.Description, value.Description),
		Enum:        plainValues(value.Enum),
		Required:    required,
		Nullable:    nullable,
		Truncated:   truncated(value),
	}

	if sum.Enum == nil && value.Const != nil {
		sum.Enum = plainValues([]any{value.Const})
	}

	items := value.Items
	if sum.Type == "array" && items != nil {
		items, _ = nonNull(items)
		sum.Items = typeOf(items)
		sum.Truncated = sum.Truncated || truncated(items)
	}

	e.out = append(e.out, Property{Path: path, Summary: sum})

	if sum.Type == "array" && items != nil {
		e.object(items, path+"[]", false)
		return
	}

	e.object(value, path, false)
}

// nonNull unwraps the anyOf used for nillable elements.
func nonNull(s *Schema) (*Schema, bool) {
	if len(s.AnyOf) != 2 {
		return s, false
	}

	for i, branch := range s.AnyOf {
		if branch.Type == "null" {
			return s.AnyOf[1-i], true
		}
	}

	return s, false
}

func truncated(s *Schema) bool {
	return strings.HasPrefix(s.Comments, truncatedComment)
}

// typeOf returns the type of s, looking through allOf wrappers.
func typeOf(s *Schema) string {
	if s.Type != "" {
		return s.Type
	}

	for _, sub := range s.AllOf {
		if t := typeOf(sub); t != "" {
			return t
		}
	}

	return ""
}

// plainValues converts JSON numbers so that they are written as YAML numbers.
func plainValues(vals []any) []any {
	if vals == nil {
		return nil
	}

	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v

		n, ok := v.(json.Number)
		if !ok {
			continue
		}

		if i64, err := n.Int64(); err == nil {
			out[i] = i64
		} else if f, err := n.Float64(); err == nil {
			out[i] = f
		}
	}

	return out
}
