package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// Output file names, written below <out>/<stem>/.
const (
	ElementsDefsFile    = "elements_defs.json"
	SimpleTypeDefsFile  = "simple_type_defs.json"
	ComplexTypeDefsFile = "complex_type_defs.json"
	WithDefsFile        = "with_defs.json"
	ResolvedFile        = "resolved.json"
	PropertiesFile      = "properties.yaml"
	// MergedFile is the input schema with its includes merged in.
	MergedFile = "merged.xsd"
)

// Format selects how schema documents are rendered.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	UnknownFormat Format = "unknown"
)

var FormatEnum = []any{FormatJSON, FormatYAML}

// GetFormat parses a format name. It returns [UnknownFormat] for anything but
// "json" or "yaml".
func GetFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", string(FormatJSON):
		return FormatJSON
	case string(FormatYAML), "yml":
		return FormatYAML
	default:
		return UnknownFormat
	}
}

// DiagnosticKind classifies a [Diagnostic].
type DiagnosticKind int

const (
	// KindConversionNote marks a lossy but well-defined mapping.
	KindConversionNote DiagnosticKind = iota
	// KindUnsupportedSkipped marks a construct skipped under the warn policy.
	KindUnsupportedSkipped
	// KindFlattenTruncation marks a recursive reference cut off by the
	// Flattener.
	KindFlattenTruncation
	// KindValidation marks an output document that failed meta-schema
	// validation.
	KindValidation
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindConversionNote:
		return "note"
	case KindUnsupportedSkipped:
		return "unsupported"
	case KindFlattenTruncation:
		return "truncated"
	case KindValidation:
		return "validation"
	}

	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is a non-fatal message attached to a [Result].
type Diagnostic struct {
	Where   string
	Message string
	Kind    DiagnosticKind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Where, d.Message)
}

// Result holds every document produced for one input file.
type Result struct {
	Elements     jsonschema.Definitions
	SimpleTypes  jsonschema.Definitions
	ComplexTypes jsonschema.Definitions
	WithRefs     *jsonschema.Schema
	Resolved     *jsonschema.Schema
	// Path is the input file.
	Path string
	// Stem is the input file name without extension.
	Stem        string
	Properties  jsonschema.PropertyMap
	Diagnostics []Diagnostic
	// Merged is the XSD document produced by [xsd.Merge].
	Merged []byte
}

// DefinitionCount returns the number of emitted definitions.
func (r *Result) DefinitionCount() int {
	return len(r.Elements) + len(r.SimpleTypes) + len(r.ComplexTypes)
}

// Count returns the number of diagnostics of the given kind.
func (r *Result) Count(kind DiagnosticKind) int {
	n := 0

	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}

	return n
}

// File is a rendered output document.
type File struct {
	// Name is relative to the output directory of the [Result].
	Name string
	Data []byte
}

// Render marshals every output document. Schema documents use format; the
// property map is always YAML and the merged schema is XML. With
// [FormatYAML] the ".json" file extensions become ".yaml".
func (r *Result) Render(format Format) ([]File, error) {
	docs := []struct {
		v    any
		name string
	}{
		{name: ElementsDefsFile, v: definitions(r.Elements)},
		{name: SimpleTypeDefsFile, v: definitions(r.SimpleTypes)},
		{name: ComplexTypeDefsFile, v: definitions(r.ComplexTypes)},
		{name: WithDefsFile, v: r.WithRefs},
		{name: ResolvedFile, v: r.Resolved},
	}

	files := make([]File, 0, len(docs)+2)

	for _, d := range docs {
		data, err := marshal(d.v, format)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s: %w", xsderrors.ErrMarshal, r.Stem, d.name, err)
		}

		name := d.name
		if format == FormatYAML {
			name = strings.TrimSuffix(name, ".json") + ".yaml"
		}

		files = append(files, File{Name: name, Data: data})
	}

	props, err := marshalProperties(r.Properties)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", xsderrors.ErrMarshal, r.Stem, PropertiesFile, err)
	}

	files = append(files, File{Name: PropertiesFile, Data: props})

	if len(r.Merged) > 0 {
		files = append(files, File{Name: MergedFile, Data: r.Merged})
	}

	return files, nil
}

func definitions(d jsonschema.Definitions) jsonschema.Definitions {
	if d == nil {
		return jsonschema.Definitions{}
	}

	return d
}

func marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		buf := &bytes.Buffer{}

		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	case FormatYAML:
		return k8syaml.Marshal(v)
	}

	return nil, fmt.Errorf("unknown format %q", format)
}

func marshalProperties(p jsonschema.PropertyMap) ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}\n"), nil
	}

	buf := &bytes.Buffer{}

	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	if err := enc.Encode(p); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
