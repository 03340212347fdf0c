package jsonschema

import (
	"strings"

	invopopjsonschema "github.com/invopop/jsonschema"
)

type (
	// Schema is a JSON Schema node.
	Schema = invopopjsonschema.Schema
	// Definitions maps $defs keys to schema nodes.
	Definitions = invopopjsonschema.Definitions

	Draft             string
	IdentifierScheme  string
	UnsupportedPolicy string
)

const (
	DefaultDraft  Draft = ""
	Draft04       Draft = "draft-04"
	Draft06       Draft = "draft-06"
	Draft07       Draft = "draft-07"
	Draft201909   Draft = "draft-2019-09"
	Draft202012   Draft = "draft-2020-12"
	UnknownDraft  Draft = "unknown"
	LatestDraft         = Draft202012

	// IdentifierLocal derives $defs keys from local names only.
	IdentifierLocal IdentifierScheme = "local"
	// IdentifierPrefixed prepends the namespace prefix to the local name.
	IdentifierPrefixed IdentifierScheme = "prefixed"

	// PolicyFail turns unsupported constructs into errors.
	PolicyFail UnsupportedPolicy = "fail"
	// PolicyWarn skips unsupported constructs and records a [Note].
	PolicyWarn UnsupportedPolicy = "warn"

	DefaultAttributePrefix = "@"
	DefaultTextKey         = "#text"
)

var (
	DraftEnum = []any{Draft04, Draft06, Draft07, Draft201909, Draft202012}

	IdentifierSchemeEnum = []any{IdentifierLocal, IdentifierPrefixed}

	UnsupportedPolicyEnum = []any{PolicyFail, PolicyWarn}
)

// GetDraft parses a draft name such as "draft-07", "07" or "2020-12".
// It returns [UnknownDraft] when s names no supported draft, and
// [DefaultDraft] when s is empty.
func GetDraft(s string) Draft {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "draft-")
	s = strings.TrimPrefix(s, "draft")

	switch s {
	case "":
		return DefaultDraft
	case "4", "04":
		return Draft04
	case "6", "06":
		return Draft06
	case "7", "07":
		return Draft07
	case "2019-09", "201909":
		return Draft201909
	case "2020-12", "202012":
		return Draft202012
	default:
		return UnknownDraft
	}
}

// URI returns the meta-schema URI used for $schema.
func (d Draft) URI() string {
	switch d {
	case Draft04:
		return "http://json-schema.org/draft-04/schema#"
	case Draft06:
		return "http://json-schema.org/draft-06/schema#"
	case Draft07:
		return "http://json-schema.org/draft-07/schema#"
	case Draft201909:
		return "https://json-schema.org/draft/2019-09/schema"
	default:
		return invopopjsonschema.Version
	}
}

// BooleanExclusiveBounds reports whether exclusiveMinimum and
// exclusiveMaximum are booleans modifying minimum and maximum.
func (d Draft) BooleanExclusiveBounds() bool {
	return d == Draft04
}

func GetIdentifierScheme(s string) IdentifierScheme {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case string(IdentifierPrefixed):
		return IdentifierPrefixed
	case "", string(IdentifierLocal):
		return IdentifierLocal
	default:
		return IdentifierScheme(s)
	}
}

func GetUnsupportedPolicy(s string) UnsupportedPolicy {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case string(PolicyWarn):
		return PolicyWarn
	case "", string(PolicyFail):
		return PolicyFail
	default:
		return UnsupportedPolicy(s)
	}
}

// Options control how declarations are mapped.
type Options struct {
	// Title is the title of the root schema, usually the input file stem.
	Title string
	// AttributePrefix is prepended to attribute property names.
	AttributePrefix string
	// TextKey is the property name for the text of simple content.
	TextKey string
	Draft   Draft
	// Identifiers selects how $defs keys are derived from qualified names.
	Identifiers IdentifierScheme
	// Unsupported decides what happens to constructs without a mapping.
	Unsupported UnsupportedPolicy
	// SchemaVersion, when set, is written as the "version" keyword of the
	// root schema.
	SchemaVersion string
	// Roots are the root element names, as local names or {ns}local. All
	// top-level elements are roots when empty.
	Roots []string
}

func (o Options) withDefaults() Options {
	if o.AttributePrefix == "" {
		o.AttributePrefix = DefaultAttributePrefix
	}

	if o.TextKey == "" {
		o.TextKey = DefaultTextKey
	}

	if o.Draft == DefaultDraft {
		o.Draft = LatestDraft
	}

	if o.Identifiers == "" {
		o.Identifiers = IdentifierLocal
	}

	if o.Unsupported == "" {
		o.Unsupported = PolicyFail
	}

	return o
}

// NoteKind classifies a [Note].
type NoteKind int

const (
	// NoteConversion marks a lossy but well-defined mapping.
	NoteConversion NoteKind = iota
	// NoteUnsupportedSkipped marks a construct skipped under [PolicyWarn].
	NoteUnsupportedSkipped
)

// Note is a non-fatal message produced while resolving declarations.
type Note struct {
	// Where names the declaration the note is about.
	Where   string
	Message string
	Kind    NoteKind
}
