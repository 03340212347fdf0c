package cli

import (
	"github.com/MacroPower/xsd2json/pkg/convert"
	"github.com/MacroPower/xsd2json/pkg/jsonschema"
)

type RootArgs struct {
	logLevel        *string
	logFormat       *string
	config          *string
	output          *string
	draft           *string
	attributePrefix *string
	textKey         *string
	identifiers     *string
	unsupported     *string
	format          *string
	schemaVersion   *string
	roots           *[]string
	maxRecursion    *int
	validate        *bool
	strict          *bool
	quiet           *bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:        new(string),
		logFormat:       new(string),
		config:          new(string),
		output:          new(string),
		draft:           new(string),
		attributePrefix: new(string),
		textKey:         new(string),
		identifiers:     new(string),
		unsupported:     new(string),
		format:          new(string),
		schemaVersion:   new(string),
		roots:           new([]string),
		maxRecursion:    new(int),
		validate:        new(bool),
		strict:          new(bool),
		quiet:           new(bool),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetConfig() string {
	return *a.config
}

func (a *RootArgs) GetOutput() string {
	return *a.output
}

func (a *RootArgs) GetDraft() jsonschema.Draft {
	return jsonschema.GetDraft(*a.draft)
}

func (a *RootArgs) GetAttributePrefix() string {
	return *a.attributePrefix
}

func (a *RootArgs) GetTextKey() string {
	return *a.textKey
}

func (a *RootArgs) GetIdentifiers() jsonschema.IdentifierScheme {
	return jsonschema.GetIdentifierScheme(*a.identifiers)
}

func (a *RootArgs) GetUnsupported() jsonschema.UnsupportedPolicy {
	return jsonschema.GetUnsupportedPolicy(*a.unsupported)
}

func (a *RootArgs) GetFormat() convert.Format {
	return convert.GetFormat(*a.format)
}

func (a *RootArgs) GetSchemaVersion() string {
	return *a.schemaVersion
}

func (a *RootArgs) GetRoots() []string {
	return *a.roots
}

func (a *RootArgs) GetMaxRecursion() int {
	return *a.maxRecursion
}

func (a *RootArgs) GetValidate() bool {
	return *a.validate
}

func (a *RootArgs) GetStrict() bool {
	return *a.strict
}

func (a *RootArgs) GetQuiet() bool {
	return *a.quiet
}
