package jsonschema

import (
	"encoding/json"

	"github.com/MacroPower/xsd2json/pkg/xsd"
)

// builtin describes the JSON Schema form of an XSD builtin type.
type builtin struct {
	typ     string
	format  string
	pattern string
	min     json.Number
	max     json.Number
	list    bool
}

const tzPattern = `(Z|[+-]\d{2}:\d{2})?`

// builtins is the closed set of XSD builtin datatypes, keyed by local name.
// xs:NOTATION is handled separately as an unsupported construct.
var builtins = map[string]builtin{
	"anyType":       {},
	"anySimpleType": {},

	"string":           {typ: "string"},
	"normalizedString": {typ: "string"},
	"token":            {typ: "string"},
	"Name":             {typ: "string"},
	"NCName":           {typ: "string"},
	"ID":               {typ: "string"},
	"IDREF":            {typ: "string"},
	"ENTITY":           {typ: "string"},
	"NMTOKEN":          {typ: "string"},
	"QName":            {typ: "string"},
	"anyURI":           {typ: "string", format: "uri-reference"},
	"language":         {typ: "string", pattern: `^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`},
	"base64Binary":     {typ: "string", pattern: `^[A-Za-z0-9+/=\s]*$`},
	"hexBinary":        {typ: "string", pattern: `^([0-9a-fA-F]{2})*$`},

	"IDREFS":   {typ: "string", list: true},
	"ENTITIES": {typ: "string", list: true},
	"NMTOKENS": {typ: "string", list: true},

	"boolean": {typ: "boolean"},

	"decimal": {typ: "number"},
	"float":   {typ: "number"},
	"double":  {typ: "number"},

	"integer":            {typ: "integer"},
	"nonNegativeInteger": {typ: "integer", min: "0"},
	"positiveInteger":    {typ: "integer", min: "1"},
	"nonPositiveInteger": {typ: "integer", max: "0"},
	"negativeInteger":    {typ: "integer", max: "-1"},
	"long":               {typ: "integer", min: "-9223372036854775808", max: "9223372036854775807"},
	"int":                {typ: "integer", min: "-2147483648", max: "2147483647"},
	"short":              {typ: "integer", min: "-32768", max: "32767"},
	"byte":               {typ: "integer", min: "-128", max: "127"},
	"unsignedLong":       {typ: "integer", min: "0", max: "18446744073709551615"},
	"unsignedInt":        {typ: "integer", min: "0", max: "4294967295"},
	"unsignedShort":      {typ: "integer", min: "0", max: "65535"},
	"unsignedByte":       {typ: "integer", min: "0", max: "255"},

	"dateTime": {typ: "string", format: "date-time"},
	"date":     {typ: "string", format: "date"},
	"time":     {typ: "string", format: "time"},
	"duration": {typ: "string", format: "duration"},

	"gYear":      {typ: "string", pattern: `^-?\d{4,}` + tzPattern + `$`},
	"gYearMonth": {typ: "string", pattern: `^-?\d{4,}-\d{2}` + tzPattern + `$`},
	"gMonth":     {typ: "string", pattern: `^--\d{2}` + tzPattern + `$`},
	"gMonthDay":  {typ: "string", pattern: `^--\d{2}-\d{2}` + tzPattern + `$`},
	"gDay":       {typ: "string", pattern: `^---\d{2}` + tzPattern + `$`},
}

// IsBuiltin reports whether q names a supported XSD builtin type.
func IsBuiltin(q xsd.QName) bool {
	if !q.IsBuiltin() {
		return false
	}

	_, ok := builtins[q.Local]

	return ok
}

// builtinSchema returns a new schema node for the builtin type named local.
func builtinSchema(local string) (*Schema, bool) {
	b, ok := builtins[local]
	if !ok {
		return nil, false
	}

	s := &Schema{
		Type:    b.typ,
		Format:  b.format,
		Pattern: b.pattern,
		Minimum: b.min,
		Maximum: b.max,
	}

	if b.list {
		one := uint64(1)

		return &Schema{Type: "array", Items: s, MinItems: &one}, true
	}

	return s, true
}
