package jsonschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

const simpleTypes = `
<xs:simpleType name="Age">
	<xs:restriction base="xs:integer">
		<xs:minInclusive value="0"/>
		<xs:maxInclusive value="150"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Small">
	<xs:restriction base="t:Age"><xs:maxInclusive value="10"/></xs:restriction>
</xs:simpleType>
<xs:simpleType name="Color">
	<xs:restriction base="xs:string">
		<xs:enumeration value="red"/>
		<xs:enumeration value="green"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Level">
	<xs:restriction base="xs:integer">
		<xs:enumeration value="1"/>
		<xs:enumeration value="2"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Code">
	<xs:restriction base="xs:string"><xs:pattern value="[A-Z]{2}\d+"/></xs:restriction>
</xs:simpleType>
<xs:simpleType name="NCode">
	<xs:restriction base="t:Code"><xs:pattern value="\i\c*"/></xs:restriction>
</xs:simpleType>
<xs:simpleType name="Names"><xs:list itemType="xs:string"/></xs:simpleType>
<xs:simpleType name="Either"><xs:union memberTypes="xs:boolean t:Color"/></xs:simpleType>
<xs:simpleType name="Ratio">
	<xs:restriction base="xs:decimal">
		<xs:minExclusive value="0"/>
		<xs:maxExclusive value="1"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Money">
	<xs:restriction base="xs:decimal">
		<xs:totalDigits value="5"/>
		<xs:fractionDigits value="2"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Short">
	<xs:restriction base="xs:string">
		<xs:minLength value="1"/>
		<xs:maxLength value="8"/>
	</xs:restriction>
</xs:simpleType>
<xs:simpleType name="Tokens">
	<xs:annotation><xs:documentation>Collapsed tokens.</xs:documentation></xs:annotation>
	<xs:restriction base="xs:token"><xs:whiteSpace value="collapse"/></xs:restriction>
</xs:simpleType>`

func TestResolveSimpleTypes(t *testing.T) {
	t.Parallel()

	defs := emit(t, simpleTypes, jsonschema.Options{})

	tcs := map[string]string{
		"Age":    `{"type":"integer","minimum":0,"maximum":150}`,
		"Small":  `{"type":"integer","minimum":0,"maximum":10}`,
		"Color":  `{"type":"string","enum":["red","green"]}`,
		"Level":  `{"type":"integer","enum":[1,2]}`,
		"Code":   `{"type":"string","pattern":"^(?:[A-Z]{2}\\d+)$"}`,
		"NCode":  `{"type":"string","pattern":"^(?:[_:A-Za-z][-._:A-Za-z0-9]*)$","allOf":[{"pattern":"^(?:[A-Z]{2}\\d+)$"}]}`,
		"Names":  `{"type":"array","items":{"type":"string"}}`,
		"Either": `{"anyOf":[{"type":"boolean"},{"$ref":"#/$defs/Color"}]}`,
		"Ratio":  `{"type":"number","exclusiveMinimum":0,"exclusiveMaximum":1}`,
		"Money":  `{"type":"number","multipleOf":0.01,"minimum":-999.99,"maximum":999.99}`,
		"Short":  `{"type":"string","minLength":1,"maxLength":8}`,
		"Tokens": `{"type":"string","description":"Collapsed tokens."}`,
	}

	for key, want := range tcs {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			s, ok := defs.SimpleTypes[key]
			require.True(t, ok)
			requireSchema(t, want, s)
		})
	}

	var whitespace bool
	for _, n := range defs.Notes {
		if n.Where == "Tokens" && n.Kind == jsonschema.NoteConversion {
			whitespace = true
		}
	}

	assert.True(t, whitespace, "whiteSpace should produce a conversion note")
}

func TestResolveDraft04ExclusiveBounds(t *testing.T) {
	t.Parallel()

	defs := emit(t, simpleTypes, jsonschema.Options{Draft: jsonschema.Draft04})

	requireSchema(t,
		`{"type":"number","minimum":0,"exclusiveMinimum":true,"maximum":1,"exclusiveMaximum":true}`,
		defs.SimpleTypes["Ratio"],
	)
}

func TestResolveFacetConflicts(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"min above max": `<xs:restriction base="xs:integer">
			<xs:minInclusive value="5"/><xs:maxInclusive value="1"/></xs:restriction>`,
		"empty exclusive range": `<xs:restriction base="xs:decimal">
			<xs:minExclusive value="1"/><xs:maxExclusive value="1"/></xs:restriction>`,
		"both lower bounds": `<xs:restriction base="xs:decimal">
			<xs:minExclusive value="1"/><xs:minInclusive value="2"/></xs:restriction>`,
		"min length above max length": `<xs:restriction base="xs:string">
			<xs:minLength value="5"/><xs:maxLength value="2"/></xs:restriction>`,
		"length outside range": `<xs:restriction base="xs:string">
			<xs:length value="9"/><xs:maxLength value="2"/></xs:restriction>`,
		"bound not a number": `<xs:restriction base="xs:integer"><xs:minInclusive value="ten"/></xs:restriction>`,
		"max below inherited min": `<xs:restriction base="t:Age">
			<xs:maxInclusive value="-5"/></xs:restriction>`,
		"exclusive max at inherited min": `<xs:restriction base="t:Age">
			<xs:maxExclusive value="0"/></xs:restriction>`,
		"min above inherited exclusive max": `<xs:restriction base="t:Ratio">
			<xs:minInclusive value="1"/></xs:restriction>`,
		"max length below inherited min length": `<xs:restriction base="t:Short">
			<xs:maxLength value="0"/></xs:restriction>`,
		"min length above inherited max length": `<xs:restriction base="t:Short">
			<xs:minLength value="9"/></xs:restriction>`,
		"digits below inherited min": `<xs:restriction base="t:Age">
			<xs:minInclusive value="100"/><xs:totalDigits value="2"/></xs:restriction>`,
	}

	for name, restriction := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := emitErr(t, simpleTypes+`<xs:simpleType name="Bad">`+restriction+`</xs:simpleType>`, jsonschema.Options{})
			require.ErrorIs(t, err, xsderrors.ErrFacetConflict)
		})
	}
}

func TestResolveInheritedFacets(t *testing.T) {
	t.Parallel()

	body := simpleTypes + `
<xs:simpleType name="Tiny">
	<xs:restriction base="t:Short"><xs:minLength value="0"/><xs:maxLength value="4"/></xs:restriction>
</xs:simpleType>
<xs:simpleType name="Half">
	<xs:restriction base="t:Ratio"><xs:minInclusive value="0.5"/></xs:restriction>
</xs:simpleType>`

	tcs := map[string]struct {
		want  map[string]string
		draft jsonschema.Draft
	}{
		"latest": {
			want: map[string]string{
				"Tiny": `{"type":"string","minLength":1,"maxLength":4}`,
				"Half": `{"type":"number","minimum":0.5,"exclusiveMinimum":0,"exclusiveMaximum":1}`,
			},
		},
		"draft 04": {
			draft: jsonschema.Draft04,
			want: map[string]string{
				"Half": `{"type":"number","minimum":0.5,"maximum":1,"exclusiveMaximum":true}`,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			defs := emit(t, body, jsonschema.Options{Draft: tc.draft})
			for key, want := range tc.want {
				requireSchema(t, want, defs.SimpleTypes[key])
			}
		})
	}
}

func TestResolveNotation(t *testing.T) {
	t.Parallel()

	body := `<xs:simpleType name="N"><xs:restriction base="xs:NOTATION"/></xs:simpleType>`

	err := emitErr(t, body, jsonschema.Options{})
	require.ErrorIs(t, err, xsderrors.ErrUnsupportedConstruct)

	defs := emit(t, body, jsonschema.Options{Unsupported: jsonschema.PolicyWarn})
	requireSchema(t, `{"type":"string"}`, defs.SimpleTypes["N"])
}

const complexTypes = `
<xs:element name="note" type="xs:string"/>
<xs:complexType name="Tags">
	<xs:sequence>
		<xs:element name="tag" type="xs:string" maxOccurs="unbounded"/>
		<xs:element name="pair" type="xs:string" minOccurs="2" maxOccurs="4"/>
	</xs:sequence>
</xs:complexType>
<xs:complexType name="Base">
	<xs:sequence>
		<xs:element name="a" type="xs:string"/>
		<xs:element name="b" type="xs:boolean" minOccurs="0"/>
	</xs:sequence>
	<xs:attribute name="id" type="xs:ID" use="required"/>
</xs:complexType>
<xs:complexType name="Derived">
	<xs:complexContent>
		<xs:extension base="t:Base">
			<xs:sequence>
				<xs:element name="b" type="xs:string"/>
				<xs:element name="c" type="xs:string"/>
			</xs:sequence>
		</xs:extension>
	</xs:complexContent>
</xs:complexType>
<xs:complexType name="Restricted">
	<xs:complexContent>
		<xs:restriction base="t:Base">
			<xs:sequence><xs:element name="a" type="xs:string"/></xs:sequence>
		</xs:restriction>
	</xs:complexContent>
</xs:complexType>
<xs:complexType name="Shape">
	<xs:choice>
		<xs:element name="circle" type="xs:string"/>
		<xs:element name="square" type="xs:string"/>
	</xs:choice>
</xs:complexType>
<xs:complexType name="MaybeShape">
	<xs:choice minOccurs="0">
		<xs:element name="circle" type="xs:string"/>
		<xs:element name="square" type="xs:string"/>
	</xs:choice>
</xs:complexType>
<xs:complexType name="Price">
	<xs:simpleContent>
		<xs:extension base="xs:decimal">
			<xs:attribute name="currency" type="xs:string" use="required"/>
		</xs:extension>
	</xs:simpleContent>
</xs:complexType>
<xs:complexType name="Attrs">
	<xs:attribute name="gone" type="xs:string" use="prohibited"/>
	<xs:attribute name="lang" type="xs:string" default="en"/>
	<xs:attribute name="count" type="xs:integer" fixed="3"/>
	<xs:attributeGroup ref="t:Audited"/>
</xs:complexType>
<xs:attributeGroup name="Audited">
	<xs:attribute name="by" type="xs:string"/>
</xs:attributeGroup>
<xs:complexType name="Elements">
	<xs:sequence>
		<xs:element name="count" type="xs:integer" nillable="true" default="3">
			<xs:annotation><xs:documentation>How many.</xs:documentation></xs:annotation>
		</xs:element>
		<xs:element ref="t:note"/>
		<xs:group ref="t:Pair"/>
		<xs:element name="any"/>
	</xs:sequence>
</xs:complexType>
<xs:group name="Pair">
	<xs:sequence>
		<xs:element name="x" type="xs:string"/>
		<xs:element name="y" type="xs:string" minOccurs="0"/>
	</xs:sequence>
</xs:group>`

func TestResolveComplexTypes(t *testing.T) {
	t.Parallel()

	defs := emit(t, complexTypes, jsonschema.Options{})

	tcs := map[string]string{
		"Tags": `{"type":"object","properties":{
			"tag":{"type":"array","items":{"type":"string"}},
			"pair":{"type":"array","items":{"type":"string"},"minItems":2,"maxItems":4}
		},"required":["tag","pair"]}`,
		"Shape": `{"type":"object","oneOf":[
			{"type":"object","properties":{"circle":{"type":"string"}},"required":["circle"]},
			{"type":"object","properties":{"square":{"type":"string"}},"required":["square"]}
		]}`,
		"MaybeShape": `{"type":"object","oneOf":[
			{"type":"object","properties":{"circle":{"type":"string"}},"required":["circle"]},
			{"type":"object","properties":{"square":{"type":"string"}},"required":["square"]},
			{"not":{"anyOf":[{"required":["circle"]},{"required":["square"]}]}}
		]}`,
		"Price": `{"type":"object","properties":{
			"#text":{"type":"number"},
			"@currency":{"type":"string"}
		},"required":["@currency"]}`,
		"Attrs": `{"type":"object","properties":{
			"@lang":{"type":"string","default":"en"},
			"@count":{"type":"integer","const":3},
			"@by":{"type":"string"}
		}}`,
		"Elements": `{"type":"object","properties":{
			"count":{"anyOf":[{"type":"integer","default":3},{"type":"null"}],"description":"How many."},
			"note":{"$ref":"#/$defs/element.note"},
			"x":{"type":"string"},
			"y":{"type":"string"},
			"any":true
		},"required":["count","note","x","any"]}`,
		"Restricted": `{"type":"object","$comment":"restriction of Base","properties":{
			"a":{"type":"string"}
		},"required":["a"]}`,
	}

	for key, want := range tcs {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			s, ok := defs.ComplexTypes[key]
			require.True(t, ok)
			requireSchema(t, want, s)
		})
	}
}

func TestResolveExtension(t *testing.T) {
	t.Parallel()

	defs := emit(t, complexTypes, jsonschema.Options{})

	base := defs.ComplexTypes["Base"]
	derived := defs.ComplexTypes["Derived"]

	assert.Equal(t, []string{"a", "b", "@id"}, propertyNames(base))
	assert.Equal(t, []string{"a", "b", "@id", "c"}, propertyNames(derived))
	assert.ElementsMatch(t, []string{"a", "@id", "b", "c"}, derived.Required)

	b, ok := derived.Properties.Get("b")
	require.True(t, ok)
	assert.Equal(t, "string", b.Type, "derived declaration should win")

	// The base must not be modified by the merge.
	b, ok = base.Properties.Get("b")
	require.True(t, ok)
	assert.Equal(t, "boolean", b.Type)
	assert.NotContains(t, base.Required, "c")
}

func TestResolveExtensionRedeclaresOptional(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="Base">
		<xs:sequence>
			<xs:element name="x" type="xs:string"/>
			<xs:element name="y" type="xs:string"/>
		</xs:sequence>
	</xs:complexType>
	<xs:complexType name="Loose">
		<xs:complexContent>
			<xs:extension base="t:Base">
				<xs:sequence><xs:element name="x" type="xs:boolean" minOccurs="0"/></xs:sequence>
			</xs:extension>
		</xs:complexContent>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{
		"x":{"type":"boolean"},
		"y":{"type":"string"}
	},"required":["y"]}`, defs.ComplexTypes["Loose"])

	assert.Equal(t, []string{"x", "y"}, defs.ComplexTypes["Base"].Required)
}

func TestResolveRestrictionKeepsOwnParticles(t *testing.T) {
	t.Parallel()

	defs := emit(t, complexTypes, jsonschema.Options{})

	assert.Equal(t, []string{"a"}, propertyNames(defs.ComplexTypes["Restricted"]))
}

func TestResolveOptions(t *testing.T) {
	t.Parallel()

	defs := emit(t, complexTypes, jsonschema.Options{AttributePrefix: "_", TextKey: "value"})

	assert.Equal(t, []string{"value", "_currency"}, propertyNames(defs.ComplexTypes["Price"]))
}

func TestResolveSimpleContentRestriction(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="Price">
		<xs:simpleContent>
			<xs:extension base="xs:decimal">
				<xs:attribute name="currency" type="xs:string" use="required"/>
			</xs:extension>
		</xs:simpleContent>
	</xs:complexType>
	<xs:complexType name="SmallPrice">
		<xs:simpleContent>
			<xs:restriction base="t:Price">
				<xs:maxInclusive value="10"/>
			</xs:restriction>
		</xs:simpleContent>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{
		"#text":{"type":"number","maximum":10},
		"@currency":{"type":"string"}
	},"required":["@currency"]}`, defs.ComplexTypes["SmallPrice"])
}

func TestResolveRepeatedChoice(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="Mix">
		<xs:choice maxOccurs="unbounded">
			<xs:element name="a" type="xs:string"/>
			<xs:element name="b" type="xs:string"/>
		</xs:choice>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{
		"a":{"type":"array","items":{"type":"string"}},
		"b":{"type":"array","items":{"type":"string"}}
	}}`, defs.ComplexTypes["Mix"])

	require.NotEmpty(t, defs.Notes)
}

func TestResolveHugeOccurs(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="T">
		<xs:sequence minOccurs="4294967296" maxOccurs="4294967296">
			<xs:element name="a" type="xs:string" minOccurs="4294967296" maxOccurs="4294967296"/>
			<xs:element name="b" type="xs:string"/>
		</xs:sequence>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{
		"a":{"type":"array","items":{"type":"string"},"minItems":9223372036854775807},
		"b":{"type":"array","items":{"type":"string"},"minItems":4294967296,"maxItems":4294967296}
	},"required":["a","b"]}`, defs.ComplexTypes["T"])
}

func TestResolveMixedContent(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="Para" mixed="true">
		<xs:sequence><xs:element name="b" type="xs:string" minOccurs="0"/></xs:sequence>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{"b":{"type":"string"}}}`, defs.ComplexTypes["Para"])
	require.Len(t, defs.Notes, 1)
	assert.Equal(t, "Para", defs.Notes[0].Where)
}

func TestResolveRecursiveTypes(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="A">
		<xs:sequence><xs:element name="b" type="t:B"/></xs:sequence>
	</xs:complexType>
	<xs:complexType name="B">
		<xs:sequence><xs:element name="a" type="t:A" minOccurs="0"/></xs:sequence>
	</xs:complexType>
	<xs:complexType name="Node">
		<xs:sequence>
			<xs:element name="child" minOccurs="0">
				<xs:complexType>
					<xs:complexContent>
						<xs:extension base="t:Node">
							<xs:attribute name="special" type="xs:boolean"/>
						</xs:extension>
					</xs:complexContent>
				</xs:complexType>
			</xs:element>
		</xs:sequence>
	</xs:complexType>`, jsonschema.Options{})

	requireSchema(t, `{"type":"object","properties":{"b":{"$ref":"#/$defs/B"}},"required":["b"]}`, defs.ComplexTypes["A"])
	requireSchema(t, `{"type":"object","properties":{"a":{"$ref":"#/$defs/A"}}}`, defs.ComplexTypes["B"])
	requireSchema(t, `{"type":"object","properties":{"child":{"allOf":[
		{"$ref":"#/$defs/Node"},
		{"type":"object","properties":{"@special":{"type":"boolean"}}}
	]}}}`, defs.ComplexTypes["Node"])
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want error
		body string
	}{
		"unknown type": {
			body: `<xs:element name="e" type="t:Missing"/>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"unknown builtin": {
			body: `<xs:element name="e" type="xs:missing"/>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"unknown element ref": {
			body: `<xs:complexType name="A"><xs:sequence><xs:element ref="t:missing"/></xs:sequence></xs:complexType>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"unknown group": {
			body: `<xs:complexType name="A"><xs:group ref="t:G"/></xs:complexType>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"unknown attribute group": {
			body: `<xs:complexType name="A"><xs:attributeGroup ref="t:G"/></xs:complexType>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"unknown base": {
			body: `<xs:complexType name="A"><xs:complexContent><xs:extension base="t:B"/></xs:complexContent></xs:complexType>`,
			want: xsderrors.ErrUnresolvedReference,
		},
		"derivation cycle": {
			body: `
			<xs:complexType name="A"><xs:complexContent><xs:extension base="t:B"/></xs:complexContent></xs:complexType>
			<xs:complexType name="B"><xs:complexContent><xs:extension base="t:A"/></xs:complexContent></xs:complexType>`,
			want: xsderrors.ErrReferenceCycle,
		},
		"simple derivation cycle": {
			body: `
			<xs:simpleType name="A"><xs:restriction base="t:B"/></xs:simpleType>
			<xs:simpleType name="B"><xs:restriction base="t:A"/></xs:simpleType>`,
			want: xsderrors.ErrReferenceCycle,
		},
		"group cycle": {
			body: `
			<xs:group name="G1"><xs:sequence><xs:group ref="t:G2"/></xs:sequence></xs:group>
			<xs:group name="G2"><xs:sequence><xs:group ref="t:G1"/></xs:sequence></xs:group>
			<xs:complexType name="A"><xs:group ref="t:G1"/></xs:complexType>`,
			want: xsderrors.ErrReferenceCycle,
		},
		"attribute group cycle": {
			body: `
			<xs:attributeGroup name="G1"><xs:attributeGroup ref="t:G2"/></xs:attributeGroup>
			<xs:attributeGroup name="G2"><xs:attributeGroup ref="t:G1"/></xs:attributeGroup>
			<xs:complexType name="A"><xs:attributeGroup ref="t:G1"/></xs:complexType>`,
			want: xsderrors.ErrReferenceCycle,
		},
		"wildcard": {
			body: `<xs:complexType name="A"><xs:sequence><xs:any/></xs:sequence></xs:complexType>`,
			want: xsderrors.ErrUnsupportedConstruct,
		},
		"any attribute": {
			body: `<xs:complexType name="A"><xs:anyAttribute/></xs:complexType>`,
			want: xsderrors.ErrUnsupportedConstruct,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := emitErr(t, tc.body, jsonschema.Options{})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestResolveCycleErrorPath(t *testing.T) {
	t.Parallel()

	err := emitErr(t, `
	<xs:complexType name="A"><xs:complexContent><xs:extension base="t:B"/></xs:complexContent></xs:complexType>
	<xs:complexType name="B"><xs:complexContent><xs:extension base="t:A"/></xs:complexContent></xs:complexType>`,
		jsonschema.Options{})

	var cycle *xsderrors.ReferenceCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "A"}, cycle.Path)
}

func TestResolveUnsupportedPolicyWarn(t *testing.T) {
	t.Parallel()

	defs := emit(t, `
	<xs:complexType name="Open">
		<xs:sequence>
			<xs:element name="a" type="xs:string"/>
			<xs:any minOccurs="0"/>
		</xs:sequence>
		<xs:anyAttribute/>
	</xs:complexType>`, jsonschema.Options{Unsupported: jsonschema.PolicyWarn})

	requireSchema(t, `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`, defs.ComplexTypes["Open"])

	require.Len(t, defs.Notes, 2)
	for _, n := range defs.Notes {
		assert.Equal(t, jsonschema.NoteUnsupportedSkipped, n.Kind)
		assert.Equal(t, "Open", n.Where)
	}
}

func TestResolveMemoReturnsCopies(t *testing.T) {
	t.Parallel()

	idx := index(t, simpleTypes)

	keys, err := jsonschema.NewKeys(idx, jsonschema.IdentifierLocal)
	require.NoError(t, err)

	r := jsonschema.NewResolver(idx, keys, jsonschema.Options{})

	age, ok := idx.SimpleTypes.Lookup(idx.SimpleTypes.Decls()[0].Name)
	require.True(t, ok)

	first, err := r.Resolve(age, jsonschema.Context{})
	require.NoError(t, err)

	first.Type = "string"

	second, err := r.Resolve(age, jsonschema.Context{})
	require.NoError(t, err)
	assert.Equal(t, "integer", second.Type)
}
