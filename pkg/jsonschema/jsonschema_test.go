package jsonschema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/xsd"
)

const header = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:t="urn:t" ` +
	`targetNamespace="urn:t" elementFormDefault="qualified">`

func index(t *testing.T, body string) *xsd.Index {
	t.Helper()

	doc, err := xsd.Parse("test.xsd", []byte(header+body+`</xs:schema>`))
	require.NoError(t, err)

	idx, err := xsd.Collect(doc)
	require.NoError(t, err)

	return idx
}

func emit(t *testing.T, body string, opts jsonschema.Options) *jsonschema.Defs {
	t.Helper()

	defs, err := jsonschema.NewEmitter(opts).Emit(index(t, body))
	require.NoError(t, err)

	return defs
}

func emitErr(t *testing.T, body string, opts jsonschema.Options) error {
	t.Helper()

	_, err := jsonschema.NewEmitter(opts).Emit(index(t, body))
	require.Error(t, err)

	return err
}

func requireSchema(t *testing.T, want string, s *jsonschema.Schema) {
	t.Helper()

	got, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, want, string(got))
}

func propertyNames(s *jsonschema.Schema) []string {
	if s.Properties == nil {
		return nil
	}

	var names []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

func TestGetDraft(t *testing.T) {
	t.Parallel()

	tcs := map[string]jsonschema.Draft{
		"":              jsonschema.DefaultDraft,
		"07":            jsonschema.Draft07,
		"draft-04":      jsonschema.Draft04,
		"Draft-2019-09": jsonschema.Draft201909,
		"2020-12":       jsonschema.Draft202012,
		"draft-99":      jsonschema.UnknownDraft,
	}

	for input, want := range tcs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, jsonschema.GetDraft(input))
		})
	}

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", jsonschema.Draft07.URI())
	assert.True(t, jsonschema.Draft04.BooleanExclusiveBounds())
	assert.False(t, jsonschema.Draft07.BooleanExclusiveBounds())
}

func TestGetOptionEnums(t *testing.T) {
	t.Parallel()

	assert.Equal(t, jsonschema.IdentifierPrefixed, jsonschema.GetIdentifierScheme("Prefixed"))
	assert.Equal(t, jsonschema.IdentifierLocal, jsonschema.GetIdentifierScheme(""))
	assert.Equal(t, jsonschema.IdentifierScheme("other"), jsonschema.GetIdentifierScheme("other"))
	assert.Equal(t, jsonschema.PolicyWarn, jsonschema.GetUnsupportedPolicy("WARN"))
	assert.Equal(t, jsonschema.PolicyFail, jsonschema.GetUnsupportedPolicy(""))
}
