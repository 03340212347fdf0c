package convert_test

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xsd2json/pkg/convert"
	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/tracing"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

var testDataDir string

func init() {
	//nolint:dogsled
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	testDataDir = filepath.Join(dir, "testdata")
}

func convertFile(t *testing.T, name string, opts convert.Options) *convert.Result {
	t.Helper()

	res, err := convert.NewConverter(opts).Convert(context.Background(), filepath.Join(testDataDir, name))
	require.NoError(t, err)

	return res
}

func propertyPaths(m jsonschema.PropertyMap) []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Path
	}

	return out
}

func TestConvert(t *testing.T) {
	t.Parallel()

	res := convertFile(t, "shop.xsd", convert.Options{Validate: true})

	assert.Equal(t, "shop", res.Stem)
	assert.Equal(t, "shop", res.WithRefs.Title)
	assert.Equal(t, 6, res.DefinitionCount())
	assert.Contains(t, res.Elements, "shop")
	assert.Contains(t, res.SimpleTypes, "Currency")
	assert.Contains(t, res.SimpleTypes, "Amount")
	assert.Contains(t, res.ComplexTypes, "Category")
	assert.Contains(t, res.ComplexTypes, "Price")

	assert.Equal(t, []string{
		"shop",
		"shop.name",
		"shop.category",
		"shop.category[].title",
		"shop.category[].price",
		"shop.category[].price.#text",
		"shop.category[].price.@currency",
		"shop.category[].category",
		"shop.@currency",
	}, propertyPaths(res.Properties))

	nested, ok := res.Properties.Get("shop.category[].category")
	require.True(t, ok)
	assert.True(t, nested.Truncated)
	assert.Equal(t, "array", nested.Type)

	currency, ok := res.Properties.Get("shop.@currency")
	require.True(t, ok)
	assert.Equal(t, []any{"EUR", "USD"}, currency.Enum)

	require.Equal(t, 1, res.Count(convert.KindFlattenTruncation))
	assert.Zero(t, res.Count(convert.KindValidation))

	for _, d := range res.Diagnostics {
		if d.Kind == convert.KindFlattenTruncation {
			assert.Equal(t, "#/properties/shop/properties/category/items/properties/category/items", d.Where)
		}
	}

	require.NoError(t, jsonschema.CheckRefs(res.WithRefs))
}

func TestConvertPrefixedIdentifiers(t *testing.T) {
	t.Parallel()

	res := convertFile(t, "library.xsd", convert.Options{
		Schema: jsonschema.Options{Identifiers: jsonschema.IdentifierPrefixed},
	})

	assert.Contains(t, res.SimpleTypes, "lib.ISBN")
	assert.Contains(t, res.SimpleTypes, "pub.ISBN")
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		file string
		opts convert.Options
	}{
		"missing file": {
			file: "missing.xsd",
			err:  xsderrors.ErrParse,
		},
		"unresolved type": {
			file: "broken.xsd",
			err:  xsderrors.ErrUnresolvedReference,
		},
		"identifier collision": {
			file: "library.xsd",
			err:  xsderrors.ErrIdentifierCollision,
		},
		"strict validation": {
			file: "latin.xsd",
			opts: convert.Options{Validate: true, Strict: true},
			err:  xsderrors.ErrValidation,
		},
		"unknown root": {
			file: "shop.xsd",
			opts: convert.Options{Schema: jsonschema.Options{Roots: []string{"warehouse"}}},
			err:  xsderrors.ErrUnresolvedReference,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := convert.NewConverter(tc.opts).Convert(context.Background(), filepath.Join(testDataDir, tc.file))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestConvertValidationDiagnostics(t *testing.T) {
	t.Parallel()

	res := convertFile(t, "latin.xsd", convert.Options{Validate: true})

	assert.Equal(t, 2, res.Count(convert.KindValidation))

	res = convertFile(t, "latin.xsd", convert.Options{})
	assert.Zero(t, res.Count(convert.KindValidation))
}

func TestConvertMerged(t *testing.T) {
	t.Parallel()

	res := convertFile(t, "shop.xsd", convert.Options{})

	merged := string(res.Merged)
	assert.Contains(t, merged, `targetNamespace="urn:example:shop"`)
	assert.Contains(t, merged, `name="Currency"`)
	assert.Contains(t, merged, `name="Category"`)
	assert.NotContains(t, merged, "schemaLocation")
}

func TestConvertSchemaVersion(t *testing.T) {
	t.Parallel()

	res := convertFile(t, "shop.xsd", convert.Options{
		Schema:   jsonschema.Options{SchemaVersion: "0.0.1"},
		Validate: true,
	})

	assert.Equal(t, "0.0.1", res.WithRefs.Extras["version"])
	assert.Zero(t, res.Count(convert.KindValidation))
}

func TestConvertCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := convert.NewConverter(convert.Options{}).Convert(ctx, filepath.Join(testDataDir, "shop.xsd"))
	require.ErrorIs(t, err, context.Canceled)
}

type recordingTracer struct {
	names []string
	mu    sync.Mutex
}

func (r *recordingTracer) StartSpan(name string) tracing.Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names = append(r.names, name)

	return tracing.NopTracer{}.StartSpan(name)
}

func TestConvertSpans(t *testing.T) {
	t.Parallel()

	tracer := &recordingTracer{}

	convertFile(t, "shop.xsd", convert.Options{Tracer: tracer, Validate: true})

	assert.Equal(t, []string{"load", "merge", "collect", "emit", "flatten", "extract", "validate"}, tracer.names)
}

func TestStem(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"shop.xsd":           "shop",
		"dir/orders.v2.xsd":  "orders.v2",
		"/abs/path/no-ext":   "no-ext",
		"relative/Types.XSD": "Types",
	}

	for in, want := range tcs {
		assert.Equal(t, want, convert.Stem(in), in)
	}
}
