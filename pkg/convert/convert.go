package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/tracing"
	"github.com/MacroPower/xsd2json/pkg/xsd"
)

// Options configure a [Converter].
type Options struct {
	// Tracer receives one span per pipeline stage. Defaults to
	// [tracing.NopTracer].
	Tracer tracing.Tracer
	// Loader reads the input documents. Defaults to [xsd.NewLoader].
	Loader *xsd.Loader
	Schema jsonschema.Options
	// MaxRecursion is passed to the [jsonschema.Flattener].
	MaxRecursion int
	// Validate compiles with_defs.json and resolved.json against the
	// meta-schema of the selected draft.
	Validate bool
	// Strict makes validation failures fatal.
	Strict bool
}

// Converter turns XSD files into JSON Schema documents.
type Converter struct {
	opts Options
}

// NewConverter creates a new [Converter].
func NewConverter(opts Options) *Converter {
	if opts.Tracer == nil {
		opts.Tracer = tracing.NopTracer{}
	}

	if opts.Loader == nil {
		opts.Loader = xsd.NewLoader()
	}

	return &Converter{opts: opts}
}

// Convert runs every stage for the XSD file at path. No output is written.
func (c *Converter) Convert(ctx context.Context, path string) (*Result, error) {
	stem := Stem(path)

	res := &Result{Path: path, Stem: stem}

	opts := c.opts.Schema
	if opts.Title == "" {
		opts.Title = stem
	}

	var (
		docs []*xsd.Document
		idx  *xsd.Index
		defs *jsonschema.Defs
	)

	err := c.stage(ctx, "load", path, func() error {
		var err error

		docs, err = c.opts.Loader.Load(path)

		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, "merge", path, func() error {
		var err error

		res.Merged, err = xsd.Merge(docs)

		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, "collect", path, func() error {
		var err error

		idx, err = xsd.Collect(docs...)

		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, "emit", path, func() error {
		var err error

		defs, err = jsonschema.NewEmitter(opts).Emit(idx)
		if err != nil {
			return err
		}

		return jsonschema.CheckRefs(defs.WithRefs)
	})
	if err != nil {
		return nil, err
	}

	res.Elements = defs.Elements
	res.SimpleTypes = defs.SimpleTypes
	res.ComplexTypes = defs.ComplexTypes
	res.WithRefs = defs.WithRefs

	for _, n := range defs.Notes {
		res.Diagnostics = append(res.Diagnostics, noteDiagnostic(n))
	}

	err = c.stage(ctx, "flatten", path, func() error {
		resolved, warnings, err := jsonschema.NewFlattener(c.opts.MaxRecursion).Flatten(defs.WithRefs)
		if err != nil {
			return err
		}

		res.Resolved = resolved

		for _, w := range warnings {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    KindFlattenTruncation,
				Where:   w.Location,
				Message: w.Error(),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, "extract", path, func() error {
		res.Properties = jsonschema.ExtractProperties(res.Resolved)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.opts.Validate {
		err = c.stage(ctx, "validate", path, func() error {
			return c.validate(res, opts.Draft)
		})
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("converted schema",
		slog.String("file", path),
		slog.Int("definitions", res.DefinitionCount()),
		slog.Int("properties", len(res.Properties)),
		slog.Int("diagnostics", len(res.Diagnostics)),
	)

	return res, nil
}

func (c *Converter) validate(res *Result, draft jsonschema.Draft) error {
	if draft == jsonschema.DefaultDraft {
		draft = jsonschema.LatestDraft
	}

	docs := []struct {
		schema *jsonschema.Schema
		name   string
	}{
		{name: WithDefsFile, schema: res.WithRefs},
		{name: ResolvedFile, schema: res.Resolved},
	}

	for _, d := range docs {
		err := jsonschema.Validate(d.name, d.schema, draft)
		if err == nil {
			continue
		}

		if c.opts.Strict {
			return fmt.Errorf("%s: %w", d.name, err)
		}

		slog.Warn("generated schema is not valid",
			slog.String("file", res.Path),
			slog.String("document", d.name),
			slog.Any("err", err),
		)

		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    KindValidation,
			Where:   d.name,
			Message: err.Error(),
		})
	}

	return nil
}

func (c *Converter) stage(ctx context.Context, name, path string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	span := c.opts.Tracer.StartSpan(name)
	span.SetBaggageItem("file", path)

	defer span.Finish()

	err := fn()
	if err != nil {
		span.SetBaggageItem("error", err.Error())
	}

	return err
}

// Stem returns the file name of path without its extension. It names the
// output directory of a conversion.
func Stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func noteDiagnostic(n jsonschema.Note) Diagnostic {
	kind := KindConversionNote
	if n.Kind == jsonschema.NoteUnsupportedSkipped {
		kind = KindUnsupportedSkipped
	}

	return Diagnostic{Kind: kind, Where: n.Where, Message: n.Message}
}
