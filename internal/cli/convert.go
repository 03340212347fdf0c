package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MacroPower/xsd2json/pkg/convert"
	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/tracing"
	"github.com/MacroPower/xsd2json/pkg/xsd"
)

func (a *RootArgs) converterOptions() (convert.Options, error) {
	var merr error

	if a.GetDraft() == jsonschema.UnknownDraft {
		merr = multierror.Append(merr, fmt.Errorf("--draft: unknown draft %q, expected one of %v",
			*a.draft, jsonschema.DraftEnum))
	}

	if !slices.Contains(jsonschema.IdentifierSchemeEnum, any(a.GetIdentifiers())) {
		merr = multierror.Append(merr, fmt.Errorf("--identifiers: unknown scheme %q, expected one of %v",
			*a.identifiers, jsonschema.IdentifierSchemeEnum))
	}

	if !slices.Contains(jsonschema.UnsupportedPolicyEnum, any(a.GetUnsupported())) {
		merr = multierror.Append(merr, fmt.Errorf("--unsupported: unknown policy %q, expected one of %v",
			*a.unsupported, jsonschema.UnsupportedPolicyEnum))
	}

	if a.GetFormat() == convert.UnknownFormat {
		merr = multierror.Append(merr, fmt.Errorf("--format: unknown format %q, expected one of %v",
			*a.format, convert.FormatEnum))
	}

	if a.GetMaxRecursion() < 1 {
		merr = multierror.Append(merr, fmt.Errorf("--max-recursion: must be at least 1, got %d",
			a.GetMaxRecursion()))
	}

	if a.GetAttributePrefix() == "" {
		merr = multierror.Append(merr, errors.New("--attribute-prefix: must not be empty"))
	}

	if a.GetTextKey() == "" {
		merr = multierror.Append(merr, errors.New("--text-key: must not be empty"))
	}

	if merr != nil {
		return convert.Options{}, merr
	}

	return convert.Options{
		Schema: jsonschema.Options{
			AttributePrefix: a.GetAttributePrefix(),
			TextKey:         a.GetTextKey(),
			Draft:           a.GetDraft(),
			Identifiers:     a.GetIdentifiers(),
			Unsupported:     a.GetUnsupported(),
			Roots:           a.GetRoots(),
			SchemaVersion:   a.GetSchemaVersion(),
		},
		MaxRecursion: a.GetMaxRecursion(),
		Validate:     a.GetValidate(),
		Strict:       a.GetStrict(),
		Tracer:       tracing.NewLoggingTracer(slog.Default()),
	}, nil
}

// runConvert converts every input concurrently. Files are written only when
// all conversions succeeded.
func runConvert(cc *cobra.Command, args *RootArgs, inputs []string) error {
	opts, err := args.converterOptions()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Inputs often include the same documents.
	opts.Loader = xsd.NewFileCache(os.ReadFile).Loader()

	results := make([]*convert.Result, len(inputs))

	g, ctx := errgroup.WithContext(cc.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, input := range inputs {
		g.Go(func() error {
			res, err := convert.NewConverter(opts).Convert(ctx, input)
			if err != nil {
				return fmt.Errorf("convert %s: %w", input, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := convert.WriteFiles(args.GetOutput(), args.GetFormat(), results...); err != nil {
		return err
	}

	for _, res := range results {
		for _, d := range res.Diagnostics {
			slog.Info("diagnostic",
				slog.String("file", res.Path),
				slog.String("kind", d.Kind.String()),
				slog.String("where", d.Where),
				slog.String("msg", d.Message),
			)
		}
	}

	if args.GetQuiet() {
		return nil
	}

	_, err = fmt.Fprint(cc.OutOrStdout(), renderSummary(cc.OutOrStdout(), args.GetOutput(), results))
	if err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}
