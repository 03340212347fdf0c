package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MacroPower/xsd2json/pkg/convert"
	"github.com/MacroPower/xsd2json/pkg/jsonschema"
	"github.com/MacroPower/xsd2json/pkg/log"
)

const rootExample = `  # Convert a schema into ./output/<name>/
  xsd2json order.xsd

  # Convert several schemas, only from the "order" root element
  xsd2json -o schemas --root order order.xsd invoice.xsd

  # Emit draft-07 YAML documents
  xsd2json --draft 07 --format yaml order.xsd
`

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrLogHandlerFailed = errors.New("log handler failed")
)

func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:           name + " [flags] <file.xsd>...",
		Short:         shortDesc,
		Long:          longDesc,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, pArgs []string) error {
			return runConvert(cc, args, pArgs)
		},
	}

	cmd.PersistentFlags().StringVar(args.logLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(args.logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")
	cmd.PersistentFlags().StringVar(args.config, "config", "", "Read flag values from this YAML config file")
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))

	flags := cmd.Flags()
	flags.StringVarP(args.output, "output", "o", "output", "Write documents below this directory")
	must(cmd.MarkFlagDirname("output"))

	flags.StringVar(args.draft, "draft", string(jsonschema.LatestDraft),
		fmt.Sprintf("JSON Schema draft of the output %v", jsonschema.DraftEnum))
	flags.StringSliceVar(args.roots, "root", nil, "Root element names (default: every top-level element)")
	flags.StringVar(args.attributePrefix, "attribute-prefix", jsonschema.DefaultAttributePrefix,
		"Prefix of attribute property names")
	flags.StringVar(args.textKey, "text-key", jsonschema.DefaultTextKey, "Property name of simple content text")
	flags.StringVar(args.identifiers, "identifiers", string(jsonschema.IdentifierLocal),
		fmt.Sprintf("How $defs keys are derived from qualified names %v", jsonschema.IdentifierSchemeEnum))
	flags.StringVar(args.unsupported, "unsupported", string(jsonschema.PolicyFail),
		fmt.Sprintf("What to do with unsupported constructs %v", jsonschema.UnsupportedPolicyEnum))
	flags.IntVar(args.maxRecursion, "max-recursion", jsonschema.DefaultMaxRecursion,
		"How often a recursive definition is expanded before it is truncated")
	flags.StringVar(args.format, "format", string(convert.FormatJSON),
		fmt.Sprintf("Format of the schema documents %v", convert.FormatEnum))
	flags.StringVar(args.schemaVersion, "schema-version", "", "Write this version keyword into with_defs")
	flags.BoolVar(args.validate, "validate", true, "Validate the output against the draft's meta-schema")
	flags.BoolVar(args.strict, "strict", false, "Fail when validation fails")
	flags.BoolVarP(args.quiet, "quiet", "q", false, "Do not print a summary")

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		if err := bindConfig(cc, args.GetConfig()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		h, err := log.CreateHandler(
			cc.ErrOrStderr(),
			args.GetLogLevel(),
			args.GetLogFormat(),
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
		}

		slog.SetDefault(slog.New(h))

		slog.Debug("ready to go")

		return nil
	}

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
