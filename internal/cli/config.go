package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that set flag values, e.g.
// XSD2JSON_MAX_RECURSION or XSD2JSON_LOG_LEVEL.
const EnvPrefix = "XSD2JSON"

// bindConfig fills every flag that was not given on the command line from
// the environment or, when configFile is set, from that file. Environment
// variables take precedence over the file.
func bindConfig(cc *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		slog.Debug("read config", slog.String("file", v.ConfigFileUsed()))
	}

	flags := cc.Flags()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	var merr error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}

		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(v.GetStringSlice(f.Name)); err != nil {
				merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.Name, err))
			}

			return
		}

		if err := flags.Set(f.Name, v.GetString(f.Name)); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.Name, err))
		}
	})

	return merr
}
