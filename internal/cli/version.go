package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MacroPower/xsd2json/pkg/version"
)

func GetVersionString() string {
	return fmt.Sprintf("%s (revision %s, %s)", version.Version, version.Revision, version.GoVersion)
}

// NewVersionCmd returns the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version of the xsd2json CLI",
		Args:  cobra.NoArgs,
		Run: func(cc *cobra.Command, _ []string) {
			cc.Println(GetVersionString())
		},
	}
}
