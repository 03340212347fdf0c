package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MacroPower/xsd2json/pkg/convert"
	"github.com/MacroPower/xsd2json/pkg/log"
)

type summaryStyles struct {
	check    lipgloss.Style
	name     lipgloss.Style
	counts   lipgloss.Style
	warning  lipgloss.Style
	location lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(log.ColorProfile(w))

	return summaryStyles{
		check:    r.NewStyle().Foreground(lipgloss.Color("42")).SetString("✓"),
		name:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("211")),
		counts:   r.NewStyle().Faint(true),
		warning:  r.NewStyle().Foreground(lipgloss.Color("214")).PaddingLeft(2),
		location: r.NewStyle().Faint(true),
	}
}

// renderSummary lists each converted input with its output directory and
// diagnostics.
func renderSummary(w io.Writer, outDir string, results []*convert.Result) string {
	st := newSummaryStyles(w)

	var b strings.Builder

	for _, res := range results {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			st.check,
			st.name.Render(res.Stem),
			filepath.Join(outDir, res.Stem),
			st.counts.Render(fmt.Sprintf("(%s, %s, %s)",
				plural(res.DefinitionCount(), "definition"),
				plural(len(res.Properties), "property"),
				plural(len(res.Diagnostics), "diagnostic"),
			)),
		)

		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "%s %s\n",
				st.warning.Render(d.Kind.String()+":"),
				d.Message+" "+st.location.Render("at "+d.Where),
			)
		}
	}

	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}

	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
