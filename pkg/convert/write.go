package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// WriteFiles writes the documents of each result to dir/<stem>/. Every result
// is rendered before the first file is created, so a marshal error or two
// results sharing a stem leave dir untouched.
func WriteFiles(dir string, format Format, results ...*Result) error {
	type output struct {
		dir   string
		files []File
	}

	var (
		outputs []output
		merr    error
		stems   = map[string]string{}
	)

	for _, r := range results {
		if prev, ok := stems[r.Stem]; ok {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s and %s both write to %q",
				xsderrors.ErrWriteFile, prev, r.Path, filepath.Join(dir, r.Stem)))

			continue
		}

		stems[r.Stem] = r.Path

		files, err := r.Render(format)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		outputs = append(outputs, output{dir: filepath.Join(dir, r.Stem), files: files})
	}

	if merr != nil {
		return merr
	}

	for _, o := range outputs {
		if err := os.MkdirAll(o.dir, 0o750); err != nil {
			return fmt.Errorf("%w: %w", xsderrors.ErrWriteFile, err)
		}

		for _, f := range o.files {
			path := filepath.Join(o.dir, f.Name)

			if err := os.WriteFile(path, f.Data, 0o600); err != nil {
				return fmt.Errorf("%w: %w", xsderrors.ErrWriteFile, err)
			}

			slog.Debug("wrote file", slog.String("path", path))
		}
	}

	return nil
}
