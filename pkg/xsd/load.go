package xsd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// Loader reads a schema document and every document it includes or imports
// by schemaLocation.
type Loader struct {
	// ReadFile reads a document. It defaults to [os.ReadFile].
	ReadFile func(name string) ([]byte, error)
}

// NewLoader creates a [Loader] that reads from the local filesystem.
func NewLoader() *Loader {
	return &Loader{ReadFile: os.ReadFile}
}

// Load parses the document at path and the documents it references. The root
// document is first in the result; each file is visited once.
func (l *Loader) Load(path string) ([]*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &xsderrors.ParseError{Path: path, Err: err}
	}

	var (
		docs    []*Document
		visited = map[string]bool{}
	)

	var visit func(file, chameleon string) error

	visit = func(file, chameleon string) error {
		// A chameleon document is loaded once per namespace it is included
		// into.
		key := file + "#" + chameleon
		if visited[file] || visited[key] {
			return nil
		}

		visited[key] = true

		data, err := l.readFile(file)
		if err != nil {
			return &xsderrors.ParseError{Path: file, Err: err}
		}

		var opts []ParseOption
		if chameleon != "" {
			opts = append(opts, WithTargetNamespace(chameleon))
		}

		doc, err := Parse(file, data, opts...)
		if err != nil {
			return err
		}

		if !doc.Chameleon {
			visited[file] = true
		}

		docs = append(docs, doc)

		for _, inc := range doc.Includes {
			if inc.Location == "" {
				slog.Debug("skipping import without schemaLocation",
					slog.String("file", file),
					slog.String("namespace", inc.Namespace),
				)

				continue
			}

			next, ok := location(file, inc.Location)
			if !ok {
				slog.Warn("skipping remote schema location",
					slog.String("file", file),
					slog.String("location", inc.Location),
				)

				continue
			}

			ns := ""
			if !inc.Import {
				ns = doc.TargetNamespace
			}

			slog.Debug("following schema reference",
				slog.String("from", file),
				slog.String("location", next),
				slog.Bool("import", inc.Import),
			)

			if err := visit(next, ns); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
		}

		return nil
	}

	if err := visit(abs, ""); err != nil {
		return nil, err
	}

	return docs, nil
}

// location resolves a schemaLocation against the file that references it.
// Remote locations are not resolved.
func location(from, loc string) (string, bool) {
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" && u.Scheme != "file" {
		return "", false
	}

	if !filepath.IsAbs(loc) {
		loc = filepath.Join(filepath.Dir(from), loc)
	}

	return filepath.Clean(loc), true
}

func (l *Loader) readFile(name string) ([]byte, error) {
	if l.ReadFile == nil {
		return os.ReadFile(name)
	}

	return l.ReadFile(name)
}
