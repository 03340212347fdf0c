package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dadav/go-jsonpointer"
	"github.com/hashicorp/go-multierror"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// CheckRefs reports every $ref in s that is not a "#" JSON pointer resolving
// inside s itself.
func CheckRefs(s *Schema) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %w", xsderrors.ErrMarshal, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", xsderrors.ErrMarshal, err)
	}

	var merr error

	checked := map[string]bool{}

	err = Walk(s, func(ptr string, n *Schema) error {
		if n.Ref == "" || checked[n.Ref] {
			return nil
		}

		checked[n.Ref] = true

		fragment, ok := strings.CutPrefix(n.Ref, "#")
		if ok {
			_, err := jsonpointer.Get(doc, fragment)
			ok = err == nil
		}

		if !ok {
			merr = multierror.Append(merr, &xsderrors.UnresolvedReferenceError{
				Kind: "$ref",
				Name: n.Ref,
				From: "#" + ptr,
			})
		}

		return nil
	})
	if err != nil {
		return err
	}

	return merr
}
