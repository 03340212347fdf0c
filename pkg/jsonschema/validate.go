package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	santhosh "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

func (d Draft) dialect() *santhosh.Draft {
	switch d {
	case Draft04:
		return santhosh.Draft4
	case Draft06:
		return santhosh.Draft6
	case Draft07:
		return santhosh.Draft7
	case Draft201909:
		return santhosh.Draft2019
	}

	return santhosh.Draft2020
}

// Validate compiles s against the meta-schema of draft. A document that
// declares $schema is checked against that dialect instead. The name only
// appears in error messages.
func Validate(name string, s *Schema, draft Draft) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", xsderrors.ErrMarshal, name, err)
	}

	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", xsderrors.ErrValidation, name, err)
	}

	loc := (&url.URL{Scheme: "file", Path: "/" + name}).String()

	c := santhosh.NewCompiler()
	c.DefaultDraft(draft.dialect())

	if err := c.AddResource(loc, doc); err != nil {
		return fmt.Errorf("%w: %s: %w", xsderrors.ErrValidation, name, err)
	}

	if _, err := c.Compile(loc); err != nil {
		return fmt.Errorf("%w: %s: %w", xsderrors.ErrValidation, name, err)
	}

	return nil
}
