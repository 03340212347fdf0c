package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MacroPower/xsd2json/internal/cli"
)

const (
	cmdName = "xsd2json"

	shortDesc = "Convert XML Schema documents to JSON Schema."
	longDesc  = `Convert XML Schema (XSD) documents to JSON Schema.

For every input file, xsd2json writes the following into <output>/<name>/:

  elements_defs.json      top-level element definitions
  simple_type_defs.json   simple type definitions
  complex_type_defs.json  complex type definitions
  with_defs.json          root schema with $defs and $ref
  resolved.json           root schema with every reference inlined
  properties.yaml         flat list of property paths and constraints
  merged.xsd              the input schema with its includes merged in

Flags may also be set with XSD2JSON_* environment variables, e.g.
XSD2JSON_MAX_RECURSION=2, or in a YAML file given with --config.
`
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	err := cmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
