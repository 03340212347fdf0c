// Package jsonschema converts collected XSD declarations into JSON Schema
// documents.
//
// The [Resolver] maps one declaration at a time, the [Emitter] drives it over
// every top-level declaration to build the definition maps and the root
// schema that references them through $defs, and the [Flattener] inlines
// those references into a self-contained schema. [ExtractProperties] projects
// a flattened schema into a flat property map.
//
// Schema nodes are [github.com/invopop/jsonschema.Schema] values, so
// properties keep their declaration order when marshaled.
package jsonschema
