// Package convert runs the XSD to JSON Schema pipeline for one input file at a
// time and writes the resulting documents.
//
// A [Converter] loads the schema and everything it includes or imports,
// indexes the declarations, emits definitions with references, flattens them
// and lists the resulting properties. Non-fatal findings are returned as
// [Diagnostic] values on the [Result]; [WriteFiles] only creates files once
// every result has been rendered.
package convert
