// Package xsderrors provides the error taxonomy for XSD to JSON Schema
// conversion.
//
// Each fatal failure mode has a sentinel error and a typed error carrying its
// context. Typed errors match their sentinel through [errors.Is], so callers
// can branch on the kind of failure without depending on message text.
package xsderrors
