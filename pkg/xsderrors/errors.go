package xsderrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse indicates the input is not well-formed XML or not an XSD document.
	ErrParse = errors.New("parse")

	// ErrUnresolvedReference indicates a qualified name or $ref that does not
	// resolve to a declaration or definition.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrDuplicateDeclaration indicates two top-level declarations of the same
	// kind share a qualified name.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")

	// ErrIdentifierCollision indicates two distinct qualified names derive the
	// same JSON Schema identifier.
	ErrIdentifierCollision = errors.New("identifier collision")

	// ErrUnsupportedConstruct indicates a recognized XSD construct that has no
	// JSON Schema mapping.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrFacetConflict indicates restriction facets that cannot all hold.
	ErrFacetConflict = errors.New("facet conflict")

	// ErrReferenceCycle indicates a derivation chain or group reference that
	// revisits a qualified name.
	ErrReferenceCycle = errors.New("reference cycle")

	// ErrFlattenTruncated indicates a recursive definition was truncated while
	// flattening. It is a warning, not a failure.
	ErrFlattenTruncated = errors.New("flatten truncated")

	// ErrValidation indicates a generated document failed meta-schema validation.
	ErrValidation = errors.New("validation")

	// ErrMarshal indicates an error occurred while marshaling an output document.
	ErrMarshal = errors.New("marshal")

	// ErrWrite indicates an error occurred while writing.
	ErrWrite = errors.New("write")

	// ErrWriteFile indicates an error occurred while writing a file.
	ErrWriteFile = fmt.Errorf("file: %w", ErrWrite)
)

// ParseError reports malformed XML or a document that is not an XSD schema.
type ParseError struct {
	Err  error
	Path string
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrParse, e.Path)
	}

	return fmt.Sprintf("%s %s: %v", ErrParse, e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}

	return []error{ErrParse, e.Err}
}

// UnresolvedReferenceError reports a reference to an unknown name.
type UnresolvedReferenceError struct {
	// Kind is the kind of declaration that was expected, e.g. "type".
	Kind string
	// Name is the unresolved qualified name or $ref value.
	Name string
	// From is the declaration or location containing the reference.
	From string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("%s: %s %s", ErrUnresolvedReference, e.Kind, e.Name)
	}

	return fmt.Sprintf("%s: %s %s (referenced from %s)", ErrUnresolvedReference, e.Kind, e.Name, e.From)
}

func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// DuplicateDeclarationError reports a qualified name declared twice within one
// symbol space.
type DuplicateDeclarationError struct {
	Kind string
	Name string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrDuplicateDeclaration, e.Kind, e.Name)
}

func (e *DuplicateDeclarationError) Is(target error) bool {
	return target == ErrDuplicateDeclaration
}

// IdentifierCollisionError reports distinct names deriving the same key.
type IdentifierCollisionError struct {
	Key   string
	Names []string
}

func (e *IdentifierCollisionError) Error() string {
	return fmt.Sprintf("%s: %q derived from %s", ErrIdentifierCollision, e.Key, strings.Join(e.Names, ", "))
}

func (e *IdentifierCollisionError) Is(target error) bool {
	return target == ErrIdentifierCollision
}

// UnsupportedConstructError reports an XSD construct with no mapping.
type UnsupportedConstructError struct {
	Construct string
	In        string
}

func (e *UnsupportedConstructError) Error() string {
	if e.In == "" {
		return fmt.Sprintf("%s: xs:%s", ErrUnsupportedConstruct, e.Construct)
	}

	return fmt.Sprintf("%s: xs:%s in %s", ErrUnsupportedConstruct, e.Construct, e.In)
}

func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}

// FacetConflictError reports restriction facets that contradict each other.
type FacetConflictError struct {
	Type   string
	Facets [2]string
	Detail string
}

func (e *FacetConflictError) Error() string {
	return fmt.Sprintf("%s in %s: %s and %s: %s", ErrFacetConflict, e.Type, e.Facets[0], e.Facets[1], e.Detail)
}

func (e *FacetConflictError) Is(target error) bool {
	return target == ErrFacetConflict
}

// ReferenceCycleError reports a cycle that cannot be broken with a $ref, such
// as a type deriving from itself or a group containing itself.
type ReferenceCycleError struct {
	Kind string
	Path []string
}

func (e *ReferenceCycleError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrReferenceCycle, e.Kind, strings.Join(e.Path, " -> "))
}

func (e *ReferenceCycleError) Is(target error) bool {
	return target == ErrReferenceCycle
}

// FlattenTruncationWarning records where a recursive definition was cut off
// during flattening.
type FlattenTruncationWarning struct {
	// Ref is the $defs key that was not expanded again.
	Ref string
	// Location is a JSON pointer to the truncated node in the output.
	Location string
}

func (e *FlattenTruncationWarning) Error() string {
	return fmt.Sprintf("%s: recursive reference %q at %s", ErrFlattenTruncated, e.Ref, e.Location)
}

func (e *FlattenTruncationWarning) Is(target error) bool {
	return target == ErrFlattenTruncated
}
