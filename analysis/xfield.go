// Package analysis provides the field descriptors consumed by analysis
// passes: FieldInfo values built from parsed class files or synthesized for
// fields of classes that could not be loaded.
package analysis

import (
	"cmp"
	"errors"

	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
)

// ErrIncomparable is returned when a field descriptor is compared with a
// value that is neither a field identity nor an XField.
var ErrIncomparable = errors.New("incomparable field descriptor")

// XField is the query capability of a field as seen by analysis passes.
// *FieldInfo is the implementation built from class files; other
// implementations may come from source models or tests.
type XField interface {
	FieldDescriptor() descriptor.FieldDescriptor
	ClassName() string
	Name() string
	Signature() string
	SourceSignature() string
	IsStatic() bool
	AccessFlags() classfile.AccessFlags
	IsResolved() bool
}

// Ordering is the canonical total order over all field descriptors,
// supplied by the cross-reference factory that owns them.
type Ordering interface {
	Compare(a, b XField) int
}

// OrderingFunc adapts a plain function to Ordering.
type OrderingFunc func(a, b XField) int

func (f OrderingFunc) Compare(a, b XField) int { return f(a, b) }

// CanonicalOrdering orders by field identity, then places resolved fields
// before unresolved ones, then compares access flags.
var CanonicalOrdering Ordering = OrderingFunc(canonicalCompare)

func canonicalCompare(a, b XField) int {
	if c := a.FieldDescriptor().Compare(b.FieldDescriptor()); c != 0 {
		return c
	}
	if a.IsResolved() != b.IsResolved() {
		if a.IsResolved() {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.AccessFlags(), b.AccessFlags())
}
