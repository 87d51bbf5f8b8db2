package descriptor

import (
	"cmp"
	"fmt"
)

// FieldDescriptor is the identity of a field: owning class, name, raw
// (erased) signature and static-ness. The zero value is not a valid field.
type FieldDescriptor struct {
	class     ClassDescriptor
	name      string
	signature string
	static    bool
}

// NewFieldDescriptor accepts the class name in slashed or dotted form.
func NewFieldDescriptor(className, name, signature string, isStatic bool) FieldDescriptor {
	return FieldDescriptor{
		class:     NewClassDescriptor(className),
		name:      name,
		signature: signature,
		static:    isStatic,
	}
}

func (f FieldDescriptor) ClassDescriptor() ClassDescriptor { return f.class }

// SlashedClassName returns the owning class in internal form.
func (f FieldDescriptor) SlashedClassName() string { return f.class.ClassName() }

// ClassName returns the owning class in dotted form.
func (f FieldDescriptor) ClassName() string { return f.class.DottedClassName() }

func (f FieldDescriptor) Name() string      { return f.name }
func (f FieldDescriptor) Signature() string { return f.signature }
func (f FieldDescriptor) IsStatic() bool    { return f.static }

// Compare orders by class name, field name, signature and then
// static-ness, with instance fields first.
func (f FieldDescriptor) Compare(other FieldDescriptor) int {
	if c := f.class.Compare(other.class); c != 0 {
		return c
	}
	if c := cmp.Compare(f.name, other.name); c != 0 {
		return c
	}
	if c := cmp.Compare(f.signature, other.signature); c != 0 {
		return c
	}
	return compareBool(f.static, other.static)
}

func (f FieldDescriptor) String() string {
	s := fmt.Sprintf("%s.%s : %s", f.ClassName(), f.name, f.signature)
	if f.static {
		s = "static " + s
	}
	return s
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
