// Package descriptor holds the identity values shared by class members:
// class descriptors and field descriptors.
package descriptor

import (
	"strings"

	"github.com/dhamidi/xfield/classfile"
)

// ClassDescriptor identifies a class by its internal (slashed) name. It is
// comparable and used as a map key, for example for annotation types.
type ClassDescriptor struct {
	name string
}

// NewClassDescriptor accepts a slashed or dotted class name.
func NewClassDescriptor(name string) ClassDescriptor {
	return ClassDescriptor{name: classfile.SourceToInternalName(name)}
}

func ClassDescriptorFromDottedName(name string) ClassDescriptor {
	return NewClassDescriptor(name)
}

// ClassDescriptorFromSignature parses an object type signature such as
// "Ljava/lang/Deprecated;". Input that is not of that form is taken to be a
// bare class name.
func ClassDescriptorFromSignature(sig string) ClassDescriptor {
	if len(sig) > 2 && sig[0] == classfile.ObjectMarker && sig[len(sig)-1] == ';' {
		sig = sig[1 : len(sig)-1]
	}
	return NewClassDescriptor(sig)
}

// ClassName returns the slashed name.
func (c ClassDescriptor) ClassName() string { return c.name }

func (c ClassDescriptor) DottedClassName() string {
	return classfile.InternalToSourceName(c.name)
}

// PackageName returns the dotted package, "" for the default package.
func (c ClassDescriptor) PackageName() string {
	i := strings.LastIndexByte(c.name, '/')
	if i < 0 {
		return ""
	}
	return classfile.InternalToSourceName(c.name[:i])
}

func (c ClassDescriptor) SimpleName() string {
	return c.name[strings.LastIndexByte(c.name, '/')+1:]
}

// Signature returns the object type signature "L<name>;".
func (c ClassDescriptor) Signature() string {
	return string(classfile.ObjectMarker) + c.name + ";"
}

func (c ClassDescriptor) Compare(other ClassDescriptor) int {
	return strings.Compare(c.name, other.name)
}

func (c ClassDescriptor) String() string { return c.DottedClassName() }
