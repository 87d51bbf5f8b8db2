package analysis

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
)

// outerThisPrefix names the synthetic fields javac generates for the
// enclosing instance of an inner class.
const outerThisPrefix = "this$"

// FieldInfo describes one field of one class. It is immutable and safe for
// concurrent use. Resolved values come from Builder.Build; unresolved
// placeholders from NewUnresolvedFieldInfo.
type FieldInfo struct {
	id                   descriptor.FieldDescriptor
	accessFlags          classfile.AccessFlags
	sourceSignature      string
	annotations          annotationMap
	parameterAnnotations map[int]annotationMap
	resolved             bool
	ordering             Ordering
}

var _ XField = (*FieldInfo)(nil)

func newFieldInfo(
	className, name, signature, sourceSignature string,
	flags classfile.AccessFlags,
	annotations annotationMap,
	parameterAnnotations map[int]annotationMap,
	resolved bool,
	o options,
) *FieldInfo {
	if strings.HasPrefix(name, outerThisPrefix) {
		flags |= classfile.AccFinal
	}
	return &FieldInfo{
		id:                   descriptor.NewFieldDescriptor(className, name, signature, flags.IsStatic()),
		accessFlags:          flags,
		sourceSignature:      sourceSignature,
		annotations:          annotations,
		parameterAnnotations: parameterAnnotations,
		resolved:             resolved,
		ordering:             o.ordering,
	}
}

// NewUnresolvedFieldInfo synthesizes a placeholder for a field whose
// declaring class is not available. Its only access flag is STATIC when
// isStatic is set, plus FINAL for outer-instance references.
func NewUnresolvedFieldInfo(className, name, signature string, isStatic bool, opts ...Option) *FieldInfo {
	var flags classfile.AccessFlags
	if isStatic {
		flags = classfile.AccStatic
	}
	return newFieldInfo(className, name, signature, "", flags, nil, nil, false, newOptions(opts))
}

// FieldDescriptor returns the identity of the field.
func (f *FieldInfo) FieldDescriptor() descriptor.FieldDescriptor { return f.id }

func (f *FieldInfo) ClassDescriptor() descriptor.ClassDescriptor { return f.id.ClassDescriptor() }

// ClassName returns the owning class in dotted form.
func (f *FieldInfo) ClassName() string { return f.id.ClassName() }

func (f *FieldInfo) SlashedClassName() string { return f.id.SlashedClassName() }
func (f *FieldInfo) PackageName() string      { return f.id.ClassDescriptor().PackageName() }
func (f *FieldInfo) Name() string             { return f.id.Name() }
func (f *FieldInfo) Signature() string        { return f.id.Signature() }
func (f *FieldInfo) IsStatic() bool           { return f.id.IsStatic() }

// AccessFlags returns the flags after the outer-instance FINAL adjustment.
func (f *FieldInfo) AccessFlags() classfile.AccessFlags { return f.accessFlags }

func (f *FieldInfo) IsPublic() bool       { return f.accessFlags.IsPublic() }
func (f *FieldInfo) IsPrivate() bool      { return f.accessFlags.IsPrivate() }
func (f *FieldInfo) IsProtected() bool    { return f.accessFlags.IsProtected() }
func (f *FieldInfo) IsFinal() bool        { return f.accessFlags.IsFinal() }
func (f *FieldInfo) IsVolatile() bool     { return f.accessFlags.IsVolatile() }
func (f *FieldInfo) IsTransient() bool    { return f.accessFlags.IsTransient() }
func (f *FieldInfo) IsSynthetic() bool    { return f.accessFlags.IsSynthetic() }
func (f *FieldInfo) IsEnum() bool         { return f.accessFlags.IsEnum() }
func (f *FieldInfo) IsSynchronized() bool { return f.accessFlags.IsSynchronized() }
func (f *FieldInfo) IsNative() bool       { return f.accessFlags.IsNative() }

// IsReferenceType reports whether the field holds an object or an array.
func (f *FieldInfo) IsReferenceType() bool {
	return classfile.IsReferenceSignature(f.Signature())
}

// NumParams is always 0 for a well-formed field signature.
func (f *FieldInfo) NumParams() int {
	return classfile.NumParameters(f.Signature())
}

// SourceSignature returns the generic signature, or "" if there is none.
func (f *FieldInfo) SourceSignature() string { return f.sourceSignature }

func (f *FieldInfo) IsResolved() bool { return f.resolved }

// AnnotationDescriptors returns the annotation types present on the field,
// sorted by class name.
func (f *FieldInfo) AnnotationDescriptors() []descriptor.ClassDescriptor {
	return f.annotations.descriptors()
}

// Annotations returns the annotations in AnnotationDescriptors order.
func (f *FieldInfo) Annotations() []*AnnotationValue {
	return f.annotations.values()
}

// Annotation returns nil when the field carries no annotation of that type.
func (f *FieldInfo) Annotation(class descriptor.ClassDescriptor) *AnnotationValue {
	return f.annotations[class]
}

// ParameterAnnotation exists for parity with method descriptors; fields
// have no parameters, so it returns nil.
func (f *FieldInfo) ParameterAnnotation(param int, class descriptor.ClassDescriptor) *AnnotationValue {
	return f.parameterAnnotations[param][class]
}

// Compare orders f against a field identity (descriptor.FieldDescriptor,
// *descriptor.FieldDescriptor or *FieldInfo) by identity, and against any
// other XField by the injected Ordering. Any other value, including nil
// pointers, yields an error wrapping ErrIncomparable.
func (f *FieldInfo) Compare(other any) (int, error) {
	switch o := other.(type) {
	case descriptor.FieldDescriptor:
		return f.id.Compare(o), nil
	case *descriptor.FieldDescriptor:
		if o != nil {
			return f.id.Compare(*o), nil
		}
	case *FieldInfo:
		if o != nil {
			return f.id.Compare(o.id), nil
		}
	case XField:
		if !isNilPointer(o) {
			return f.ordering.Compare(f, o), nil
		}
	}
	return 0, fmt.Errorf("compare %T with %T: %w", f, other, ErrIncomparable)
}

// isNilPointer catches typed nils such as (*T)(nil) stored in an XField.
func isNilPointer(x XField) bool {
	v := reflect.ValueOf(x)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (f *FieldInfo) String() string {
	var sb strings.Builder
	if mods := f.accessFlags.String(); mods != "" {
		sb.WriteString(mods)
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "%s.%s : %s", f.ClassName(), f.Name(), f.Signature())
	if !f.resolved {
		sb.WriteString(" (unresolved)")
	}
	return sb.String()
}
