package analysis

import (
	"maps"

	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
)

// Builder accumulates the state of one field while a class file is being
// decoded. A Builder is not safe for concurrent use.
type Builder struct {
	className       string
	fieldName       string
	fieldSignature  string
	accessFlags     classfile.AccessFlags
	sourceSignature string

	annotations          annotationMap
	parameterAnnotations map[int]annotationMap

	opts options
}

// NewBuilder starts a field of the class named className (dotted form;
// slashed names are accepted too) with its raw signature and access flags.
func NewBuilder(className, fieldName, fieldSignature string, flags classfile.AccessFlags, opts ...Option) *Builder {
	return &Builder{
		className:            className,
		fieldName:            fieldName,
		fieldSignature:       fieldSignature,
		accessFlags:          flags,
		annotations:          annotationMap{},
		parameterAnnotations: map[int]annotationMap{},
		opts:                 newOptions(opts),
	}
}

// SetSourceSignature records the generic signature; the last call wins.
func (b *Builder) SetSourceSignature(sig string) {
	b.sourceSignature = sig
}

// AddAnnotation records value under the annotation type named by
// typeSignature ("Ljava/lang/Deprecated;"), replacing any earlier value of
// the same type.
func (b *Builder) AddAnnotation(typeSignature string, value *AnnotationValue) {
	b.annotations[descriptor.ClassDescriptorFromSignature(typeSignature)] = value
}

// Build returns a resolved FieldInfo. Annotation storage is copied on every
// call, so the Builder may keep being used and each result stays unchanged.
func (b *Builder) Build() *FieldInfo {
	return newFieldInfo(
		b.className,
		b.fieldName,
		b.fieldSignature,
		b.sourceSignature,
		b.accessFlags,
		maps.Clone(b.annotations),
		cloneParameterAnnotations(b.parameterAnnotations),
		true,
		b.opts,
	)
}
