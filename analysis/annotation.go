package analysis

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dhamidi/xfield/descriptor"
)

// EnumValue is an enum constant used as an annotation element.
type EnumValue struct {
	Type descriptor.ClassDescriptor
	Name string
}

func (e EnumValue) String() string {
	return e.Type.DottedClassName() + "." + e.Name
}

// AnnotationValue is one annotation instance: its type and the named
// element values it carries. Element values are int32, int64, float32,
// float64, bool, int8, int16, uint16 (char), string, EnumValue,
// descriptor.ClassDescriptor (class literals), *AnnotationValue or []any.
//
// An AnnotationValue is immutable once constructed.
type AnnotationValue struct {
	class  descriptor.ClassDescriptor
	values map[string]any
}

// NewAnnotationValue copies values; later changes to the map are not seen.
func NewAnnotationValue(class descriptor.ClassDescriptor, values map[string]any) *AnnotationValue {
	return &AnnotationValue{class: class, values: maps.Clone(values)}
}

func (a *AnnotationValue) AnnotationClass() descriptor.ClassDescriptor { return a.class }

// Value returns the element named name. Array elements are returned as a
// fresh slice.
func (a *AnnotationValue) Value(name string) (any, bool) {
	v, ok := a.values[name]
	if arr, isArr := v.([]any); isArr {
		v = slices.Clone(arr)
	}
	return v, ok
}

// ElementNames returns the element names in sorted order.
func (a *AnnotationValue) ElementNames() []string {
	return slices.Sorted(maps.Keys(a.values))
}

func (a *AnnotationValue) String() string {
	var sb strings.Builder
	sb.WriteString("@")
	sb.WriteString(a.class.DottedClassName())
	names := a.ElementNames()
	if len(names) == 0 {
		return sb.String()
	}
	sb.WriteString("(")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", name, a.values[name])
	}
	sb.WriteString(")")
	return sb.String()
}

type annotationMap map[descriptor.ClassDescriptor]*AnnotationValue

func (m annotationMap) descriptors() []descriptor.ClassDescriptor {
	return slices.SortedFunc(maps.Keys(m), descriptor.ClassDescriptor.Compare)
}

func (m annotationMap) values() []*AnnotationValue {
	keys := m.descriptors()
	out := make([]*AnnotationValue, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func cloneParameterAnnotations(m map[int]annotationMap) map[int]annotationMap {
	out := make(map[int]annotationMap, len(m))
	for param, anns := range m {
		out[param] = maps.Clone(anns)
	}
	return out
}
