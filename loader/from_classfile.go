// Package loader decodes class files and drives analysis.Builder for each
// field they declare.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
)

func FromFile(path string, opts ...analysis.Option) ([]*analysis.FieldInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, opts...)
}

func FromReader(r io.Reader, opts ...analysis.Option) ([]*analysis.FieldInfo, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromClassFile(cf, opts...)
}

// FromClassFile builds one resolved FieldInfo per field, in declaration
// order. A field marked only by a Synthetic attribute is reported as
// synthetic. Annotation elements that reference missing or mistyped
// constants are an error.
func FromClassFile(cf *classfile.ClassFile, opts ...analysis.Option) ([]*analysis.FieldInfo, error) {
	cp := cf.ConstantPool
	className := classfile.InternalToSourceName(cf.ClassName())

	fields := make([]*analysis.FieldInfo, 0, len(cf.Fields))
	for i := range cf.Fields {
		field := &cf.Fields[i]
		flags := field.AccessFlags
		if field.IsSynthetic(cp) {
			flags |= classfile.AccSynthetic
		}
		b := analysis.NewBuilder(className, field.Name(cp), field.Descriptor(cp), flags, opts...)
		if sig := field.Signature(cp); sig != "" {
			b.SetSourceSignature(sig)
		}
		for _, ann := range field.Annotations(cp) {
			typeSig := cp.GetUtf8(ann.TypeIndex)
			value, err := annotationValue(typeSig, ann, cp)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name(cp), err)
			}
			b.AddAnnotation(typeSig, value)
		}
		fields = append(fields, b.Build())
	}
	return fields, nil
}

func annotationValue(typeSig string, ann classfile.Annotation, cp classfile.ConstantPool) (*analysis.AnnotationValue, error) {
	values := make(map[string]any, len(ann.ElementValuePairs))
	for _, pair := range ann.ElementValuePairs {
		name := cp.GetUtf8(pair.ElementNameIndex)
		v, err := elementValue(pair.Value, cp)
		if err != nil {
			return nil, fmt.Errorf("annotation %s element %s: %w", typeSig, name, err)
		}
		values[name] = v
	}
	return analysis.NewAnnotationValue(descriptor.ClassDescriptorFromSignature(typeSig), values), nil
}

func elementValue(ev classfile.ElementValue, cp classfile.ConstantPool) (any, error) {
	switch v := ev.Value.(type) {
	case uint16:
		return constantElement(ev.Tag, v, cp)
	case classfile.EnumConstValue:
		typeSig, ok1 := cp.Utf8(v.TypeNameIndex)
		name, ok2 := cp.Utf8(v.ConstNameIndex)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("bad enum constant #%d.#%d", v.TypeNameIndex, v.ConstNameIndex)
		}
		return analysis.EnumValue{Type: descriptor.ClassDescriptorFromSignature(typeSig), Name: name}, nil
	case classfile.Annotation:
		return annotationValue(cp.GetUtf8(v.TypeIndex), v, cp)
	case classfile.ArrayValue:
		out := make([]any, len(v.Values))
		for i, e := range v.Values {
			elem, err := elementValue(e, cp)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = elem
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported element value tag %q", ev.Tag)
}

func constantElement(tag byte, idx uint16, cp classfile.ConstantPool) (any, error) {
	var (
		v  any
		ok bool
	)
	switch tag {
	case 's':
		v, ok = cp.Utf8(idx)
	case 'c':
		// class literals are return descriptors; keep primitives and void as-is
		var sig string
		if sig, ok = cp.Utf8(idx); ok && len(sig) > 0 && sig[0] == classfile.ObjectMarker {
			v = descriptor.ClassDescriptorFromSignature(sig)
		} else {
			v = sig
		}
	case 'D':
		v, ok = cp.GetDouble(idx)
	case 'F':
		v, ok = cp.GetFloat(idx)
	case 'J':
		v, ok = cp.GetLong(idx)
	default:
		var i int32
		i, ok = cp.GetInteger(idx)
		switch tag {
		case 'Z':
			v = i != 0
		case 'B':
			v = int8(i)
		case 'S':
			v = int16(i)
		case 'C':
			v = uint16(i)
		default:
			v = i
		}
	}
	if !ok {
		return nil, fmt.Errorf("tag %q: constant #%d missing or of the wrong kind", tag, idx)
	}
	return v, nil
}
