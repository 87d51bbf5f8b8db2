// Package classtest assembles minimal class files in memory for tests.
package classtest

import (
	"encoding/binary"
	"math"

	"github.com/dhamidi/xfield/classfile"
)

type Class struct {
	Name   string // internal form, e.g. "com/example/Widget"
	Super  string
	Flags  classfile.AccessFlags
	Fields []Field
}

type Field struct {
	Flags       classfile.AccessFlags
	Name        string
	Descriptor  string
	Signature   string
	Constant    any // int32, int64, float32, float64 or string
	Synthetic   bool
	Annotations []Annotation
}

type Annotation struct {
	Type      string // field descriptor, e.g. "Ljava/lang/Deprecated;"
	Invisible bool
	Elements  []Element
}

type Element struct {
	Name  string
	Value any
}

// Enum is an enum constant element value.
type Enum struct {
	Type string
	Name string
}

// ClassRef is a class literal element value holding a return descriptor.
type ClassRef string

type pool struct {
	entries [][]byte
	index   map[string]uint16
	next    uint16
}

func newPool() *pool {
	return &pool{index: map[string]uint16{}, next: 1}
}

func (p *pool) add(key string, data []byte, slots uint16) uint16 {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	idx := p.next
	p.index[key] = idx
	p.entries = append(p.entries, data)
	p.next += slots
	return idx
}

func (p *pool) utf8(s string) uint16 {
	data := []byte{byte(classfile.ConstantUtf8)}
	data = binary.BigEndian.AppendUint16(data, uint16(len(s)))
	data = append(data, s...)
	return p.add("u:"+s, data, 1)
}

func (p *pool) class(name string) uint16 {
	data := []byte{byte(classfile.ConstantClass)}
	data = binary.BigEndian.AppendUint16(data, p.utf8(name))
	return p.add("c:"+name, data, 1)
}

func (p *pool) integer(v int32) uint16 {
	data := []byte{byte(classfile.ConstantInteger)}
	data = binary.BigEndian.AppendUint32(data, uint32(v))
	return p.add("i:"+string(data), data, 1)
}

func (p *pool) long(v int64) uint16 {
	data := []byte{byte(classfile.ConstantLong)}
	data = binary.BigEndian.AppendUint64(data, uint64(v))
	return p.add("j:"+string(data), data, 2)
}

func (p *pool) float(v float32) uint16 {
	data := []byte{byte(classfile.ConstantFloat)}
	data = binary.BigEndian.AppendUint32(data, math.Float32bits(v))
	return p.add("f:"+string(data), data, 1)
}

func (p *pool) double(v float64) uint16 {
	data := []byte{byte(classfile.ConstantDouble)}
	data = binary.BigEndian.AppendUint64(data, math.Float64bits(v))
	return p.add("d:"+string(data), data, 2)
}

func (p *pool) str(s string) uint16 {
	data := []byte{byte(classfile.ConstantString)}
	data = binary.BigEndian.AppendUint16(data, p.utf8(s))
	return p.add("s:"+s, data, 1)
}

func (p *pool) constant(v any) uint16 {
	switch v := v.(type) {
	case int32:
		return p.integer(v)
	case int64:
		return p.long(v)
	case float32:
		return p.float(v)
	case float64:
		return p.double(v)
	case string:
		return p.str(v)
	}
	panic("classtest: unsupported constant")
}

// Bytes encodes c as a Java 8 class file.
func (c Class) Bytes() []byte {
	p := newPool()
	super := c.Super
	if super == "" {
		super = "java/lang/Object"
	}
	thisIdx := p.class(c.Name)
	superIdx := p.class(super)

	var fields []byte
	fields = binary.BigEndian.AppendUint16(fields, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		fields = append(fields, encodeField(p, f)...)
	}

	var out []byte
	out = binary.BigEndian.AppendUint32(out, classfile.Magic)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 52)
	out = binary.BigEndian.AppendUint16(out, p.next)
	for _, e := range p.entries {
		out = append(out, e...)
	}
	out = binary.BigEndian.AppendUint16(out, uint16(c.Flags))
	out = binary.BigEndian.AppendUint16(out, thisIdx)
	out = binary.BigEndian.AppendUint16(out, superIdx)
	out = binary.BigEndian.AppendUint16(out, 0) // interfaces
	out = append(out, fields...)
	out = binary.BigEndian.AppendUint16(out, 0) // methods
	out = binary.BigEndian.AppendUint16(out, 0) // attributes
	return out
}

func encodeField(p *pool, f Field) []byte {
	var attrs [][]byte
	if f.Signature != "" {
		attrs = append(attrs, attribute(p, classfile.AttrSignature, binary.BigEndian.AppendUint16(nil, p.utf8(f.Signature))))
	}
	if f.Constant != nil {
		attrs = append(attrs, attribute(p, "ConstantValue", binary.BigEndian.AppendUint16(nil, p.constant(f.Constant))))
	}
	if f.Synthetic {
		attrs = append(attrs, attribute(p, classfile.AttrSynthetic, nil))
	}
	var visible, invisible []Annotation
	for _, a := range f.Annotations {
		if a.Invisible {
			invisible = append(invisible, a)
		} else {
			visible = append(visible, a)
		}
	}
	if len(visible) > 0 {
		attrs = append(attrs, attribute(p, classfile.AttrRuntimeVisibleAnnotations, encodeAnnotations(p, visible)))
	}
	if len(invisible) > 0 {
		attrs = append(attrs, attribute(p, classfile.AttrRuntimeInvisibleAnnotations, encodeAnnotations(p, invisible)))
	}

	var out []byte
	out = binary.BigEndian.AppendUint16(out, uint16(f.Flags))
	out = binary.BigEndian.AppendUint16(out, p.utf8(f.Name))
	out = binary.BigEndian.AppendUint16(out, p.utf8(f.Descriptor))
	out = binary.BigEndian.AppendUint16(out, uint16(len(attrs)))
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}

func attribute(p *pool, name string, info []byte) []byte {
	out := binary.BigEndian.AppendUint16(nil, p.utf8(name))
	out = binary.BigEndian.AppendUint32(out, uint32(len(info)))
	return append(out, info...)
}

func encodeAnnotations(p *pool, anns []Annotation) []byte {
	out := binary.BigEndian.AppendUint16(nil, uint16(len(anns)))
	for _, a := range anns {
		out = append(out, encodeAnnotation(p, a)...)
	}
	return out
}

func encodeAnnotation(p *pool, a Annotation) []byte {
	out := binary.BigEndian.AppendUint16(nil, p.utf8(a.Type))
	out = binary.BigEndian.AppendUint16(out, uint16(len(a.Elements)))
	for _, e := range a.Elements {
		out = binary.BigEndian.AppendUint16(out, p.utf8(e.Name))
		out = append(out, encodeElementValue(p, e.Value)...)
	}
	return out
}

func encodeElementValue(p *pool, v any) []byte {
	switch v := v.(type) {
	case int32:
		return binary.BigEndian.AppendUint16([]byte{'I'}, p.integer(v))
	case int64:
		return binary.BigEndian.AppendUint16([]byte{'J'}, p.long(v))
	case float64:
		return binary.BigEndian.AppendUint16([]byte{'D'}, p.double(v))
	case bool:
		var i int32
		if v {
			i = 1
		}
		return binary.BigEndian.AppendUint16([]byte{'Z'}, p.integer(i))
	case string:
		return binary.BigEndian.AppendUint16([]byte{'s'}, p.utf8(v))
	case Enum:
		out := binary.BigEndian.AppendUint16([]byte{'e'}, p.utf8(v.Type))
		return binary.BigEndian.AppendUint16(out, p.utf8(v.Name))
	case ClassRef:
		return binary.BigEndian.AppendUint16([]byte{'c'}, p.utf8(string(v)))
	case Annotation:
		return append([]byte{'@'}, encodeAnnotation(p, v)...)
	case []any:
		out := binary.BigEndian.AppendUint16([]byte{'['}, uint16(len(v)))
		for _, e := range v {
			out = append(out, encodeElementValue(p, e)...)
		}
		return out
	}
	panic("classtest: unsupported element value")
}
