package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    any
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type SyntheticAttribute struct{}

// AnnotationsAttribute is the decoded form of both RuntimeVisibleAnnotations
// and RuntimeInvisibleAnnotations.
type AnnotationsAttribute struct {
	Visible     bool
	Annotations []Annotation
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue holds one annotation element. Value is a constant pool index
// (uint16) for the constant tags B C D F I J S Z s and for the class tag c,
// an EnumConstValue for e, an Annotation for @ and an ArrayValue for [.
type ElementValue struct {
	Tag   byte
	Value any
}

type EnumConstValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type ArrayValue struct {
	Values []ElementValue
}

func (a *AttributeInfo) AsSignature() *SignatureAttribute {
	v, _ := a.Parsed.(*SignatureAttribute)
	return v
}

func (a *AttributeInfo) AsAnnotations() *AnnotationsAttribute {
	v, _ := a.Parsed.(*AnnotationsAttribute)
	return v
}

// parseAttribute decodes the attributes this package understands. Other
// attributes are kept as raw bytes only and yield nil.
func parseAttribute(name string, info []byte) (any, error) {
	switch name {
	case AttrSignature:
		if len(info) < 2 {
			return nil, errTruncated
		}
		return &SignatureAttribute{SignatureIndex: binary.BigEndian.Uint16(info)}, nil
	case AttrSynthetic:
		return &SyntheticAttribute{}, nil
	case AttrRuntimeVisibleAnnotations, AttrRuntimeInvisibleAnnotations:
		anns, err := parseAnnotations(info)
		if err != nil {
			return nil, err
		}
		return &AnnotationsAttribute{
			Visible:     name == AttrRuntimeVisibleAnnotations,
			Annotations: anns,
		}, nil
	}
	return nil, nil
}

var errTruncated = errors.New("truncated attribute")

// cursor walks an attribute payload; the first error latches in err.
type cursor struct {
	b   []byte
	err error
}

func (c *cursor) u1() byte {
	if c.err != nil {
		return 0
	}
	if len(c.b) < 1 {
		c.err = errTruncated
		return 0
	}
	v := c.b[0]
	c.b = c.b[1:]
	return v
}

func (c *cursor) u2() uint16 {
	if c.err != nil {
		return 0
	}
	if len(c.b) < 2 {
		c.err = errTruncated
		return 0
	}
	v := binary.BigEndian.Uint16(c.b)
	c.b = c.b[2:]
	return v
}

func parseAnnotations(info []byte) ([]Annotation, error) {
	c := &cursor{b: info}
	anns := make([]Annotation, c.u2())
	for i := range anns {
		anns[i] = c.annotation()
	}
	return anns, c.err
}

func (c *cursor) annotation() Annotation {
	ann := Annotation{TypeIndex: c.u2()}
	n := c.u2()
	if c.err != nil {
		return ann
	}
	ann.ElementValuePairs = make([]ElementValuePair, n)
	for i := range ann.ElementValuePairs {
		ann.ElementValuePairs[i] = ElementValuePair{
			ElementNameIndex: c.u2(),
			Value:            c.elementValue(),
		}
	}
	return ann
}

func (c *cursor) elementValue() ElementValue {
	ev := ElementValue{Tag: c.u1()}
	switch ev.Tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		ev.Value = c.u2()
	case 'e':
		ev.Value = EnumConstValue{TypeNameIndex: c.u2(), ConstNameIndex: c.u2()}
	case '@':
		ev.Value = c.annotation()
	case '[':
		n := c.u2()
		if c.err != nil {
			return ev
		}
		values := make([]ElementValue, n)
		for i := range values {
			values[i] = c.elementValue()
		}
		ev.Value = ArrayValue{Values: values}
	default:
		if c.err == nil {
			c.err = fmt.Errorf("unknown element value tag %q", ev.Tag)
		}
	}
	return ev
}
