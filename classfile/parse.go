package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	// n comes from the input; grow the buffer only as bytes actually arrive
	buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
	if err == nil && len(buf) < n {
		err = io.ErrUnexpectedEOF
	}
	r.err = err
	return buf
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("read version: %w", r.err)
	}

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = cp

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	cf.Interfaces = make([]uint16, r.readU2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
	}

	cf.Fields, err = readMembers(r, cp, "field")
	if err != nil {
		return nil, err
	}
	cf.Methods, err = readMembers(r, cp, "method")
	if err != nil {
		return nil, err
	}
	cf.Attributes, err = readAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}

	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	if count == 0 {
		return nil, fmt.Errorf("invalid constant pool count: 0")
	}

	cp := make(ConstantPool, count-1)
	for i := uint16(1); i < count; i++ {
		entry, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, err)
		}
		cp[i-1] = entry
		if tag := entry.Tag(); tag == ConstantLong || tag == ConstantDouble {
			// eight-byte constants occupy two slots
			i++
		}
	}
	return cp, nil
}

// indexLayout gives the operand count of entries stored as ConstantIndexInfo.
var indexLayout = map[ConstantTag]int{
	ConstantClass:              1,
	ConstantString:             1,
	ConstantMethodType:         1,
	ConstantModule:             1,
	ConstantPackage:            1,
	ConstantFieldref:           2,
	ConstantMethodref:          2,
	ConstantInterfaceMethodref: 2,
	ConstantNameAndType:        2,
	ConstantDynamic:            2,
	ConstantInvokeDynamic:      2,
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, r.err
	}

	var entry ConstantPoolEntry
	switch tag {
	case ConstantUtf8:
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(r.readU2())))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantLongInfo{Value: int64(uint64(high)<<32 | uint64(low))}
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}
	case ConstantMethodHandle:
		kind := uint16(r.readU1())
		entry = &ConstantIndexInfo{Kind: tag, First: kind, Second: r.readU2()}
	default:
		n, ok := indexLayout[tag]
		if !ok {
			return nil, fmt.Errorf("unknown constant pool tag: %d", tag)
		}
		info := &ConstantIndexInfo{Kind: tag, First: r.readU2()}
		if n == 2 {
			info.Second = r.readU2()
		}
		entry = info
	}

	if r.err != nil {
		return nil, r.err
	}
	return entry, nil
}

// readMembers reads a fields or methods table; both share the member_info
// layout.
func readMembers(r *reader, cp ConstantPool, kind string) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read %ss count: %w", kind, r.err)
	}

	members := make([]MemberInfo, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.NameIndex = r.readU2()
		m.DescriptorIndex = r.readU2()
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("read %s %d: %w", kind, i, err)
		}
		m.Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}

	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		nameIndex := r.readU2()
		info := r.readBytes(int(r.readU4()))
		if r.err != nil {
			return nil, r.err
		}
		name := cp.GetUtf8(nameIndex)
		parsed, err := parseAttribute(name, info)
		if err != nil {
			return nil, fmt.Errorf("decode %s attribute: %w", name, err)
		}
		attrs[i] = AttributeInfo{
			NameIndex: nameIndex,
			Info:      info,
			Parsed:    parsed,
		}
	}
	return attrs, nil
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is encoded in two
// bytes and supplementary characters as surrogate pairs of three bytes each.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
