package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

// ConstantIndexInfo covers every entry whose payload is one or two
// constant pool indices (Class, String, *ref, NameAndType, MethodType,
// Dynamic, InvokeDynamic, Module, Package). MethodHandle stores its
// reference kind in First and the reference index in Second.
type ConstantIndexInfo struct {
	Kind   ConstantTag
	First  uint16
	Second uint16
}

func (c *ConstantIndexInfo) Tag() ConstantTag { return c.Kind }

// ConstantPool is indexed from 1 as in the class file; the second slot of
// Long and Double entries is nil.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) indexEntry(index uint16, kind ConstantTag) (*ConstantIndexInfo, bool) {
	e, ok := cp.entry(index).(*ConstantIndexInfo)
	if !ok || e.Kind != kind {
		return nil, false
	}
	return e, true
}

// GetUtf8 returns "" when index does not name a Utf8 entry.
func (cp ConstantPool) GetUtf8(index uint16) string {
	s, _ := cp.Utf8(index)
	return s
}

func (cp ConstantPool) Utf8(index uint16) (string, bool) {
	if e, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return e.Value, true
	}
	return "", false
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if e, ok := cp.indexEntry(index, ConstantClass); ok {
		return cp.GetUtf8(e.First)
	}
	return ""
}

func (cp ConstantPool) GetInteger(index uint16) (int32, bool) {
	if e, ok := cp.entry(index).(*ConstantIntegerInfo); ok {
		return e.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetLong(index uint16) (int64, bool) {
	if e, ok := cp.entry(index).(*ConstantLongInfo); ok {
		return e.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetFloat(index uint16) (float32, bool) {
	if e, ok := cp.entry(index).(*ConstantFloatInfo); ok {
		return e.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetDouble(index uint16) (float64, bool) {
	if e, ok := cp.entry(index).(*ConstantDoubleInfo); ok {
		return e.Value, true
	}
	return 0, false
}
