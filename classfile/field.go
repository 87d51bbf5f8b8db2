package classfile

// MemberInfo is a field_info or method_info entry; the two share a layout.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (m *MemberInfo) GetAttribute(cp ConstantPool, name string) *AttributeInfo {
	for i := range m.Attributes {
		if cp.GetUtf8(m.Attributes[i].NameIndex) == name {
			return &m.Attributes[i]
		}
	}
	return nil
}

// Signature returns the generic signature recorded in the Signature
// attribute, or "" when the member has none.
func (m *MemberInfo) Signature(cp ConstantPool) string {
	if attr := m.GetAttribute(cp, AttrSignature); attr != nil {
		if sig := attr.AsSignature(); sig != nil {
			return cp.GetUtf8(sig.SignatureIndex)
		}
	}
	return ""
}

// Annotations returns the runtime-visible annotations followed by the
// runtime-invisible ones.
func (m *MemberInfo) Annotations(cp ConstantPool) []Annotation {
	var anns []Annotation
	for _, name := range []string{AttrRuntimeVisibleAnnotations, AttrRuntimeInvisibleAnnotations} {
		if attr := m.GetAttribute(cp, name); attr != nil {
			if parsed := attr.AsAnnotations(); parsed != nil {
				anns = append(anns, parsed.Annotations...)
			}
		}
	}
	return anns
}

// IsSynthetic reports the ACC_SYNTHETIC bit or a Synthetic attribute, which
// older compilers emit instead of the flag.
func (m *MemberInfo) IsSynthetic(cp ConstantPool) bool {
	return m.AccessFlags.IsSynthetic() || m.GetAttribute(cp, AttrSynthetic) != nil
}
