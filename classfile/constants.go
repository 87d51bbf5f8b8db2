package classfile

import "strings"

const (
	Magic = 0xCAFEBABE
)

// AccessFlags is the access_flags bit-set of a class, field or method.
// Several bits are shared between member kinds: SYNCHRONIZED/SUPER,
// VOLATILE/BRIDGE and TRANSIENT/VARARGS.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }

func (f AccessFlags) IsPublic() bool       { return f.Has(AccPublic) }
func (f AccessFlags) IsPrivate() bool      { return f.Has(AccPrivate) }
func (f AccessFlags) IsProtected() bool    { return f.Has(AccProtected) }
func (f AccessFlags) IsStatic() bool       { return f.Has(AccStatic) }
func (f AccessFlags) IsFinal() bool        { return f.Has(AccFinal) }
func (f AccessFlags) IsSynchronized() bool { return f.Has(AccSynchronized) }
func (f AccessFlags) IsVolatile() bool     { return f.Has(AccVolatile) }
func (f AccessFlags) IsTransient() bool    { return f.Has(AccTransient) }
func (f AccessFlags) IsNative() bool       { return f.Has(AccNative) }
func (f AccessFlags) IsSynthetic() bool    { return f.Has(AccSynthetic) }
func (f AccessFlags) IsEnum() bool         { return f.Has(AccEnum) }

var fieldModifierNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccVolatile, "volatile"},
	{AccTransient, "transient"},
	{AccSynthetic, "synthetic"},
	{AccEnum, "enum"},
}

// FieldModifiers names the field-level bits that are set, in source order.
func (f AccessFlags) FieldModifiers() []string {
	var mods []string
	for _, m := range fieldModifierNames {
		if f.Has(m.flag) {
			mods = append(mods, m.name)
		}
	}
	return mods
}

// String renders the field modifiers separated by spaces.
func (f AccessFlags) String() string {
	return strings.Join(f.FieldModifiers(), " ")
}

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantDynamic            ConstantTag = 17
	ConstantInvokeDynamic      ConstantTag = 18
	ConstantModule             ConstantTag = 19
	ConstantPackage            ConstantTag = 20
)

// Attribute names decoded by this package.
const (
	AttrSignature                   = "Signature"
	AttrSynthetic                   = "Synthetic"
	AttrRuntimeVisibleAnnotations   = "RuntimeVisibleAnnotations"
	AttrRuntimeInvisibleAnnotations = "RuntimeInvisibleAnnotations"
)
