package classfile

import "strings"

// Signature markers of the JVM type encoding.
const (
	ObjectMarker = 'L'
	ArrayMarker  = '['
)

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

// ParseFieldDescriptor returns nil when desc is not a single well-formed
// field type.
func ParseFieldDescriptor(desc string) *FieldType {
	ft, n := parseFieldType(desc, 0)
	if ft == nil || n != len(desc) {
		return nil
	}
	return ft
}

func ParseMethodDescriptor(desc string) *MethodDescriptor {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}

	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n := parseFieldType(desc, i)
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
		i += n
	}
	if i >= len(desc) {
		return nil
	}
	i++

	if i < len(desc) && desc[i] != 'V' {
		md.ReturnType, _ = parseFieldType(desc, i)
	}
	return md
}

// NumParameters counts the parameters of a method signature. Field
// signatures have no parameter list and yield 0, as does anything that
// does not parse.
func NumParameters(sig string) int {
	md := ParseMethodDescriptor(sig)
	if md == nil {
		return 0
	}
	return len(md.Parameters)
}

// IsReferenceSignature reports whether sig encodes an object or array type.
func IsReferenceSignature(sig string) bool {
	return len(sig) > 0 && (sig[0] == ObjectMarker || sig[0] == ArrayMarker)
}

func parseFieldType(desc string, start int) (*FieldType, int) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == ArrayMarker {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0
	}

	if base, ok := baseTypes[desc[i]]; ok {
		ft.BaseType = base
		return ft, i - start + 1
	}
	if desc[i] != ObjectMarker {
		return nil, 0
	}
	end := strings.IndexByte(desc[i:], ';')
	if end <= 1 {
		return nil, 0
	}
	ft.ClassName = desc[i+1 : i+end]
	return ft, i - start + end + 1
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
