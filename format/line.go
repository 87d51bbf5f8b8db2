package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/classfile"
)

// LineEncoder writes one tab-separated line per field:
//
//	field <class> <name> <type> <modifiers> <resolved|unresolved>
//
// followed by one "annotation" line per annotation on that field.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(fields []*analysis.FieldInfo) error {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\t%s\n",
			f.ClassName(),
			f.Name(),
			typeName(f),
			modifiersStr(f),
			resolvedStr(f),
		)
		for _, ann := range f.Annotations() {
			fmt.Fprintf(&sb, "annotation\t%s\t%s\t%s\n", f.ClassName(), f.Name(), ann)
		}
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// typeName renders the generic signature when present, else the source
// form of the raw descriptor.
func typeName(f *analysis.FieldInfo) string {
	if sig := f.SourceSignature(); sig != "" {
		return sig
	}
	if ft := classfile.ParseFieldDescriptor(f.Signature()); ft != nil {
		return ft.String()
	}
	return f.Signature()
}

func modifiersStr(f *analysis.FieldInfo) string {
	mods := f.AccessFlags().FieldModifiers()
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func resolvedStr(f *analysis.FieldInfo) string {
	if f.IsResolved() {
		return "resolved"
	}
	return "unresolved"
}
