// Package format renders field descriptors for the command line.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/xfield/analysis"
)

type Encoder interface {
	Encode(fields []*analysis.FieldInfo) error
}

// Names lists the formats accepted by NewEncoder.
var Names = []string{"line", "json", "yaml"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected line, json or yaml)", name)
	}
}

type fieldRecord struct {
	Class           string             `json:"class" yaml:"class"`
	Name            string             `json:"name" yaml:"name"`
	Signature       string             `json:"signature" yaml:"signature"`
	SourceSignature string             `json:"sourceSignature,omitempty" yaml:"sourceSignature,omitempty"`
	Type            string             `json:"type,omitempty" yaml:"type,omitempty"`
	Modifiers       []string           `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Resolved        bool               `json:"resolved" yaml:"resolved"`
	Annotations     []annotationRecord `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type annotationRecord struct {
	Type   string            `json:"type" yaml:"type"`
	Values map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
}

func newFieldRecords(fields []*analysis.FieldInfo) []fieldRecord {
	records := make([]fieldRecord, len(fields))
	for i, f := range fields {
		records[i] = newFieldRecord(f)
	}
	return records
}

func newFieldRecord(f *analysis.FieldInfo) fieldRecord {
	r := fieldRecord{
		Class:           f.ClassName(),
		Name:            f.Name(),
		Signature:       f.Signature(),
		SourceSignature: f.SourceSignature(),
		Type:            typeName(f),
		Modifiers:       f.AccessFlags().FieldModifiers(),
		Resolved:        f.IsResolved(),
	}
	for _, ann := range f.Annotations() {
		ar := annotationRecord{Type: ann.AnnotationClass().DottedClassName()}
		for _, name := range ann.ElementNames() {
			if ar.Values == nil {
				ar.Values = map[string]string{}
			}
			v, _ := ann.Value(name)
			ar.Values[name] = fmt.Sprint(v)
		}
		r.Annotations = append(r.Annotations, ar)
	}
	return r
}
