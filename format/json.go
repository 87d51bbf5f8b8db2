package format

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dhamidi/xfield/analysis"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(fields []*analysis.FieldInfo) error {
	return json.MarshalWrite(e.w, newFieldRecords(fields), jsontext.WithIndent("  "))
}
