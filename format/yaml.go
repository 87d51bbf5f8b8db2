package format

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/dhamidi/xfield/analysis"
)

type YAMLEncoder struct {
	w io.Writer
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(fields []*analysis.FieldInfo) error {
	data, err := yaml.Marshal(newFieldRecords(fields))
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
