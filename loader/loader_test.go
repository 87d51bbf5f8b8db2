package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
	"github.com/dhamidi/xfield/internal/classtest"
)

var widget = classtest.Class{
	Name: "com/example/Widget$Part",
	Fields: []classtest.Field{
		{Flags: classfile.AccSynthetic, Name: "this$0", Descriptor: "Lcom/example/Widget;"},
		{
			Flags:      classfile.AccPrivate,
			Name:       "names",
			Descriptor: "Ljava/util/List;",
			Signature:  "Ljava/util/List<Ljava/lang/String;>;",
			Annotations: []classtest.Annotation{
				{Type: "Ljavax/annotation/Nonnull;", Invisible: true, Elements: []classtest.Element{
					{Name: "when", Value: classtest.Enum{Type: "Ljavax/annotation/meta/When;", Name: "ALWAYS"}},
				}},
				{Type: "Lcom/example/Meta;", Elements: []classtest.Element{
					{Name: "count", Value: int32(3)},
					{Name: "big", Value: int64(7)},
					{Name: "ratio", Value: 0.5},
					{Name: "enabled", Value: true},
					{Name: "label", Value: "x"},
					{Name: "type", Value: classtest.ClassRef("Ljava/lang/String;")},
					{Name: "prim", Value: classtest.ClassRef("I")},
					{Name: "tags", Value: []any{"a", "b"}},
					{Name: "nested", Value: classtest.Annotation{Type: "Ljava/lang/Deprecated;"}},
				}},
			},
		},
		{Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Name: "MAX", Descriptor: "I", Constant: int32(10)},
	},
}

func TestFromReader(t *testing.T) {
	fields, err := FromReader(bytes.NewReader(widget.Bytes()))
	if err != nil {
		t.Fatalf("FromReader() error = %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("len(fields) = %d, want 3", len(fields))
	}

	t.Run("outer instance", func(t *testing.T) {
		outer := fields[0]
		if outer.ClassName() != "com.example.Widget$Part" || outer.Name() != "this$0" {
			t.Errorf("got %v", outer)
		}
		if !outer.IsFinal() || !outer.IsSynthetic() || !outer.IsResolved() {
			t.Errorf("this$0 flags = %#x, resolved = %v", outer.AccessFlags(), outer.IsResolved())
		}
		if !outer.IsReferenceType() {
			t.Error("IsReferenceType() = false")
		}
	})

	t.Run("source signature", func(t *testing.T) {
		if got, want := fields[1].SourceSignature(), "Ljava/util/List<Ljava/lang/String;>;"; got != want {
			t.Errorf("SourceSignature() = %q, want %q", got, want)
		}
		if got := fields[2].SourceSignature(); got != "" {
			t.Errorf("SourceSignature() = %q, want empty", got)
		}
	})

	t.Run("annotations", func(t *testing.T) {
		names := fields[1]
		nonnull := names.Annotation(descriptor.NewClassDescriptor("javax/annotation/Nonnull"))
		if nonnull == nil {
			t.Fatal("missing @Nonnull")
		}
		when, _ := nonnull.Value("when")
		wantWhen := analysis.EnumValue{Type: descriptor.NewClassDescriptor("javax/annotation/meta/When"), Name: "ALWAYS"}
		if when != wantWhen {
			t.Errorf("when = %v, want %v", when, wantWhen)
		}

		meta := names.Annotation(descriptor.NewClassDescriptor("com/example/Meta"))
		if meta == nil {
			t.Fatal("missing @Meta")
		}
		want := map[string]any{
			"count":   int32(3),
			"big":     int64(7),
			"ratio":   0.5,
			"enabled": true,
			"label":   "x",
			"type":    descriptor.NewClassDescriptor("java/lang/String"),
			"prim":    "I",
			"tags":    []any{"a", "b"},
		}
		for name, w := range want {
			got, ok := meta.Value(name)
			if !ok {
				t.Errorf("Value(%q) missing", name)
				continue
			}
			if diff := cmp.Diff(w, got, cmp.Comparer(func(a, b descriptor.ClassDescriptor) bool { return a == b })); diff != "" {
				t.Errorf("Value(%q) mismatch (-want +got):\n%s", name, diff)
			}
		}
		nested, _ := meta.Value("nested")
		if av, ok := nested.(*analysis.AnnotationValue); !ok || av.AnnotationClass().DottedClassName() != "java.lang.Deprecated" {
			t.Errorf("nested = %v, want @java.lang.Deprecated", nested)
		}
	})

	t.Run("constant field", func(t *testing.T) {
		maxField := fields[2]
		if !maxField.IsStatic() || !maxField.IsPublic() || !maxField.IsFinal() {
			t.Errorf("MAX flags = %v", maxField.AccessFlags())
		}
		if len(maxField.Annotations()) != 0 {
			t.Errorf("Annotations() = %v, want none", maxField.Annotations())
		}
	})
}

func TestFromReaderSyntheticAttribute(t *testing.T) {
	data := classtest.Class{
		Name:   "Legacy",
		Fields: []classtest.Field{{Name: "val$x", Descriptor: "I", Synthetic: true}},
	}.Bytes()
	fields, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("FromReader() error = %v", err)
	}
	if !fields[0].IsSynthetic() {
		t.Errorf("IsSynthetic() = false for a field with a Synthetic attribute, flags = %v", fields[0].AccessFlags())
	}
}

// annotatedClass has one field whose only attribute is a visible annotation
// with a single int element, so the element's tag and constant index are
// the last bytes before the trailing methods and attributes counts.
func annotatedClass() []byte {
	return classtest.Class{
		Name: "com/example/Annotated",
		Fields: []classtest.Field{{
			Name:       "count",
			Descriptor: "I",
			Annotations: []classtest.Annotation{{
				Type:     "Lcom/example/Meta;",
				Elements: []classtest.Element{{Name: "value", Value: int32(3)}},
			}},
		}},
	}.Bytes()
}

func TestFromReaderRejectsCorruptAnnotations(t *testing.T) {
	t.Run("unknown element tag", func(t *testing.T) {
		data := annotatedClass()
		data[len(data)-7] = 'X'
		fields, err := FromReader(bytes.NewReader(data))
		if err == nil {
			t.Fatalf("FromReader() = %v, want error", fields)
		}
	})

	t.Run("missing constant", func(t *testing.T) {
		data := annotatedClass()
		binary.BigEndian.PutUint16(data[len(data)-6:], 0xFFFF)
		fields, err := FromReader(bytes.NewReader(data))
		if err == nil {
			t.Fatalf("FromReader() = %v, want error", fields)
		}
		if !strings.Contains(err.Error(), "com/example/Meta") {
			t.Errorf("FromReader() error = %q, want it to name the annotation", err)
		}
	})

	t.Run("constant of the wrong kind", func(t *testing.T) {
		data := annotatedClass()
		// index 1 is the class name Utf8 entry, not an Integer
		binary.BigEndian.PutUint16(data[len(data)-6:], 1)
		if _, err := FromReader(bytes.NewReader(data)); err == nil {
			t.Error("FromReader() error = nil, want error")
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	classDir := filepath.Join(dir, "classes", "com", "example")
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		t.Fatal(err)
	}
	single := classtest.Class{Name: "com/example/Single", Fields: []classtest.Field{{Name: "a", Descriptor: "I"}}}
	writeFile(t, filepath.Join(classDir, "Single.class"), single.Bytes())
	writeFile(t, filepath.Join(classDir, "README.txt"), []byte("ignored"))

	jarPath := filepath.Join(dir, "lib.jar")
	writeJar(t, jarPath, map[string][]byte{
		"com/example/Widget$Part.class": widget.Bytes(),
		"META-INF/MANIFEST.MF":          []byte("Manifest-Version: 1.0\n"),
	})

	loosePath := filepath.Join(dir, "Loose.class")
	writeFile(t, loosePath, classtest.Class{Name: "Loose", Fields: []classtest.Field{{Name: "z", Descriptor: "Z"}}}.Bytes())

	fields, err := Load(context.Background(), []string{filepath.Join(dir, "classes"), jarPath, loosePath})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var got []string
	for _, f := range fields {
		got = append(got, f.ClassName()+"."+f.Name())
	}
	want := []string{
		"com.example.Single.a",
		"com.example.Widget$Part.this$0",
		"com.example.Widget$Part.names",
		"com.example.Widget$Part.MAX",
		"Loose.z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "Bad.class")
	writeFile(t, bad, []byte("not a class"))
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, []byte("x"))

	for _, path := range []string{bad, txt, filepath.Join(dir, "missing.class")} {
		if _, err := Load(context.Background(), []string{path}); err == nil {
			t.Errorf("Load(%s) error = nil, want error", filepath.Base(path))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, []string{dir}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with cancelled context error = %v, want context.Canceled", err)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}
