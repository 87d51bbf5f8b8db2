package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/internal/classtest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeClass(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Widget.class")
	data := classtest.Class{
		Name: "com/example/Widget",
		Fields: []classtest.Field{
			{Flags: classfile.AccPrivate, Name: "name", Descriptor: "Ljava/lang/String;"},
			{Flags: classfile.AccPublic | classfile.AccStatic, Name: "COUNT", Descriptor: "I"},
		},
	}.Bytes()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFieldsCommand(t *testing.T) {
	out, err := run(t, "fields", writeClass(t))
	if err != nil {
		t.Fatalf("fields error = %v\n%s", err, out)
	}
	want := "field\tcom.example.Widget\tCOUNT\tint\tpublic,static\tresolved\n" +
		"field\tcom.example.Widget\tname\tjava.lang.String\tprivate\tresolved\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestFieldsCommandUnknownFormat(t *testing.T) {
	if _, err := run(t, "fields", "--format", "xml", writeClass(t)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLookupCommand(t *testing.T) {
	path := writeClass(t)

	out, err := run(t, "lookup", "--classpath", path, "com.example.Widget", "name", "Ljava/lang/String;")
	if err != nil {
		t.Fatalf("lookup error = %v\n%s", err, out)
	}
	if !strings.HasSuffix(out, "\tprivate\tresolved\n") {
		t.Errorf("output = %q, want resolved private field", out)
	}

	out, err = run(t, "lookup", "--static", "--classpath", path, "com.example.Base", "LIMIT", "J")
	if err != nil {
		t.Fatalf("lookup error = %v\n%s", err, out)
	}
	if want := "field\tcom.example.Base\tLIMIT\tlong\tstatic\tunresolved\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
