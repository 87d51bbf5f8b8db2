package xfactory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/classfile"
	"github.com/dhamidi/xfield/descriptor"
)

func TestFieldCreatesPlaceholder(t *testing.T) {
	f := New(WithLogger(commonlog.GetLogger("xfield.xfactory.test")))
	placeholder := f.Field("com.example.Missing", "count", "I", true)
	if placeholder.IsResolved() {
		t.Fatal("IsResolved() = true, want false")
	}
	if !placeholder.IsStatic() || placeholder.AccessFlags() != classfile.AccStatic {
		t.Errorf("AccessFlags() = %#x, want STATIC", placeholder.AccessFlags())
	}
	if again := f.Field("com/example/Missing", "count", "I", true); again != placeholder {
		t.Error("second Field() call returned a different instance")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestInternResolvesPlaceholder(t *testing.T) {
	f := New()
	placeholder := f.Field("A", "x", "I", false)

	resolved := analysis.NewBuilder("A", "x", "I", classfile.AccPrivate).Build()
	if got := f.Intern(resolved); got != resolved {
		t.Fatal("Intern() did not replace the placeholder")
	}
	if got := f.Field("A", "x", "I", false); got != resolved {
		t.Errorf("Field() = %v, want resolved field", got)
	}

	duplicate := analysis.NewBuilder("A", "x", "I", classfile.AccPublic).Build()
	if got := f.Intern(duplicate); got != resolved {
		t.Error("Intern() replaced an already resolved field")
	}
	if got := f.Intern(analysis.NewUnresolvedFieldInfo("A", "x", "I", false)); got != resolved {
		t.Error("Intern() replaced a resolved field with a placeholder")
	}
	if got, ok := f.Lookup(placeholder.FieldDescriptor()); !ok || got != resolved {
		t.Errorf("Lookup() = %v, %v", got, ok)
	}
	if _, ok := f.Lookup(descriptor.NewFieldDescriptor("A", "y", "I", false)); ok {
		t.Error("Lookup() found a field that was never interned")
	}
}

func TestFieldsCanonicalOrder(t *testing.T) {
	f := New()
	f.Field("B", "x", "I", false)
	f.Intern(analysis.NewBuilder("A", "y", "I", 0).Build())
	f.Intern(analysis.NewBuilder("A", "x", "I", 0).Build())
	f.Field("A", "x", "I", true)

	var got []string
	for _, field := range f.Fields() {
		got = append(got, field.FieldDescriptor().String())
	}
	want := []string{
		"A.x : I",
		"static A.x : I",
		"A.y : I",
		"B.x : I",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceholdersUseFactoryOrdering(t *testing.T) {
	f := New()
	placeholder := f.Field("A", "x", "I", false)
	other := xfield{analysis.NewBuilder("A", "x", "I", 0).Build()}
	got, err := placeholder.Compare(other)
	if err != nil {
		t.Fatal(err)
	}
	if want := f.Compare(placeholder, other); got != want {
		t.Errorf("Compare() = %d, want %d", got, want)
	}
	if got <= 0 {
		t.Errorf("unresolved placeholder should sort after resolved field, got %d", got)
	}
}

// xfield hides *FieldInfo behind the XField interface.
type xfield struct{ analysis.XField }

func TestConcurrentField(t *testing.T) {
	f := New()
	var wg sync.WaitGroup
	results := make([]*analysis.FieldInfo, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.Field("A", "shared", "J", false)
			f.Field("A", fmt.Sprintf("f%d", i), "I", false)
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Errorf("results[%d] is a different instance", i)
		}
	}
	if f.Len() != 17 {
		t.Errorf("Len() = %d, want 17", f.Len())
	}
}
