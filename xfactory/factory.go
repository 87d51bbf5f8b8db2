// Package xfactory interns field descriptors for one analysis run and owns
// their canonical ordering.
package xfactory

import (
	"slices"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/xfield/analysis"
	"github.com/dhamidi/xfield/descriptor"
)

// Factory is safe for concurrent use.
type Factory struct {
	mu     sync.RWMutex
	fields map[descriptor.FieldDescriptor]*analysis.FieldInfo
	log    commonlog.Logger
}

type Option func(*Factory)

func WithLogger(log commonlog.Logger) Option {
	return func(f *Factory) {
		f.log = log
	}
}

func New(opts ...Option) *Factory {
	f := &Factory{
		fields: map[descriptor.FieldDescriptor]*analysis.FieldInfo{},
		log:    commonlog.GetLogger("xfield.xfactory"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Compare is the canonical ordering of all fields known to the factory.
func (f *Factory) Compare(a, b analysis.XField) int {
	return analysis.CanonicalOrdering.Compare(a, b)
}

var _ analysis.Ordering = (*Factory)(nil)

// Intern records field and returns the canonical instance for its
// identity. A resolved field replaces an unresolved placeholder; otherwise
// the first instance wins.
func (f *Factory) Intern(field *analysis.FieldInfo) *analysis.FieldInfo {
	id := field.FieldDescriptor()

	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.fields[id]
	switch {
	case !ok:
		f.fields[id] = field
		return field
	case !existing.IsResolved() && field.IsResolved():
		f.log.Debugf("resolved placeholder %s", id)
		f.fields[id] = field
		return field
	default:
		return existing
	}
}

// Field returns the interned field with the given identity, creating an
// unresolved placeholder when the declaring class was never loaded.
func (f *Factory) Field(className, name, signature string, isStatic bool) *analysis.FieldInfo {
	id := descriptor.NewFieldDescriptor(className, name, signature, isStatic)

	f.mu.RLock()
	field, ok := f.fields[id]
	f.mu.RUnlock()
	if ok {
		return field
	}

	f.log.Debugf("creating unresolved field %s", id)
	return f.Intern(analysis.NewUnresolvedFieldInfo(className, name, signature, isStatic, analysis.WithOrdering(f)))
}

// Lookup returns the interned field without creating a placeholder.
func (f *Factory) Lookup(id descriptor.FieldDescriptor) (*analysis.FieldInfo, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	field, ok := f.fields[id]
	return field, ok
}

// Fields returns every interned field in canonical order.
func (f *Factory) Fields() []*analysis.FieldInfo {
	f.mu.RLock()
	out := make([]*analysis.FieldInfo, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, field)
	}
	f.mu.RUnlock()

	slices.SortFunc(out, func(a, b *analysis.FieldInfo) int {
		return f.Compare(a, b)
	})
	return out
}

func (f *Factory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.fields)
}
