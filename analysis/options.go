package analysis

type options struct {
	ordering Ordering
}

// Option configures Builder and NewUnresolvedFieldInfo.
type Option func(*options)

// WithOrdering injects the canonical ordering used when a FieldInfo is
// compared with an XField that is not a FieldInfo. The default is
// CanonicalOrdering.
func WithOrdering(o Ordering) Option {
	return func(opts *options) {
		if o != nil {
			opts.ordering = o
		}
	}
}

func newOptions(opts []Option) options {
	o := options{ordering: CanonicalOrdering}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
