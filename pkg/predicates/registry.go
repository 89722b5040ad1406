package predicates

import "fmt"

// Func is a predicate function. Arguments arrive already evaluated (literals
// and resolved path references); the function must be total and never panic.
type Func func(args []any) bool

// Spec describes a registered predicate: its implementation and the argument
// count bounds enforced by the DSL compiler.
type Spec struct {
	// Fn is the predicate implementation.
	Fn Func

	// MinArgs is the minimum number of arguments.
	MinArgs int

	// MaxArgs is the maximum number of arguments.
	MaxArgs int
}

// Registry maps predicate names to their specs. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	specs    map[string]Spec
	taxonomy Taxonomy
}

// Option configures a Registry.
type Option func(*Registry)

// WithTaxonomy overrides the default tag category taxonomy.
func WithTaxonomy(t Taxonomy) Option {
	return func(r *Registry) {
		r.taxonomy = t
	}
}

// NewRegistry creates a registry containing the standard predicate library.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		taxonomy: DefaultTaxonomy(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.specs = map[string]Spec{
		"contains":      {Fn: predContains, MinArgs: 2, MaxArgs: 2},
		"equals":        {Fn: predEquals, MinArgs: 2, MaxArgs: 2},
		"greater_than":  {Fn: predGreaterThan, MinArgs: 2, MaxArgs: 2},
		"less_than":     {Fn: predLessThan, MinArgs: 2, MaxArgs: 2},
		"matches":       {Fn: predMatches, MinArgs: 2, MaxArgs: 2},
		"is_empty":      {Fn: predIsEmpty, MinArgs: 1, MaxArgs: 1},
		"is_present":    {Fn: predIsPresent, MinArgs: 1, MaxArgs: 1},
		"lacks_consent": {Fn: predLacksConsent, MinArgs: 1, MaxArgs: 1},

		"domain_is":    {Fn: predDomainIs, MinArgs: 2, MaxArgs: 2},
		"domain_etld1": {Fn: predDomainETLD1, MinArgs: 2, MaxArgs: 2},

		"param_bytes_lte":   {Fn: predParamBytesLTE, MinArgs: 2, MaxArgs: 2},
		"param_seconds_lte": {Fn: predParamSecondsLTE, MinArgs: 2, MaxArgs: 2},

		"has_tag":        {Fn: r.predHasTag, MinArgs: 2, MaxArgs: 2},
		"has_category":   {Fn: r.predHasCategory, MinArgs: 2, MaxArgs: 2},
		"tag_confidence": {Fn: r.predTagConfidence, MinArgs: 3, MaxArgs: 3},
		"high_risk_tag_combination": {
			Fn: r.predHighRiskTagCombination, MinArgs: 1, MaxArgs: 1,
		},
	}

	return r
}

// Lookup returns the spec for the named predicate.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Validate checks that the named predicate exists and accepts the given
// argument count. It returns an error suitable for wrapping into a DSL
// compile error.
func (r *Registry) Validate(name string, argCount int) error {
	spec, ok := r.specs[name]
	if !ok {
		return fmt.Errorf("unknown predicate: %q", name)
	}
	if argCount < spec.MinArgs || argCount > spec.MaxArgs {
		if spec.MinArgs == spec.MaxArgs {
			return fmt.Errorf("predicate %q expects %d argument(s), got %d", name, spec.MinArgs, argCount)
		}
		return fmt.Errorf("predicate %q expects between %d and %d arguments, got %d", name, spec.MinArgs, spec.MaxArgs, argCount)
	}
	return nil
}

// Names returns the registered predicate names (unsorted, for introspection).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}
