package models

import "sort"

// FormState holds the raw value of every editable field of one entity.
// It is treated as immutable: Set and Merge return a new FormState.
type FormState map[string]string

// Get returns the current value of field, or "" when it was never set.
func (f FormState) Get(field string) string {
	return f[field]
}

// Set returns a copy of f where only field has been replaced.
func (f FormState) Set(field, value string) FormState {
	out := f.clone(1)
	out[field] = value
	return out
}

// Merge returns a copy of f with every entry of values applied on top.
func (f FormState) Merge(values map[string]string) FormState {
	out := f.clone(len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Fields returns the field names in a stable order.
func (f FormState) Fields() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (f FormState) clone(extra int) FormState {
	out := make(FormState, len(f)+extra)
	for k, v := range f {
		out[k] = v
	}
	return out
}
