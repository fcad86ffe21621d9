package dom

// Style is a plain property map, the shape positioning engines emit and
// hosts apply. Values are scalars or nested plain data.
type Style map[string]any

// Clone returns a top-level copy of the style. Nested values are shared.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merged returns a new style holding s's entries with over's entries laid
// on top. Neither input is modified.
func (s Style) Merged(over Style) Style {
	out := make(Style, len(s)+len(over))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
