package gateway

// Args holds tool arguments as decoded from the protocol layer. JSON numbers
// arrive as float64 and arrays as []any; the accessors normalize both.
type Args map[string]any

// String returns the named string argument, or fallback when absent or
// empty.
func (a Args) String(name, fallback string) string {
	if v, ok := a[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// RequiredString returns the named string argument or an invalid-arguments
// error. Schema validation normally guarantees presence; this guards the
// semantic gap of an empty value.
func (a Args) RequiredString(name string) (string, error) {
	v, ok := a[name].(string)
	if !ok || v == "" {
		return "", InvalidArgument("missing required argument %q", name)
	}
	return v, nil
}

// Int returns the named numeric argument, or fallback when absent.
func (a Args) Int(name string, fallback int) int {
	switch v := a[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// Bool returns the named boolean argument, or fallback when absent.
func (a Args) Bool(name string, fallback bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return fallback
}

// StringSlice returns the named array argument with its elements coerced to
// strings. Non-string elements are skipped.
func (a Args) StringSlice(name string) []string {
	raw, ok := a[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Rows returns the named argument as a 2D value grid, the shape spreadsheet
// tools use. Each row keeps its cell values untyped.
func (a Args) Rows(name string) [][]any {
	raw, ok := a[name].([]any)
	if !ok {
		return nil
	}
	out := make([][]any, 0, len(raw))
	for _, row := range raw {
		if cells, ok := row.([]any); ok {
			out = append(out, cells)
		}
	}
	return out
}
