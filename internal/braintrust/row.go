package braintrust

// Row is one result row from a BTQL query, keyed by the SELECT column names.
// Accessors apply defaults so absent or mistyped columns never panic.
type Row map[string]any

// Str returns the column as a string, or "" when absent or not a string.
func (r Row) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the column as an int. BTQL numbers arrive as JSON float64;
// integer-typed values are accepted too. Absent or non-numeric columns
// yield 0.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// Map returns the column as a nested object, or an empty map when absent.
func (r Row) Map(key string) map[string]any {
	if v, ok := r[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// List returns the column as a slice, or nil when absent.
func (r Row) List(key string) []any {
	if v, ok := r[key].([]any); ok {
		return v
	}
	return nil
}
