package schema

import "fmt"

// Kind classifies a column as categorical (string identifiers/labels) or
// numeric (spend and engagement metrics).
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

// Field describes one column of the advertising dataset.
type Field struct {
	Name string
	Kind Kind
}

// The dataset schema is fixed: 4 categorical identifier columns and
// 8 numeric metric columns. Inputs may carry extra columns; those are
// ignored, but every field listed here must be present.
var fields = []Field{
	{Name: "page_id", Kind: Categorical},
	{Name: "ad_id", Kind: Categorical},
	{Name: "candidate_name", Kind: Categorical},
	{Name: "currency", Kind: Categorical},
	{Name: "estimated_spend", Kind: Numeric},
	{Name: "estimated_impressions", Kind: Numeric},
	{Name: "estimated_audience_size", Kind: Numeric},
	{Name: "clicks", Kind: Numeric},
	{Name: "engagements", Kind: Numeric},
	{Name: "reach", Kind: Numeric},
	{Name: "cpc", Kind: Numeric},
	{Name: "cpm", Kind: Numeric},
}

var byName = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}()

// Fields returns all schema fields in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// CategoricalFields returns the names of all categorical columns.
func CategoricalFields() []string {
	var names []string
	for _, f := range fields {
		if f.Kind == Categorical {
			names = append(names, f.Name)
		}
	}
	return names
}

// NumericFields returns the names of all numeric columns.
func NumericFields() []string {
	var names []string
	for _, f := range fields {
		if f.Kind == Numeric {
			names = append(names, f.Name)
		}
	}
	return names
}

// Lookup returns the field descriptor for name.
func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

// SchemaError reports a request that does not match the dataset schema.
// It is fatal: callers must not write partial output after seeing one.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
}

// ValidateGroupBy checks that groupBy names at most two distinct
// categorical schema fields.
func ValidateGroupBy(groupBy []string) error {
	if len(groupBy) > 2 {
		return &SchemaError{
			Field:  groupBy[2],
			Reason: "at most two grouping fields are supported",
		}
	}
	seen := make(map[string]bool, len(groupBy))
	for _, name := range groupBy {
		f, ok := Lookup(name)
		if !ok {
			return &SchemaError{Field: name, Reason: "unknown grouping field"}
		}
		if f.Kind != Categorical {
			return &SchemaError{Field: name, Reason: "grouping field is not categorical"}
		}
		if seen[name] {
			return &SchemaError{Field: name, Reason: "duplicate grouping field"}
		}
		seen[name] = true
	}
	return nil
}

// ValidateHeader checks that every schema field appears in the input
// header. Extra columns are allowed.
func ValidateHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	for _, f := range fields {
		if !present[f.Name] {
			return &SchemaError{Field: f.Name, Reason: "column missing from input header"}
		}
	}
	return nil
}
