package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCounts(t *testing.T) {
	assert.Len(t, CategoricalFields(), 4)
	assert.Len(t, NumericFields(), 8)
	assert.Len(t, Fields(), 12)
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("page_id")
	require.True(t, ok)
	assert.Equal(t, Categorical, f.Kind)

	f, ok = Lookup("estimated_spend")
	require.True(t, ok)
	assert.Equal(t, Numeric, f.Kind)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestValidateGroupBy(t *testing.T) {
	assert.NoError(t, ValidateGroupBy(nil))
	assert.NoError(t, ValidateGroupBy([]string{"page_id"}))
	assert.NoError(t, ValidateGroupBy([]string{"page_id", "ad_id"}))
}

func TestValidateGroupByRejections(t *testing.T) {
	cases := map[string][]string{
		"unknown field":   {"not_a_field"},
		"numeric field":   {"estimated_spend"},
		"duplicate field": {"page_id", "page_id"},
		"too many fields": {"page_id", "ad_id", "candidate_name"},
	}
	for name, groupBy := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateGroupBy(groupBy)
			require.Error(t, err)
			var se *SchemaError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestValidateHeader(t *testing.T) {
	var header []string
	for _, f := range Fields() {
		header = append(header, f.Name)
	}
	assert.NoError(t, ValidateHeader(header))

	// Extra columns are fine.
	assert.NoError(t, ValidateHeader(append(header, "extra_score")))

	// A missing schema column is not.
	err := ValidateHeader(header[1:])
	require.Error(t, err)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "page_id", se.Field)
}
