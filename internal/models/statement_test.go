package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestExtractedFields_JSONOrderAndNulls(t *testing.T) {
	f := &ExtractedFields{
		CardHolderName: strPtr("JOHN SMITH"),
		CreditLimit:    strPtr("50000.00"),
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"card_holder_name":"JOHN SMITH"`)
	assert.Contains(t, out, `"statement_date":null`)

	prev := -1
	for _, name := range FieldNames {
		idx := strings.Index(out, `"`+name+`"`)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", name)
		assert.Greater(t, idx, prev, "key %s out of order", name)
		prev = idx
	}
}

func TestExtractedFields_GetSet(t *testing.T) {
	f := &ExtractedFields{}
	for _, name := range FieldNames {
		_, ok := f.Get(name)
		assert.False(t, ok, name)

		f.Set(name, strPtr("v-"+name))
		got, ok := f.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, "v-"+name, got)
	}
	assert.Equal(t, len(FieldNames), f.Found())

	_, ok := f.Get("unknown")
	assert.False(t, ok)
}

func TestFields_MatchesFieldNames(t *testing.T) {
	fields := (&ExtractedFields{}).Fields()
	require.Len(t, fields, len(FieldNames))
	for i, field := range fields {
		assert.Equal(t, FieldNames[i], field.Name)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  *string
		want   string
		wantOK bool
	}{
		{"plain", strPtr("1234.56"), "1234.56", true},
		{"padded", strPtr(" 100.00 "), "100", true},
		{"absent", nil, "0", false},
		{"not a number", strPtr("AB123"), "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCreditUsed(t *testing.T) {
	f := &ExtractedFields{
		CreditLimit:     strPtr("50000.00"),
		AvailableCredit: strPtr("48765.44"),
	}
	used, ok := f.CreditUsed()
	require.True(t, ok)
	assert.Equal(t, "1234.56", used.StringFixed(2))

	f.AvailableCredit = nil
	_, ok = f.CreditUsed()
	assert.False(t, ok)
}
