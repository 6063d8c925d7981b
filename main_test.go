package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/cc-statement-parser/internal/parser"
)

const statementText = "TRANSACTIONS FOR JOHN SMITH\n" +
	"XXXX XXXX XXXX XX12\n" +
	"Credit Limit ( ` ) 50,000.00\n" +
	"Available Credit Limit ( ` ) 48,765.44\n"

func TestWriteFields_ToFile(t *testing.T) {
	fields := parser.Extract(statementText)

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"card_holder_name": "JOHN SMITH"`},
		{"csv", "credit_limit,50000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fields."+tt.format)
			require.NoError(t, writeFields(fields, options{format: tt.format, output: path}))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestWriteFields_BadOutputPath(t *testing.T) {
	fields := parser.Extract(statementText)
	path := filepath.Join(t.TempDir(), "missing", "fields.csv")

	err := writeFields(fields, options{format: "csv", output: path})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "CSV write failed"), err.Error())
}

func TestPrintSummary(t *testing.T) {
	var b strings.Builder
	printSummary(&b, parser.Extract(statementText))

	out := b.String()
	assert.Contains(t, out, "Card holder: JOHN SMITH")
	assert.Contains(t, out, "Credit used: 1234.56")
	assert.NotContains(t, out, "Payment due")
}
