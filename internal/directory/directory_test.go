package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phones.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	path := writeFile(t, "Bob Smith\tR&D\t1234\n"+
		"broken line\n"+
		"Alice Jones\tSales\t5678\r\n"+
		"too\tmany\tcolumns\there\n"+
		"\n")

	d, err := Load(path, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 3, logs.FilterMessage("Skipping invalid directory line").Len())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tsv"), zap.NewNop())
	assert.Error(t, err)

	_, err = Load(writeFile(t, "no tabs here\n"), zap.NewNop())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLookup(t *testing.T) {
	d, err := Load(writeFile(t, "Bob Smith\tx\t1234\nAlice Bobson\tx\t5678\nCarol\tx\t9999\n"), zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		expected []Entry
	}{
		{
			name:  "case insensitive substring sorted by name",
			query: "BOB",
			expected: []Entry{
				{Name: "Alice Bobson", Number: "5678"},
				{Name: "Bob Smith", Number: "1234"},
			},
		},
		{name: "exact", query: "carol", expected: []Entry{{Name: "Carol", Number: "9999"}}},
		{name: "none", query: "dave", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.Lookup(tt.query))
		})
	}
}
