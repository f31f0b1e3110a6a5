package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestUnionOfColumns(t *testing.T) {
	table := New("isin", "name", "srri_rating")
	table.Append([]Field{{Name: "isin", Value: "LU1"}})
	table.Append([]Field{
		{Name: "isin", Value: "LU2"},
		{Name: "srri_rating", Value: "4"},
		{Name: "extra", Value: "x"},
		{Name: "name", Value: "Fund"},
	})

	require.Equal(t, []string{"isin", "name", "srri_rating", "extra"}, table.Columns())
	expected := [][]string{
		{"LU1", "", "", ""},
		{"LU2", "Fund", "4", "x"},
	}
	if diff := cmp.Diff(expected, table.Rows()); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteCSV(t *testing.T) {
	table := New("isin", "name")
	table.Append([]Field{{Name: "isin", Value: "LU1"}, {Name: "name", Value: "Fund, with comma"}})
	table.Append([]Field{{Name: "isin", Value: "LU2"}})

	var buf bytes.Buffer
	err := table.WriteCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "isin,name\nLU1,\"Fund, with comma\"\nLU2,\n", buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := New().WriteCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "\n", buf.String())
}

func TestRender(t *testing.T) {
	table := New("isin")
	table.Append([]Field{{Name: "isin", Value: "LU1670606760"}})

	var buf bytes.Buffer
	table.Render(&buf)
	require.True(t, strings.Contains(buf.String(), "LU1670606760"))
	require.True(t, strings.Contains(buf.String(), "ISIN"))
}
