package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsToRecords(t *testing.T) {
	rows := [][]string{
		{"Name", "Price_EUR", "Order"},
		{"Siena Suite", "120", "2"},
		{"Garden Room"}, // short row: missing cells default to ""
	}

	records := RowsToRecords(rows)
	require.Len(t, records, 2)
	assert.Equal(t, "Siena Suite", records[0]["Name"])
	assert.Equal(t, "120", records[0]["Price_EUR"])
	assert.Equal(t, "Garden Room", records[1]["Name"])
	assert.Equal(t, "", records[1]["Price_EUR"])
	assert.Equal(t, "", records[1]["Order"])
}

func TestRowsToRecordsEmptyTable(t *testing.T) {
	assert.Empty(t, RowsToRecords(nil))
	assert.Empty(t, RowsToRecords([][]string{{"Name", "Order"}}))
}

func TestRecordGetAliasChain(t *testing.T) {
	rec := Record{"firstName": "Anna", "First_Name": "Ann"}
	assert.Equal(t, "Anna", rec.Get("firstName", "First_Name"))

	rec = Record{"firstName": "", "First_Name": "Ann"}
	assert.Equal(t, "Ann", rec.Get("firstName", "First_Name"))

	assert.Equal(t, "", Record{}.Get("firstName", "First_Name"))
}

func TestRecordOrder(t *testing.T) {
	assert.Equal(t, 3, Record{"Order": "3"}.Order("Order"))
	assert.Equal(t, 2, Record{"Order": " 2 "}.Order("Order"))
	assert.Equal(t, 0, Record{"Order": "n/a"}.Order("Order"))
	assert.Equal(t, 0, Record{}.Order("Order"))
}

func TestConvertDriveURL(t *testing.T) {
	cases := map[string]string{
		"": "",
		"https://example.com/photo.jpg": "https://example.com/photo.jpg",
		"https://drive.google.com/file/d/abc_123-XY/view":  "https://drive.google.com/thumbnail?id=abc_123-XY&sz=w1600",
		"https://drive.google.com/open?id=abc_123-XY":      "https://drive.google.com/thumbnail?id=abc_123-XY&sz=w1600",
		"https://drive.google.com/uc?export=view&id=zz9":   "https://drive.google.com/thumbnail?id=zz9&sz=w1600",
		"https://drive.google.com/drive/folders/unmatched": "https://drive.google.com/drive/folders/unmatched",
	}

	for input, want := range cases {
		assert.Equal(t, want, ConvertDriveURL(input), "input %q", input)
	}
}
