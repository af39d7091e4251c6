package store

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Record is one data row keyed by the header row. Missing cells read as "".
type Record map[string]string

// Get returns the first non-empty value among the named columns. Field
// aliases (current name, legacy name, older legacy name) are resolved here
// so callers declare the chain as data instead of chained fallbacks.
func (r Record) Get(names ...string) string {
	for _, name := range names {
		if v := r[name]; v != "" {
			return v
		}
	}
	return ""
}

// Order parses the named column as an integer sort key. Non-numeric or empty
// values sort as 0.
func (r Record) Order(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r[name]))
	if err != nil {
		return 0
	}
	return n
}

// RowsToRecords converts raw rows to records using row 0 as the header.
// A header-only or empty table yields no records.
func RowsToRecords(rows [][]string) []Record {
	if len(rows) < 2 {
		return []Record{}
	}

	headers := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rec[header] = row[i]
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

var (
	driveFilePattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveIDPattern   = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// ConvertDriveURL rewrites a Google Drive share link into a directly
// renderable thumbnail URL. Non-Drive URLs pass through untouched.
func ConvertDriveURL(url string) string {
	if url == "" || !strings.Contains(url, "drive.google.com") {
		return url
	}

	var fileID string
	if m := driveFilePattern.FindStringSubmatch(url); m != nil {
		fileID = m[1]
	} else if m := driveIDPattern.FindStringSubmatch(url); m != nil {
		fileID = m[1]
	}

	if fileID == "" {
		return url
	}
	return "https://drive.google.com/thumbnail?id=" + fileID + "&sz=w1600"
}

// AllSettings reads the Settings table into a Key -> Value map.
func AllSettings(ctx context.Context, t Tables) (map[string]string, error) {
	rows, err := t.ReadTable(ctx, "Settings")
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string)
	for _, rec := range RowsToRecords(rows) {
		if key := rec["Key"]; key != "" {
			settings[key] = rec["Value"]
		}
	}
	return settings, nil
}

// Setting reads a single value from the Settings table; "" when absent.
func Setting(ctx context.Context, t Tables, key string) (string, error) {
	settings, err := AllSettings(ctx, t)
	if err != nil {
		return "", err
	}
	return settings[key], nil
}
