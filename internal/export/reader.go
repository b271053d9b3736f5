package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// NodeRecord is one parsed row of an exported node table
type NodeRecord struct {
	Key        string
	Type       string
	Properties map[string][]string
}

// EdgeRecord is one parsed row of an exported edge table
type EdgeRecord struct {
	Subject    string
	Predicate  string
	Object     string
	Properties map[string][]string
}

// ReadNodeTable parses a nodes.csv written by Export, splitting
// multi-valued cells on the same delimiter they were joined with.
func ReadNodeTable(path, delimiter string) ([]NodeRecord, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(header) < 2 || header[0] != "key" || header[1] != "type" {
		return nil, fmt.Errorf("%s: not a node table", path)
	}

	out := make([]NodeRecord, 0, len(rows))
	for _, row := range rows {
		rec := NodeRecord{
			Key:        row[0],
			Type:       row[1],
			Properties: splitProperties(header[2:], row[2:], delimiter),
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadEdgeTable parses an edges.csv written by Export
func ReadEdgeTable(path, delimiter string) ([]EdgeRecord, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(header) < 3 || header[0] != "subject" || header[1] != "predicate" || header[2] != "object" {
		return nil, fmt.Errorf("%s: not an edge table", path)
	}

	out := make([]EdgeRecord, 0, len(rows))
	for _, row := range rows {
		rec := EdgeRecord{
			Subject:    row[0],
			Predicate:  row[1],
			Object:     row[2],
			Properties: splitProperties(header[3:], row[3:], delimiter),
		}
		out = append(out, rec)
	}
	return out, nil
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty table", path)
	}
	return records[0], records[1:], nil
}

func splitProperties(columns, cells []string, delimiter string) map[string][]string {
	props := make(map[string][]string)
	for i, column := range columns {
		if i >= len(cells) || cells[i] == "" {
			continue
		}
		props[column] = strings.Split(cells[i], delimiter)
	}
	return props
}
