package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"alzkb-graph/internal/registry"
	kberrors "alzkb-graph/pkg/errors"
)

// FlatFile reads delimited source tables from a data directory. The first
// record is the header; short records are padded with empty cells and long
// records are truncated to the header width, matching how the upstream
// dumps are actually shaped.
type FlatFile struct {
	Dir string
}

// NewFlatFile creates a provider rooted at a data directory
func NewFlatFile(dir string) *FlatFile {
	return &FlatFile{Dir: dir}
}

// Fetch reads the entry's file into a Dataset
func (p *FlatFile) Fetch(_ context.Context, entry *registry.Entry) (*Dataset, error) {
	path := filepath.Join(p.Dir, entry.Filename)
	f, err := os.Open(path)
	if err != nil {
		return nil, kberrors.NewProviderFailed(entry.Key(), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiterFor(entry.Format)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, kberrors.NewProviderFailed(entry.Key(), err)
	}
	if len(records) == 0 {
		return nil, kberrors.NewProviderFailed(entry.Key(), fmt.Errorf("%s: empty table", entry.Filename))
	}

	columns := records[0]
	ds := &Dataset{Columns: columns, Rows: make([]Row, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func delimiterFor(format string) rune {
	switch format {
	case "csv":
		return ','
	default:
		// TSV is the corpus norm; it is also the fallback for an
		// unspecified format.
		return '\t'
	}
}
