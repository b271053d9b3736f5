// Package provider supplies tabular datasets to the population engine.
// The engine never parses source-specific formats itself; whatever fetched
// or unpacked the raw source hands rows over through this boundary.
package provider

import (
	"context"

	"alzkb-graph/internal/registry"
)

// Row is one record of a tabular dataset, keyed by column name. Absent and
// empty cells are equivalent.
type Row = map[string]string

// Dataset is a fully materialized source table
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Provider fetches the dataset behind one registry entry
type Provider interface {
	Fetch(ctx context.Context, entry *registry.Entry) (*Dataset, error)
}

// Memory is a fixed in-memory provider, used in tests and anywhere a
// dataset is assembled programmatically. Keys are "{source}.{dataset}".
type Memory struct {
	Datasets map[string]*Dataset
	Errs     map[string]error
}

// Fetch returns the canned dataset for the entry's key
func (m *Memory) Fetch(_ context.Context, entry *registry.Entry) (*Dataset, error) {
	if err, ok := m.Errs[entry.Key()]; ok {
		return nil, err
	}
	if ds, ok := m.Datasets[entry.Key()]; ok {
		return ds, nil
	}
	return &Dataset{}, nil
}
