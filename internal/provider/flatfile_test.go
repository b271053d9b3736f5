package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alzkb-graph/internal/registry"
	kberrors "alzkb-graph/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFlatFile_TSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "genes.tsv",
		"Symbol\tGeneID\tchromosome\n"+
			"BRCA1\t672\t17\n"+
			"APOE\t348\n") // short record pads with empty cells

	entry := &registry.Entry{Source: "ncbigene", Dataset: "genes", Provider: registry.ProviderFlat, Filename: "genes.tsv"}
	ds, err := NewFlatFile(dir).Fetch(context.Background(), entry)
	require.NoError(t, err)

	assert.Equal(t, []string{"Symbol", "GeneID", "chromosome"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "672", ds.Rows[0]["GeneID"])
	assert.Equal(t, "", ds.Rows[1]["chromosome"])
}

func TestFlatFile_CSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "drugs.csv", "drugbank_id,drug_name\nDB00843,Donepezil\n")

	entry := &registry.Entry{Source: "drugbank", Dataset: "drugs", Provider: registry.ProviderFlat, Filename: "drugs.csv", Format: "csv"}
	ds, err := NewFlatFile(dir).Fetch(context.Background(), entry)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "Donepezil", ds.Rows[0]["drug_name"])
}

func TestFlatFile_MissingFileIsSourceLevel(t *testing.T) {
	entry := &registry.Entry{Source: "x", Dataset: "y", Provider: registry.ProviderFlat, Filename: "absent.tsv"}
	_, err := NewFlatFile(t.TempDir()).Fetch(context.Background(), entry)
	require.Error(t, err)
	assert.True(t, kberrors.IsErrorType(err, kberrors.ErrorTypeSource))
}

func TestMemory_Fetch(t *testing.T) {
	entry := &registry.Entry{Source: "a", Dataset: "b", Provider: registry.ProviderFlat, Filename: "a.tsv"}

	mem := &Memory{Datasets: map[string]*Dataset{
		"a.b": {Columns: []string{"c"}, Rows: []Row{{"c": "1"}}},
	}}
	ds, err := mem.Fetch(context.Background(), entry)
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 1)

	// Unknown keys yield an empty dataset, not an error
	other := &registry.Entry{Source: "a", Dataset: "other", Provider: registry.ProviderFlat, Filename: "o.tsv"}
	ds, err = mem.Fetch(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
}
