package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alzkb-graph/internal/schema"
	kberrors "alzkb-graph/pkg/errors"
)

func TestDefault_AllEntriesValidate(t *testing.T) {
	resolver := schema.NewResolver(schema.Default())

	reg := Default()
	require.NotEmpty(t, reg.Entries)
	for _, entry := range reg.Entries {
		assert.NoError(t, entry.Validate(resolver), "entry %s", entry.Key())
	}
}

func TestDefault_Lookup(t *testing.T) {
	reg := Default()

	entry, ok := reg.Get("ncbigene.genes")
	require.True(t, ok)
	assert.Equal(t, "Gene", entry.Node.Type)
	assert.Equal(t, "Symbol", entry.Node.IdentityColumn)

	_, ok = reg.Get("nosuch.dataset")
	assert.False(t, ok)
}

func TestDefault_PhaseSplit(t *testing.T) {
	reg := Default()

	for _, entry := range reg.NodeEntries() {
		assert.NotNil(t, entry.Node)
		assert.Nil(t, entry.Rel)
	}
	for _, entry := range reg.RelationshipEntries() {
		assert.NotNil(t, entry.Rel)
		assert.Nil(t, entry.Node)
	}
	assert.Equal(t, len(reg.Entries), len(reg.NodeEntries())+len(reg.RelationshipEntries()))
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `
entries:
  - source: ncbigene
    dataset: genes
    provider: flat
    filename: genes.tsv
    node:
      type: Gene
      identity_column: Symbol
      properties:
        GeneID: xrefNcbiGene
      compound_fields:
        dbXrefs:
          delimiter: "|"
          key_value_separator: ":"
          property_prefix: "xref_"
  - source: disgenet
    dataset: gene_disease_associations
    provider: flat
    filename: gda.tsv
    rel:
      relationship: geneAssociatesWithDisease
      subject: {node_type: Gene, column: geneSymbol, match_property: geneSymbol}
      object: {node_type: Disease, column: diseaseId, match_property: xrefUmlsCUI}
      filter: {column: diseaseType, value: disease}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reg.Entries, 2)

	entry, ok := reg.Get("ncbigene.genes")
	require.True(t, ok)
	assert.Equal(t, "xrefNcbiGene", entry.Node.Properties["GeneID"])
	assert.Equal(t, "|", entry.Node.CompoundFields["dbXrefs"].Delimiter)

	resolver := schema.NewResolver(schema.Default())
	for _, e := range reg.Entries {
		assert.NoError(t, e.Validate(resolver))
	}
}

func TestLoad_DuplicateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `
entries:
  - {source: a, dataset: b, provider: flat, filename: x.tsv, node: {type: Gene, identity_column: id}}
  - {source: a, dataset: b, provider: flat, filename: y.tsv, node: {type: Gene, identity_column: id}}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_UnknownSchemaName(t *testing.T) {
	resolver := schema.NewResolver(schema.Default())

	entry := &Entry{
		Source: "x", Dataset: "y", Provider: ProviderFlat, Filename: "x.tsv",
		Node: &NodeType{
			Type:           "Gene",
			IdentityColumn: "id",
			Properties:     map[string]string{"col": "notARealProperty"},
		},
	}
	err := entry.Validate(resolver)
	require.Error(t, err)
	assert.True(t, kberrors.IsErrorType(err, kberrors.ErrorTypeSource))
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	resolver := schema.NewResolver(schema.Default())

	cases := []struct {
		name  string
		entry *Entry
	}{
		{"no node or rel", &Entry{Source: "x", Dataset: "y", Provider: ProviderFlat, Filename: "f.tsv"}},
		{"no identity column", &Entry{Source: "x", Dataset: "y", Provider: ProviderFlat, Filename: "f.tsv",
			Node: &NodeType{Type: "Gene"}}},
		{"flat without filename", &Entry{Source: "x", Dataset: "y", Provider: ProviderFlat,
			Node: &NodeType{Type: "Gene", IdentityColumn: "id"}}},
		{"mysql without table", &Entry{Source: "x", Dataset: "y", Provider: ProviderMySQL,
			Node: &NodeType{Type: "Gene", IdentityColumn: "id"}}},
		{"endpoint without column", &Entry{Source: "x", Dataset: "y", Provider: ProviderFlat, Filename: "f.tsv",
			Rel: &RelationshipType{
				Relationship: "geneInPathway",
				Subject:      Endpoint{NodeType: "Gene", MatchProperty: "geneSymbol"},
				Object:       Endpoint{NodeType: "Pathway", Column: "p", MatchProperty: "pathwayName"},
			}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate(resolver)
			require.Error(t, err)
			assert.True(t, kberrors.IsErrorType(err, kberrors.ErrorTypeConfig) ||
				kberrors.IsErrorType(err, kberrors.ErrorTypeSource))
		})
	}
}
