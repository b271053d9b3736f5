package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alzkb-graph/internal/export"
	"alzkb-graph/internal/provider"
	"alzkb-graph/internal/registry"
	"alzkb-graph/internal/schema"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	return mustRegistry(t,
		&registry.Entry{
			Source: "ncbigene", Dataset: "genes",
			Provider: registry.ProviderFlat, Filename: "genes.tsv",
			Node: &registry.NodeType{
				Type:           "Gene",
				IdentityColumn: "Symbol",
				Properties: map[string]string{
					"Symbol": "geneSymbol",
					"GeneID": "xrefNcbiGene",
				},
			},
		},
		&registry.Entry{
			Source: "disgenet", Dataset: "diseases",
			Provider: registry.ProviderFlat, Filename: "diseases.tsv",
			Node: &registry.NodeType{
				Type:           "Disease",
				IdentityColumn: "diseaseId",
				Properties: map[string]string{
					"diseaseId":   "xrefUmlsCUI",
					"diseaseName": "commonName",
				},
			},
		},
		&registry.Entry{
			Source: "disgenet", Dataset: "associations",
			Provider: registry.ProviderFlat, Filename: "associations.tsv",
			Rel: &registry.RelationshipType{
				Relationship: "geneAssociatesWithDisease",
				Subject:      registry.Endpoint{NodeType: "Gene", Column: "geneSymbol", MatchProperty: "geneSymbol"},
				Object:       registry.Endpoint{NodeType: "Disease", Column: "diseaseId", MatchProperty: "xrefUmlsCUI"},
			},
		},
	)
}

func mustRegistry(t *testing.T, entries ...*registry.Entry) *registry.Registry {
	t.Helper()
	reg, err := registry.New(entries...)
	require.NoError(t, err)
	return reg
}

func testDatasets() *provider.Memory {
	return &provider.Memory{
		Datasets: map[string]*provider.Dataset{
			"ncbigene.genes": {
				Rows: []provider.Row{
					{"Symbol": "APOE", "GeneID": "348"},
					{"Symbol": "MAPT", "GeneID": "4137"},
				},
			},
			"disgenet.diseases": {
				Rows: []provider.Row{
					{"diseaseId": "C0002395", "diseaseName": "Alzheimer's Disease"},
				},
			},
			"disgenet.associations": {
				Rows: []provider.Row{
					{"geneSymbol": "APOE", "diseaseId": "C0002395"},
					{"geneSymbol": "MAPT", "diseaseId": "C0002395"},
					{"geneSymbol": "UNKNOWN", "diseaseId": "C0002395"},
				},
			},
		},
	}
}

func newTestCoordinator(t *testing.T, reg *registry.Registry, prov provider.Provider, workers int) *Coordinator {
	t.Helper()
	return New(Options{
		Registry:  reg,
		Resolver:  schema.NewResolver(schema.Default()),
		Providers: map[string]provider.Provider{registry.ProviderFlat: prov},
		Exporter:  export.New("|"),
		OutputDir: t.TempDir(),
		Workers:   workers,
		Logger:    zap.NewNop(),
	})
}

func TestRun_EndToEnd(t *testing.T) {
	coord := newTestCoordinator(t, testRegistry(t), testDatasets(), 4)

	report, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Totals.NodesCreated)
	assert.Equal(t, 2, report.Totals.EdgesCreated)
	assert.Equal(t, 1, report.Totals.EdgesSkipped)
	assert.Empty(t, report.FailedSources())
	assert.NotEmpty(t, report.RunID)

	// Relationships resolved against fully populated phase-1 indices
	store := coord.Store()
	assert.Equal(t, 3, store.NodeCount())
	assert.Equal(t, 2, store.EdgeCount())

	// Export always runs and both tables exist
	require.NotNil(t, report.Export)
	for _, path := range []string{report.Export.NodesPath, report.Export.EdgesPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestRun_FailedSourceDoesNotStopTheBuild(t *testing.T) {
	prov := testDatasets()
	prov.Errs = map[string]error{
		"disgenet.diseases": errors.New("download truncated"),
	}
	coord := newTestCoordinator(t, testRegistry(t), prov, 2)

	report, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"disgenet.diseases"}, report.FailedSources())
	// Genes still populated; associations all skip for want of disease nodes
	assert.Equal(t, 2, report.Totals.NodesCreated)
	assert.Equal(t, 0, report.Totals.EdgesCreated)
	assert.Equal(t, 3, report.Totals.EdgesSkipped)
	require.NotNil(t, report.Export)
	assert.Equal(t, 2, report.Export.NodeRows)
}

func TestRun_TypeCollisionAborts(t *testing.T) {
	reg := mustRegistry(t,
		&registry.Entry{
			Source: "a", Dataset: "genes",
			Provider: registry.ProviderFlat, Filename: "a.tsv",
			Node:     &registry.NodeType{Type: "Gene", IdentityColumn: "id"},
		},
		&registry.Entry{
			Source: "b", Dataset: "drugs",
			Provider: registry.ProviderFlat, Filename: "b.tsv",
			Node:     &registry.NodeType{Type: "Drug", IdentityColumn: "id"},
		},
	)
	prov := &provider.Memory{
		Datasets: map[string]*provider.Dataset{
			"a.genes": {Rows: []provider.Row{{"id": "SHARED"}}},
			"b.drugs": {Rows: []provider.Row{{"id": "SHARED"}}},
		},
	}
	coord := newTestCoordinator(t, reg, prov, 1)

	_, err := coord.Run(context.Background())
	require.Error(t, err)
}

func TestPopulate_SingleKey(t *testing.T) {
	coord := newTestCoordinator(t, testRegistry(t), testDatasets(), 1)

	result, err := coord.Populate(context.Background(), "ncbigene.genes")
	require.NoError(t, err)
	assert.Equal(t, 2, result.NodesCreated)

	_, err = coord.Populate(context.Background(), "nosuch.key")
	assert.Error(t, err)
}

func TestPopulate_ValidationFailureIsSourceLevel(t *testing.T) {
	reg := mustRegistry(t,
		&registry.Entry{
			Source: "x", Dataset: "y",
			Provider: registry.ProviderFlat, Filename: "x.tsv",
			Node: &registry.NodeType{
				Type:           "Gene",
				IdentityColumn: "id",
				Properties:     map[string]string{"c": "noSuchProperty"},
			},
		},
	)
	coord := newTestCoordinator(t, reg, &provider.Memory{}, 1)

	report, err := coord.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x.y"}, report.FailedSources())
}
