package registry

// Default returns the built-in population configuration covering the
// standard AlzKB sources. A build can replace it wholesale with a YAML
// registry via Load; the keys and shapes are identical.
//
// AOPDB ships as a MySQL dump, so its entries read mapped tables; every
// other source is a flat TSV in the data directory.
func Default() *Registry {
	reg := &Registry{
		Entries: []*Entry{
			{
				Source:   "aopdb",
				Dataset:  "drugs",
				Provider: ProviderMySQL,
				Table:    "chemical_info",
				Node: &NodeType{
					Type:           "Drug",
					IdentityColumn: "DTX_id",
					Properties: map[string]string{
						"DTX_id":          "xrefDTXSID",
						"ChemicalID":      "xrefMeSH",
						"source_database": "sourceDatabase",
					},
					Merge: &MergeRule{Column: "DTX_id", Property: "xrefDTXSID"},
				},
			},
			{
				Source:   "aopdb",
				Dataset:  "pathways",
				Provider: ProviderMySQL,
				Table:    "pathway_gene",
				Node: &NodeType{
					Type:           "Pathway",
					IdentityColumn: "path_name",
					Properties: map[string]string{
						"path_id":    "pathwayId",
						"path_name":  "pathwayName",
						"ext_source": "sourceDatabase",
					},
				},
			},
			{
				Source:   "aopdb",
				Dataset:  "gene_pathway_relationships",
				Provider: ProviderMySQL,
				Table:    "pathway_gene",
				Rel: &RelationshipType{
					Relationship: "geneInPathway",
					Inverse:      "pathwayContainsGene",
					Subject:      Endpoint{NodeType: "Gene", Column: "entrez", MatchProperty: "xrefNcbiGene"},
					Object:       Endpoint{NodeType: "Pathway", Column: "path_name", MatchProperty: "pathwayName"},
				},
			},
			{
				Source:   "disgenet",
				Dataset:  "disease_classifications",
				Provider: ProviderFlat,
				Filename: "disease_classifications.tsv",
				Node: &NodeType{
					Type:           "Disease",
					IdentityColumn: "diseaseId",
					Properties: map[string]string{
						"diseaseId":      "xrefUmlsCUI",
						"diseaseName":    "commonName",
						"sourceDatabase": "sourceDatabase",
					},
				},
			},
			{
				Source:   "disgenet",
				Dataset:  "disease_mappings",
				Provider: ProviderFlat,
				Filename: "disease_mappings.tsv",
				Node: &NodeType{
					Type:           "Disease",
					IdentityColumn: "diseaseId",
					Filter:         &FilterRule{Column: "vocabulary", Value: "DO"},
					Merge:          &MergeRule{Column: "diseaseId", Property: "xrefUmlsCUI"},
					Properties: map[string]string{
						"code": "xrefDiseaseOntology",
					},
				},
			},
			{
				Source:   "disgenet",
				Dataset:  "gene_disease_associations",
				Provider: ProviderFlat,
				Filename: "gene_disease_associations.tsv",
				Rel: &RelationshipType{
					Relationship: "geneAssociatesWithDisease",
					Subject:      Endpoint{NodeType: "Gene", Column: "geneSymbol", MatchProperty: "geneSymbol"},
					Object:       Endpoint{NodeType: "Disease", Column: "diseaseId", MatchProperty: "xrefUmlsCUI"},
					Filter:       &FilterRule{Column: "diseaseType", Value: "disease"},
					Properties: map[string]string{
						"score": "score",
					},
				},
			},
			{
				Source:   "drugbank",
				Dataset:  "drugs",
				Provider: ProviderFlat,
				Filename: "drugs.tsv",
				Node: &NodeType{
					Type:           "Drug",
					IdentityColumn: "drugbank_id",
					Properties: map[string]string{
						"drugbank_id":     "xrefDrugbank",
						"cas_number":      "xrefCasRN",
						"drug_name":       "commonName",
						"source_database": "sourceDatabase",
					},
					Merge: &MergeRule{Column: "cas_number", Property: "xrefCasRN"},
				},
			},
			{
				Source:   "ncbigene",
				Dataset:  "genes",
				Provider: ProviderFlat,
				Filename: "genes.tsv",
				Node: &NodeType{
					Type:           "Gene",
					IdentityColumn: "Symbol",
					CompoundFields: map[string]CompoundField{
						"dbXrefs": {Delimiter: "|", KeyValueSeparator: ":", PropertyPrefix: "xref_"},
					},
					Properties: map[string]string{
						"GeneID":       "xrefNcbiGene",
						"Symbol":       "geneSymbol",
						"type_of_gene": "typeOfGene",
						"Full_name_from_nomenclature_authority": "commonName",
						"xref_MIM":        "xrefOMIM",
						"xref_HGNC":       "xrefHGNC",
						"xref_Ensembl":    "xrefEnsembl",
						"xref_miRBase":    "xrefMiRBase",
						"chromosome":      "chromosome",
						"source_database": "sourceDatabase",
					},
				},
			},
			{
				Source:   "dorothea",
				Dataset:  "transcription_factors",
				Provider: ProviderFlat,
				Filename: "transcription_factors.tsv",
				Node: &NodeType{
					Type:           "TranscriptionFactor",
					// tf_id is a namespaced identifier ("dorothea-TNF"), not
					// the bare symbol: node keys are global, and the bare
					// symbol is already taken by the Gene of the same name.
					IdentityColumn: "tf_id",
					Properties: map[string]string{
						"tf_id":           "sourceId",
						"tf_symbol":       "TF",
						"source_database": "sourceDatabase",
					},
					Merge: &MergeRule{Column: "tf_symbol", Property: "TF"},
				},
			},
			{
				Source:   "dorothea",
				Dataset:  "tf_gene_interactions",
				Provider: ProviderFlat,
				Filename: "tf_gene_interactions.tsv",
				Rel: &RelationshipType{
					Relationship: "transcriptionFactorInteractsWithGene",
					Subject:      Endpoint{NodeType: "TranscriptionFactor", Column: "tf_symbol", MatchProperty: "TF"},
					Object:       Endpoint{NodeType: "Gene", Column: "target_gene", MatchProperty: "geneSymbol"},
					Properties: map[string]string{
						"confidence": "confidence",
					},
				},
			},
		},
	}
	// Entries are declared statically, so indexing cannot fail.
	_ = reg.index()
	return reg
}
