package schema

// Default returns the built-in AlzKB vocabulary. External builds can swap
// it for a YAML resource via LoadResource; the resolver treats both the
// same way.
func Default() *Resource {
	return &Resource{
		NodeClasses: []string{
			"Gene",
			"Drug",
			"Disease",
			"Pathway",
			"TranscriptionFactor",
			"BodyPart",
			"BiologicalProcess",
			"MolecularFunction",
			"CellularComponent",
			"Symptom",
		},
		DataProperties: []string{
			"commonName",
			"sourceDatabase",
			"geneSymbol",
			"typeOfGene",
			"chromosome",
			"pathwayId",
			"pathwayName",
			"TF",
			"xrefNcbiGene",
			"xrefOMIM",
			"xrefHGNC",
			"xrefEnsembl",
			"xrefMiRBase",
			"xrefUmlsCUI",
			"xrefDiseaseOntology",
			"xrefDrugbank",
			"xrefCasRN",
			"xrefMeSH",
			"xrefDTXSID",
			"xrefUberon",
			"xrefGeneOntology",
			"score",
			"confidence",
			"zScore",
			"sourceId",
		},
		ObjectProperties: []string{
			"geneInPathway",
			"pathwayContainsGene",
			"geneAssociatesWithDisease",
			"transcriptionFactorInteractsWithGene",
			"chemicalBindsGene",
			"chemicalDecreasesExpression",
			"chemicalIncreasesExpression",
			"drugTreatsDisease",
			"drugCausesEffect",
			"geneInteractsWithGene",
			"geneHasMolecularFunction",
			"geneParticipatesInBiologicalProcess",
			"geneAssociatedWithCellularComponent",
			"bodyPartOverExpressesGene",
			"bodyPartUnderExpressesGene",
			"symptomManifestationOfDisease",
		},
	}
}
