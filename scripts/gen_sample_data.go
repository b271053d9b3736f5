//go:build ignore

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"alzkb-graph/pkg/logger"

	"go.uber.org/zap"
)

// Writes a small TSV for every flat-file source in the default registry so
// a full pipeline run works locally without downloading the real dumps.
// Run with: go run scripts/gen_sample_data.go -out data/raw
func main() {
	outDir := flag.String("out", "data/raw", "Directory to write sample source tables into")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Generating sample source tables...", zap.String("dir", *outDir))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal("Failed to create output directory", zap.Error(err))
	}

	tables := map[string][]string{
		"genes.tsv": {
			"GeneID\tSymbol\tFull_name_from_nomenclature_authority\ttype_of_gene\tchromosome\tdbXrefs\tsource_database",
			"672\tBRCA1\tBRCA1 DNA repair associated\tprotein-coding\t17\tMIM:113705|HGNC:HGNC:1100|Ensembl:ENSG00000012048\tNCBI Gene",
			"348\tAPOE\tapolipoprotein E\tprotein-coding\t19\tMIM:107741|HGNC:HGNC:613|Ensembl:ENSG00000130203\tNCBI Gene",
			"4137\tMAPT\tmicrotubule associated protein tau\tprotein-coding\t17\tMIM:157140|HGNC:HGNC:6893|Ensembl:ENSG00000186868\tNCBI Gene",
			"7124\tTNF\ttumor necrosis factor\tprotein-coding\t6\tMIM:191160|HGNC:HGNC:11892|Ensembl:ENSG00000232810\tNCBI Gene",
		},
		"disease_classifications.tsv": {
			"diseaseId\tdiseaseName\tsourceDatabase",
			"C0002395\tAlzheimer's Disease\tDisGeNET",
			"C0006142\tMalignant neoplasm of breast\tDisGeNET",
			"C0036341\tSchizophrenia\tDisGeNET",
		},
		"disease_mappings.tsv": {
			"diseaseId\tname\tvocabulary\tcode",
			"C0002395\tAlzheimer's Disease\tDO\tDOID:10652",
			"C0002395\tAlzheimer's Disease\tMSH\tD000544",
			"C0006142\tMalignant neoplasm of breast\tDO\tDOID:1612",
		},
		"gene_disease_associations.tsv": {
			"geneId\tgeneSymbol\tdiseaseId\tdiseaseName\tdiseaseType\tscore",
			"348\tAPOE\tC0002395\tAlzheimer's Disease\tdisease\t0.92",
			"4137\tMAPT\tC0002395\tAlzheimer's Disease\tdisease\t0.71",
			"672\tBRCA1\tC0006142\tMalignant neoplasm of breast\tdisease\t0.90",
			"7124\tTNF\tC0002395\tAlzheimer's Disease\tphenotype\t0.40",
		},
		"drugs.tsv": {
			"drugbank_id\tdrug_name\tcas_number\tsource_database",
			"DB00843\tDonepezil\t120014-06-4\tDrugBank",
			"DB00674\tGalantamine\t357-70-0\tDrugBank",
			"DB01043\tMemantine\t19982-08-2\tDrugBank",
		},
		"transcription_factors.tsv": {
			"tf_id\ttf_symbol\tsource_database",
			"dorothea-TNF\tTNF\tDoRothEA",
			"dorothea-APOE\tAPOE\tDoRothEA",
		},
		"tf_gene_interactions.tsv": {
			"tf_symbol\ttarget_gene\tconfidence",
			"TNF\tAPOE\tA",
			"TNF\tMAPT\tB",
		},
	}

	for name, lines := range tables {
		path := filepath.Join(*outDir, name)
		content := ""
		for _, line := range lines {
			content += line + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			log.Fatal("Failed to write sample table", zap.String("file", name), zap.Error(err))
		}
		log.Info("Sample table written", zap.String("file", path), zap.Int("rows", len(lines)-1))
	}

	log.Info("Sample data generation complete")
}
