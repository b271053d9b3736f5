package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"alzkb-graph/internal/export"
	"alzkb-graph/internal/loader"
	"alzkb-graph/internal/pipeline"
	"alzkb-graph/internal/provider"
	"alzkb-graph/internal/registry"
	"alzkb-graph/internal/schema"
	"alzkb-graph/pkg/config"
	"alzkb-graph/pkg/logger"
)

func main() {
	var (
		dataDir      = flag.String("data-dir", "", "directory containing the flat source tables (overrides ALZKB_DATA_DIR)")
		outputDir    = flag.String("out", "", "directory for nodes.csv/edges.csv (overrides ALZKB_OUTPUT_DIR)")
		registryPath = flag.String("config", "", "YAML population configs (default: built-in AlzKB configs)")
		schemaPath   = flag.String("schema", "", "YAML schema resource (default: built-in AlzKB vocabulary)")
		workers      = flag.Int("workers", 0, "concurrent source populations per phase (overrides ALZKB_WORKERS)")
		loadNeo4j    = flag.Bool("load-neo4j", false, "push the finished graph into Neo4j after export")
	)
	flag.Parse()

	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting AlzKB graph build...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *registryPath != "" {
		cfg.RegistryPath = *registryPath
	}
	if *schemaPath != "" {
		cfg.SchemaPath = *schemaPath
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	// Schema resource and resolver
	resource := schema.Default()
	if cfg.SchemaPath != "" {
		resource, err = schema.LoadResource(cfg.SchemaPath)
		if err != nil {
			log.Fatal("Failed to load schema resource", zap.Error(err))
		}
	}
	resolver := schema.NewResolver(resource)

	// Population configuration
	reg := registry.Default()
	if cfg.RegistryPath != "" {
		reg, err = registry.Load(cfg.RegistryPath)
		if err != nil {
			log.Fatal("Failed to load population configs", zap.Error(err))
		}
	}

	// Dataset providers
	ctx := context.Background()
	providers := map[string]provider.Provider{
		registry.ProviderFlat: provider.NewFlatFile(cfg.DataDir),
	}
	if cfg.MySQLEnabled() {
		mysqlProvider, err := provider.OpenMySQL(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatal("Failed to connect to MySQL source", zap.Error(err))
		}
		defer mysqlProvider.Close()
		providers[registry.ProviderMySQL] = mysqlProvider
	} else {
		log.Info("MySQL source not configured, MySQL-backed datasets will be recorded as failed")
	}

	// Run the build
	coordinator := pipeline.New(pipeline.Options{
		Registry:  reg,
		Resolver:  resolver,
		Providers: providers,
		Exporter:  export.New(cfg.ArrayDelimiter),
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Logger:    log,
	})

	report, err := coordinator.Run(ctx)
	if err != nil {
		log.Fatal("Graph build aborted", zap.Error(err))
	}

	log.Info("Build report",
		zap.String("run_id", report.RunID),
		zap.Int("nodes_created", report.Totals.NodesCreated),
		zap.Int("nodes_merged", report.Totals.NodesMerged),
		zap.Int("edges_created", report.Totals.EdgesCreated),
		zap.Int("edges_skipped", report.Totals.EdgesSkipped),
		zap.Int("rows_filtered", report.Totals.RowsFiltered),
		zap.Int("rows_failed", report.Totals.RowsFailed),
		zap.String("nodes_table", report.Export.NodesPath),
		zap.String("edges_table", report.Export.EdgesPath),
	)
	for _, key := range report.FailedSources() {
		log.Warn("Source failed", zap.String("key", key), zap.Error(report.Sources[key].Err))
	}

	// Optional: push the graph into Neo4j
	if *loadNeo4j {
		if !cfg.Neo4jEnabled() {
			log.Fatal("NEO4J_URI must be set for -load-neo4j")
		}
		driver, err := loader.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Fatal("Failed to connect to Neo4j", zap.Error(err))
		}
		defer driver.Close(ctx)

		if err := loader.NewLoader(driver, logger.Named("loader")).Load(ctx, coordinator.Store()); err != nil {
			log.Fatal("Failed to load graph into Neo4j", zap.Error(err))
		}
		log.Info("Graph loaded into Neo4j",
			zap.Int("nodes", coordinator.Store().NodeCount()),
			zap.Int("edges", coordinator.Store().EdgeCount()),
		)
	}
}
