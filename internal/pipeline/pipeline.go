// Package pipeline sequences the graph build: every node-type population
// runs (concurrently) to completion before any relationship-type
// population starts, because relationship endpoint resolution reads the
// node indices built in phase one.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alzkb-graph/internal/export"
	"alzkb-graph/internal/graph"
	"alzkb-graph/internal/populate"
	"alzkb-graph/internal/provider"
	"alzkb-graph/internal/registry"
	"alzkb-graph/internal/schema"
	kberrors "alzkb-graph/pkg/errors"
)

// PopulationResult aggregates the per-operation counters of one or more
// population runs
type PopulationResult struct {
	NodesCreated int
	NodesMerged  int
	EdgesCreated int
	EdgesSkipped int
	RowsFiltered int
	RowsFailed   int
}

func (r *PopulationResult) add(other PopulationResult) {
	r.NodesCreated += other.NodesCreated
	r.NodesMerged += other.NodesMerged
	r.EdgesCreated += other.EdgesCreated
	r.EdgesSkipped += other.EdgesSkipped
	r.RowsFiltered += other.RowsFiltered
	r.RowsFailed += other.RowsFailed
}

// SourceResult is the outcome of populating one (source, dataset) entry.
// Err is a source-level failure; the run continues past it.
type SourceResult struct {
	Key   string
	Stats PopulationResult
	Err   error
}

// Report summarizes a full pipeline run
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Sources  map[string]*SourceResult
	Totals   PopulationResult
	Export   *export.Result
}

// FailedSources returns the keys of sources that did not populate, in no
// particular order
func (r *Report) FailedSources() []string {
	var out []string
	for key, res := range r.Sources {
		if res.Err != nil {
			out = append(out, key)
		}
	}
	return out
}

// Coordinator wires the registry, providers, engine and exporter into a
// two-phase build
type Coordinator struct {
	registry  *registry.Registry
	resolver  *schema.Resolver
	providers map[string]provider.Provider
	store     *graph.Store
	engine    *populate.Engine
	exporter  *export.Exporter
	outputDir string
	workers   int
	log       *zap.Logger
}

// Options configures a Coordinator
type Options struct {
	Registry  *registry.Registry
	Resolver  *schema.Resolver
	Providers map[string]provider.Provider // keyed by entry provider kind
	Store     *graph.Store
	Exporter  *export.Exporter
	OutputDir string
	Workers   int
	Logger    *zap.Logger
}

// New creates a pipeline coordinator
func New(opts Options) *Coordinator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Store == nil {
		opts.Store = graph.NewStore()
	}
	if opts.Exporter == nil {
		opts.Exporter = export.New(export.DefaultDelimiter)
	}
	return &Coordinator{
		registry:  opts.Registry,
		resolver:  opts.Resolver,
		providers: opts.Providers,
		store:     opts.Store,
		engine:    populate.NewEngine(opts.Store, opts.Logger),
		exporter:  opts.Exporter,
		outputDir: opts.OutputDir,
		workers:   opts.Workers,
		log:       opts.Logger,
	}
}

// Store exposes the graph store being built
func (c *Coordinator) Store() *graph.Store {
	return c.store
}

// Populate runs one configuration key to completion and returns its
// counters. Row-level events are counters inside the result; the error is
// source-level (or fatal store-level).
func (c *Coordinator) Populate(ctx context.Context, key string) (PopulationResult, error) {
	entry, ok := c.registry.Get(key)
	if !ok {
		return PopulationResult{}, fmt.Errorf("unknown config key %q", key)
	}
	return c.populateEntry(ctx, entry)
}

func (c *Coordinator) populateEntry(ctx context.Context, entry *registry.Entry) (PopulationResult, error) {
	if err := entry.Validate(c.resolver); err != nil {
		return PopulationResult{}, err
	}

	prov, ok := c.providers[entry.Provider]
	if !ok {
		return PopulationResult{}, kberrors.NewProviderFailed(entry.Key(),
			fmt.Errorf("no %q provider configured", entry.Provider))
	}
	ds, err := prov.Fetch(ctx, entry)
	if err != nil {
		return PopulationResult{}, err
	}

	if entry.Node != nil {
		stats, err := c.engine.PopulateNodes(entry.Node, ds)
		result := PopulationResult{
			NodesCreated: stats.Created,
			NodesMerged:  stats.Merged,
			RowsFiltered: stats.Filtered,
			RowsFailed:   stats.Failed,
		}
		return result, err
	}

	stats := c.engine.PopulateRelationships(entry.Rel, ds)
	return PopulationResult{
		EdgesCreated: stats.Created,
		EdgesSkipped: stats.Skipped,
		RowsFiltered: stats.Filtered,
		RowsFailed:   stats.Failed,
	}, nil
}

// Run executes both phases and exports the result. Source-level failures
// are recorded in the report and do not stop the run; only store-level
// inconsistencies (or a dead context) abort it.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Sources: make(map[string]*SourceResult),
	}

	c.log.Info("starting graph build",
		zap.String("run_id", report.RunID),
		zap.Int("node_sources", len(c.registry.NodeEntries())),
		zap.Int("relationship_sources", len(c.registry.RelationshipEntries())),
	)

	// Phase 1: nodes. Phase 2 must not start before every node source has
	// finished; relationship resolution reads the indices built here.
	if err := c.runPhase(ctx, "nodes", c.registry.NodeEntries(), report); err != nil {
		return report, err
	}
	if err := c.runPhase(ctx, "relationships", c.registry.RelationshipEntries(), report); err != nil {
		return report, err
	}

	for _, res := range report.Sources {
		report.Totals.add(res.Stats)
	}

	exported, err := c.exporter.Export(c.store, c.outputDir)
	if err != nil {
		return report, err
	}
	report.Export = exported
	report.Finished = time.Now()

	c.log.Info("graph build finished",
		zap.String("run_id", report.RunID),
		zap.Int("nodes", c.store.NodeCount()),
		zap.Int("edges", c.store.EdgeCount()),
		zap.Strings("failed_sources", report.FailedSources()),
		zap.Duration("elapsed", report.Finished.Sub(report.Started)),
	)
	return report, nil
}

func (c *Coordinator) runPhase(ctx context.Context, phase string, entries []*registry.Entry, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	var mu sync.Mutex
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats, err := c.populateEntry(gctx, entry)
			if err != nil && kberrors.IsFatal(err) {
				// A type collision means the configuration contradicts
				// itself; continuing would corrupt the graph.
				return err
			}
			if err != nil {
				c.log.Warn("source population failed",
					zap.String("phase", phase),
					zap.String("key", entry.Key()),
					zap.Error(err),
				)
			}
			mu.Lock()
			report.Sources[entry.Key()] = &SourceResult{Key: entry.Key(), Stats: stats, Err: err}
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
