// Package loader pushes a finished graph store into Neo4j. It is an
// optional post-export step: the CSV tables remain the canonical build
// artifact, this just saves a separate bulk-import round for dev setups.
package loader

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"alzkb-graph/internal/graph"
	kberrors "alzkb-graph/pkg/errors"
)

const defaultBatchSize = 500

// Loader writes nodes and edges in batched UNWIND statements
type Loader struct {
	driver    neo4j.DriverWithContext
	batchSize int
	logger    *zap.Logger
}

// Connect creates a driver and verifies connectivity before any writes
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, kberrors.NewLoaderConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, kberrors.NewLoaderConnectionFailed(uri, err)
	}
	return driver, nil
}

// NewLoader creates a loader over an open driver
func NewLoader(driver neo4j.DriverWithContext, logger *zap.Logger) *Loader {
	return &Loader{driver: driver, batchSize: defaultBatchSize, logger: logger}
}

// Load merges the whole store into the database: nodes first (MERGE by
// key, so reloading a build is idempotent), then edges by full triple.
func (l *Loader) Load(ctx context.Context, store *graph.Store) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	byType := make(map[string][]map[string]interface{})
	var typeOrder []string
	for _, node := range store.Nodes() {
		if _, seen := byType[node.Type]; !seen {
			typeOrder = append(typeOrder, node.Type)
		}
		byType[node.Type] = append(byType[node.Type], map[string]interface{}{
			"key":   node.Key,
			"props": propertyMap(node.PropertyNames(), node.Values),
		})
	}

	for _, nodeType := range typeOrder {
		// Labels cannot be parameterized; node types come from the
		// validated schema resource, not raw input.
		query := fmt.Sprintf(`
			UNWIND $batch AS row
			MERGE (n:%s {key: row.key})
			SET n += row.props
		`, nodeType)
		if err := l.runBatched(ctx, session, query, byType[nodeType]); err != nil {
			return fmt.Errorf("failed to load %s nodes: %w", nodeType, err)
		}
		l.logger.Info("nodes loaded",
			zap.String("type", nodeType),
			zap.Int("count", len(byType[nodeType])),
		)
	}

	byPredicate := make(map[string][]map[string]interface{})
	var predicateOrder []string
	for _, edge := range store.Edges() {
		if _, seen := byPredicate[edge.Predicate]; !seen {
			predicateOrder = append(predicateOrder, edge.Predicate)
		}
		byPredicate[edge.Predicate] = append(byPredicate[edge.Predicate], map[string]interface{}{
			"subject": edge.SubjectKey,
			"object":  edge.ObjectKey,
			"props":   propertyMap(edge.PropertyNames(), edge.Values),
		})
	}

	for _, predicate := range predicateOrder {
		query := fmt.Sprintf(`
			UNWIND $batch AS row
			MATCH (s {key: row.subject})
			MATCH (o {key: row.object})
			MERGE (s)-[r:%s]->(o)
			SET r += row.props
		`, predicate)
		if err := l.runBatched(ctx, session, query, byPredicate[predicate]); err != nil {
			return fmt.Errorf("failed to load %s edges: %w", predicate, err)
		}
		l.logger.Info("edges loaded",
			zap.String("predicate", predicate),
			zap.Int("count", len(byPredicate[predicate])),
		)
	}

	return nil
}

func (l *Loader) runBatched(ctx context.Context, session neo4j.SessionWithContext, query string, rows []map[string]interface{}) error {
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := session.Run(ctx, query, map[string]interface{}{"batch": rows[start:end]}); err != nil {
			return err
		}
	}
	return nil
}

func propertyMap(names []string, values func(string) []string) map[string]interface{} {
	props := make(map[string]interface{}, len(names))
	for _, name := range names {
		vals := values(name)
		if len(vals) == 1 {
			props[name] = vals[0]
			continue
		}
		arr := make([]interface{}, len(vals))
		for i, v := range vals {
			arr[i] = v
		}
		props[name] = arr
	}
	return props
}
