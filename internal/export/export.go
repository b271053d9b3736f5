// Package export materializes a finished graph store into two flat tables
// ready for bulk import: nodes.csv (key, type, property columns) and
// edges.csv (subject, predicate, object, property columns).
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alzkb-graph/internal/graph"
	kberrors "alzkb-graph/pkg/errors"
)

const (
	// DefaultDelimiter joins the values of a multi-valued cell
	DefaultDelimiter = "|"

	NodesFilename = "nodes.csv"
	EdgesFilename = "edges.csv"
)

// Exporter writes a graph store to disk. Multi-valued properties are
// joined with Delimiter in insertion order, which round-trips losslessly
// as long as no individual value contains the delimiter. That constraint
// is on the sources, not silently repaired here.
type Exporter struct {
	Delimiter string
}

// New creates an exporter; an empty delimiter falls back to "|"
func New(delimiter string) *Exporter {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Exporter{Delimiter: delimiter}
}

// Result reports where the tables were written and how many rows each holds
type Result struct {
	NodesPath string
	EdgesPath string
	NodeRows  int
	EdgeRows  int
}

// Export writes nodes.csv and edges.csv under dir, creating it if needed.
// Column sets are the sorted union of observed property names; row order is
// store insertion order, so repeated exports of the same build are
// byte-identical.
func (x *Exporter) Export(store *graph.Store, dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kberrors.NewBaseError(kberrors.ErrorTypeExport, "failed to create output directory", err)
	}

	result := &Result{
		NodesPath: filepath.Join(dir, NodesFilename),
		EdgesPath: filepath.Join(dir, EdgesFilename),
	}

	nodes := store.Nodes()
	nodeColumns := unionColumns(len(nodes), func(i int) []string { return nodes[i].PropertyNames() })
	nodeRows := make([][]string, 0, len(nodes))
	for _, node := range nodes {
		record := []string{node.Key, node.Type}
		for _, column := range nodeColumns {
			record = append(record, strings.Join(node.Values(column), x.Delimiter))
		}
		nodeRows = append(nodeRows, record)
	}
	if err := writeTable(result.NodesPath, append([]string{"key", "type"}, nodeColumns...), nodeRows); err != nil {
		return nil, err
	}
	result.NodeRows = len(nodeRows)

	edges := store.Edges()
	edgeColumns := unionColumns(len(edges), func(i int) []string { return edges[i].PropertyNames() })
	edgeRows := make([][]string, 0, len(edges))
	for _, edge := range edges {
		record := []string{edge.SubjectKey, edge.Predicate, edge.ObjectKey}
		for _, column := range edgeColumns {
			record = append(record, strings.Join(edge.Values(column), x.Delimiter))
		}
		edgeRows = append(edgeRows, record)
	}
	if err := writeTable(result.EdgesPath, append([]string{"subject", "predicate", "object"}, edgeColumns...), edgeRows); err != nil {
		return nil, err
	}
	result.EdgeRows = len(edgeRows)

	return result, nil
}

func unionColumns(n int, names func(int) []string) []string {
	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		for _, name := range names(i) {
			seen[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return kberrors.NewBaseError(kberrors.ErrorTypeExport, fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return kberrors.NewBaseError(kberrors.ErrorTypeExport, fmt.Sprintf("failed to write %s", path), err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return kberrors.NewBaseError(kberrors.ErrorTypeExport, fmt.Sprintf("failed to write %s", path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return kberrors.NewBaseError(kberrors.ErrorTypeExport, fmt.Sprintf("failed to flush %s", path), err)
	}
	return nil
}
