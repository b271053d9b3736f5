package graph

import (
	"sync"

	kberrors "alzkb-graph/pkg/errors"
)

type propKey struct {
	Type     string
	Property string
	Value    string
}

type tripleKey struct {
	Subject   string
	Predicate string
	Object    string
}

// Store is the in-memory property graph built during population and
// discarded after export. It keeps a primary index (key -> node), a
// secondary index ((type, property, value) -> node key) maintained on every
// property assignment, and an edge set deduplicated by
// (subject, predicate, object).
//
// All mutation goes through one store-wide lock. Population is I/O-bound
// upstream of the store, so a single lock is cheaper than sharding and
// keeps the index trivially consistent with the property bags.
type Store struct {
	mu sync.RWMutex

	nodes     map[string]*Node
	nodeOrder []string

	byProp map[propKey]string

	edges     map[tripleKey]*Edge
	edgeOrder []tripleKey
}

// NewStore creates an empty graph store
func NewStore() *Store {
	return &Store{
		nodes:  make(map[string]*Node),
		byProp: make(map[propKey]string),
		edges:  make(map[tripleKey]*Edge),
	}
}

// UpsertNode returns the node registered under the normalized identity key,
// creating it if absent and merging props into it either way. The bool is
// true when the node was newly created. An empty identity value is a
// row-level error; a key already held by a different node type is a
// store-level error and performs no mutation.
func (s *Store) UpsertNode(nodeType, identity string, props map[string][]string) (*Node, bool, error) {
	key := NormalizeKey(identity)
	if key == "" {
		return nil, false, kberrors.NewMissingIdentity(nodeType, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(nodeType, key, props)
}

// UpsertMerging resolves a row's target node and merges props into it in
// one critical section: a node of nodeType already holding mergeValue
// under mergeProperty wins over the identity key, otherwise this behaves
// exactly like UpsertNode. The lookup and the create must not be separate
// store calls, or two concurrent sources sharing a merge value could both
// miss the lookup and split one entity into two nodes.
func (s *Store) UpsertMerging(nodeType, identity, mergeProperty, mergeValue string, props map[string][]string) (*Node, bool, error) {
	key := NormalizeKey(identity)
	if key == "" {
		return nil, false, kberrors.NewMissingIdentity(nodeType, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mergeProperty != "" && mergeValue != "" {
		if existingKey, ok := s.byProp[propKey{Type: nodeType, Property: mergeProperty, Value: mergeValue}]; ok {
			if node, ok := s.nodes[existingKey]; ok {
				s.mergeLocked(node, props)
				return node, false, nil
			}
		}
	}
	return s.upsertLocked(nodeType, key, props)
}

func (s *Store) upsertLocked(nodeType, key string, props map[string][]string) (*Node, bool, error) {
	node, ok := s.nodes[key]
	created := false
	if ok {
		if node.Type != nodeType {
			return nil, false, kberrors.NewDuplicateKeyTypeMismatch(key, node.Type, nodeType)
		}
	} else {
		node = &Node{
			Key:   key,
			Type:  nodeType,
			props: make(map[string][]string),
		}
		s.nodes[key] = node
		s.nodeOrder = append(s.nodeOrder, key)
		created = true
	}

	s.mergeLocked(node, props)
	return node, created, nil
}

// FindByProperty resolves a node through the secondary index
func (s *Store) FindByProperty(nodeType, property, value string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byProp[propKey{Type: nodeType, Property: property, Value: value}]
	if !ok {
		return nil, false
	}
	node, ok := s.nodes[key]
	return node, ok
}

// AddProperty assigns one value to a node's property bag and registers the
// (type, property, value) pair in the secondary index
func (s *Store) AddProperty(node *Node, property, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignLocked(node, property, value)
}

// MergeInto unions props into an existing node's property bag. Existing
// values are never removed.
func (s *Store) MergeInto(node *Node, props map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeLocked(node, props)
}

// AddEdge records a directed edge, deduplicated on the full triple.
// Re-adding an existing triple merges props into the existing edge. The
// returned bool is true when the triple was new.
func (s *Store) AddEdge(subjectKey, predicate, objectKey string, props map[string][]string) (*Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tripleKey{Subject: subjectKey, Predicate: predicate, Object: objectKey}
	edge, ok := s.edges[key]
	created := false
	if !ok {
		edge = &Edge{
			SubjectKey: subjectKey,
			Predicate:  predicate,
			ObjectKey:  objectKey,
			props:      make(map[string][]string),
		}
		s.edges[key] = edge
		s.edgeOrder = append(s.edgeOrder, key)
		created = true
	}

	for _, property := range sortedKeys(props) {
		for _, value := range props[property] {
			edge.appendValue(property, value)
		}
	}
	return edge, created
}

// Nodes returns all nodes in insertion order
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, 0, len(s.nodeOrder))
	for _, key := range s.nodeOrder {
		out = append(out, s.nodes[key])
	}
	return out
}

// Edges returns all edges in insertion order
func (s *Store) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Edge, 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		out = append(out, s.edges[key])
	}
	return out
}

// NodeCount returns the number of distinct nodes
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of distinct edges
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

func (s *Store) mergeLocked(node *Node, props map[string][]string) {
	for _, property := range sortedKeys(props) {
		for _, value := range props[property] {
			s.assignLocked(node, property, value)
		}
	}
}

func (s *Store) assignLocked(node *Node, property, value string) {
	if value == "" {
		return
	}
	node.appendValue(property, value)

	// First registration wins: when two nodes legitimately share a value
	// (e.g. the same sourceDatabase tag), lookups stay deterministic.
	key := propKey{Type: node.Type, Property: property, Value: value}
	if _, exists := s.byProp[key]; !exists {
		s.byProp[key] = node.Key
	}
}
