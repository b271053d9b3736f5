package graph

import "strings"

// Node is a typed graph node. Key is the normalized identity value the node
// was created under; it never changes after creation. Properties are
// multi-valued: assigning a value a node already holds is a no-op, so
// re-ingesting a source is idempotent.
type Node struct {
	Key  string
	Type string

	props     map[string][]string
	propOrder []string
}

// Edge is a directed, typed edge between two node keys. Edges carry their
// own property bag for row-level evidence (scores, confidence tiers).
type Edge struct {
	SubjectKey string
	Predicate  string
	ObjectKey  string

	props     map[string][]string
	propOrder []string
}

// PropertyNames returns the node's property names in first-assignment order
func (n *Node) PropertyNames() []string {
	out := make([]string, len(n.propOrder))
	copy(out, n.propOrder)
	return out
}

// Values returns the values assigned to a property, in assignment order
func (n *Node) Values(property string) []string {
	vals := n.props[property]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// HasValue reports whether a property already holds a value
func (n *Node) HasValue(property, value string) bool {
	for _, v := range n.props[property] {
		if v == value {
			return true
		}
	}
	return false
}

func (n *Node) appendValue(property, value string) bool {
	if n.HasValue(property, value) {
		return false
	}
	if _, seen := n.props[property]; !seen {
		n.propOrder = append(n.propOrder, property)
	}
	n.props[property] = append(n.props[property], value)
	return true
}

// PropertyNames returns the edge's property names in first-assignment order
func (e *Edge) PropertyNames() []string {
	out := make([]string, len(e.propOrder))
	copy(out, e.propOrder)
	return out
}

// Values returns the values assigned to an edge property, in assignment order
func (e *Edge) Values(property string) []string {
	vals := e.props[property]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

func (e *Edge) appendValue(property, value string) bool {
	for _, v := range e.props[property] {
		if v == value {
			return false
		}
	}
	if _, seen := e.props[property]; !seen {
		e.propOrder = append(e.propOrder, property)
	}
	e.props[property] = append(e.props[property], value)
	return true
}

// NormalizeKey canonicalizes a raw identity value into a node key: leading
// and trailing whitespace is dropped and interior runs collapse to a single
// space, so cosmetic formatting differences between sources cannot split an
// entity into two nodes.
func NormalizeKey(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
