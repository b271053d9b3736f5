// Package registry holds the declarative population configuration: one
// entry per (source, dataset) describing either a node type or a
// relationship type to build from that table. Entries are pure data;
// the population engine interprets them.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alzkb-graph/internal/schema"
	kberrors "alzkb-graph/pkg/errors"
)

// Provider kinds accepted by Entry.Provider
const (
	ProviderFlat  = "flat"
	ProviderMySQL = "mysql"
)

// CompoundField describes how one column value expands into several derived
// properties: the value splits on Delimiter, each part splits once on
// KeyValueSeparator, and the property name is PropertyPrefix + sub-key
// (further remapped through the node type's Properties when a mapping for
// the derived name exists).
type CompoundField struct {
	Delimiter         string `yaml:"delimiter"`
	KeyValueSeparator string `yaml:"key_value_separator"`
	PropertyPrefix    string `yaml:"property_prefix"`
}

// MergeRule unifies rows from different sources into one node when they
// share a secondary identifier: before creating a node the engine looks up
// an existing node whose Property holds the row's Column value.
type MergeRule struct {
	Column   string `yaml:"column"`
	Property string `yaml:"property"`
}

// FilterRule keeps only rows whose Column equals Value
type FilterRule struct {
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// Endpoint locates one end of a relationship: the row's Column value is
// matched against MatchProperty on nodes of NodeType.
type Endpoint struct {
	NodeType      string `yaml:"node_type"`
	Column        string `yaml:"column"`
	MatchProperty string `yaml:"match_property"`
}

// NodeType declares how a table populates nodes of one type
type NodeType struct {
	Type           string                   `yaml:"type"`
	IdentityColumn string                   `yaml:"identity_column"`
	Properties     map[string]string        `yaml:"properties"`
	CompoundFields map[string]CompoundField `yaml:"compound_fields"`
	Merge          *MergeRule               `yaml:"merge"`
	Filter         *FilterRule              `yaml:"filter"`
}

// RelationshipType declares how a table populates edges of one predicate.
// A non-empty Inverse emits a second edge in the opposite direction for
// every row; nothing is ever treated as implicitly bidirectional.
type RelationshipType struct {
	Relationship string            `yaml:"relationship"`
	Inverse      string            `yaml:"inverse"`
	Subject      Endpoint          `yaml:"subject"`
	Object       Endpoint          `yaml:"object"`
	Filter       *FilterRule       `yaml:"filter"`
	Properties   map[string]string `yaml:"properties"`
}

// Entry is one (source, dataset) population config. Exactly one of Node or
// Rel is set.
type Entry struct {
	Source   string            `yaml:"source"`
	Dataset  string            `yaml:"dataset"`
	Provider string            `yaml:"provider"`
	Filename string            `yaml:"filename"`
	Table    string            `yaml:"table"`
	Format   string            `yaml:"format"`
	Node     *NodeType         `yaml:"node"`
	Rel      *RelationshipType `yaml:"rel"`
}

// Key returns the registry key, "{source}.{dataset}"
func (e *Entry) Key() string {
	return e.Source + "." + e.Dataset
}

// Validate checks the entry's structure and resolves every schema name it
// references. A failure here aborts only this entry's population.
func (e *Entry) Validate(resolver *schema.Resolver) error {
	if e.Source == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "source")
	}
	if e.Dataset == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "dataset")
	}
	switch e.Provider {
	case ProviderFlat:
		if e.Filename == "" {
			return kberrors.NewConfigMissingRequiredField(e.Key(), "filename")
		}
	case ProviderMySQL:
		if e.Table == "" {
			return kberrors.NewConfigMissingRequiredField(e.Key(), "table")
		}
	default:
		return kberrors.NewConfigMissingRequiredField(e.Key(), "provider")
	}

	switch {
	case e.Node != nil && e.Rel == nil:
		return e.validateNode(resolver)
	case e.Rel != nil && e.Node == nil:
		return e.validateRel(resolver)
	default:
		return kberrors.NewConfigMissingRequiredField(e.Key(), "node or rel")
	}
}

func (e *Entry) validateNode(resolver *schema.Resolver) error {
	def := e.Node
	if def.Type == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "node.type")
	}
	if def.IdentityColumn == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "node.identity_column")
	}
	if _, err := resolver.ResolveClass(def.Type); err != nil {
		return err
	}
	for column, property := range def.Properties {
		if _, err := resolver.ResolveProperty(property); err != nil {
			return fmt.Errorf("%s: column %q: %w", e.Key(), column, err)
		}
	}
	for column, cf := range def.CompoundFields {
		if cf.Delimiter == "" || cf.KeyValueSeparator == "" {
			return kberrors.NewConfigMissingRequiredField(e.Key(), fmt.Sprintf("compound_fields.%s", column))
		}
	}
	if def.Merge != nil {
		if def.Merge.Column == "" {
			return kberrors.NewConfigMissingRequiredField(e.Key(), "node.merge.column")
		}
		if _, err := resolver.ResolveProperty(def.Merge.Property); err != nil {
			return err
		}
	}
	if def.Filter != nil && def.Filter.Column == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "node.filter.column")
	}
	return nil
}

func (e *Entry) validateRel(resolver *schema.Resolver) error {
	def := e.Rel
	if def.Relationship == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "rel.relationship")
	}
	if _, err := resolver.ResolveRelationship(def.Relationship); err != nil {
		return err
	}
	if def.Inverse != "" {
		if _, err := resolver.ResolveRelationship(def.Inverse); err != nil {
			return err
		}
	}
	for _, ep := range []struct {
		name string
		ep   Endpoint
	}{{"subject", def.Subject}, {"object", def.Object}} {
		if ep.ep.Column == "" {
			return kberrors.NewConfigMissingRequiredField(e.Key(), "rel."+ep.name+".column")
		}
		if _, err := resolver.ResolveClass(ep.ep.NodeType); err != nil {
			return err
		}
		if _, err := resolver.ResolveProperty(ep.ep.MatchProperty); err != nil {
			return err
		}
	}
	for column, property := range def.Properties {
		if _, err := resolver.ResolveProperty(property); err != nil {
			return fmt.Errorf("%s: column %q: %w", e.Key(), column, err)
		}
	}
	if def.Filter != nil && def.Filter.Column == "" {
		return kberrors.NewConfigMissingRequiredField(e.Key(), "rel.filter.column")
	}
	return nil
}

// Registry is the ordered set of population entries
type Registry struct {
	Entries []*Entry `yaml:"entries"`

	byKey map[string]*Entry
}

// New builds a registry from literal entries
func New(entries ...*Entry) (*Registry, error) {
	reg := &Registry{Entries: entries}
	if err := reg.index(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Load reads a registry from a YAML file
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if err := reg.index(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *Registry) index() error {
	r.byKey = make(map[string]*Entry, len(r.Entries))
	for _, entry := range r.Entries {
		key := entry.Key()
		if _, dup := r.byKey[key]; dup {
			return fmt.Errorf("duplicate registry key %q", key)
		}
		r.byKey[key] = entry
	}
	return nil
}

// Get returns the entry for a "{source}.{dataset}" key
func (r *Registry) Get(key string) (*Entry, bool) {
	entry, ok := r.byKey[key]
	return entry, ok
}

// NodeEntries returns all node-type entries in declaration order
func (r *Registry) NodeEntries() []*Entry {
	var out []*Entry
	for _, entry := range r.Entries {
		if entry.Node != nil {
			out = append(out, entry)
		}
	}
	return out
}

// RelationshipEntries returns all relationship-type entries in declaration order
func (r *Registry) RelationshipEntries() []*Entry {
	var out []*Entry
	for _, entry := range r.Entries {
		if entry.Rel != nil {
			out = append(out, entry)
		}
	}
	return out
}
