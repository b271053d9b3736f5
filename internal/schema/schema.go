package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	kberrors "alzkb-graph/pkg/errors"
)

// RefKind classifies what a schema name refers to
type RefKind string

const (
	KindNodeClass      RefKind = "node class"
	KindDataProperty   RefKind = "data property"
	KindObjectProperty RefKind = "object property"
)

// Ref is a resolved, canonical reference into the schema resource.
// Population code only ever works with Refs, never raw config strings.
type Ref struct {
	Name string
	Kind RefKind
}

// Resource is the vocabulary of the target graph: which node classes,
// data properties and object properties exist. It carries no semantics;
// it only answers existence questions through a Resolver.
type Resource struct {
	NodeClasses      []string `yaml:"node_classes"`
	DataProperties   []string `yaml:"data_properties"`
	ObjectProperties []string `yaml:"object_properties"`
}

// LoadResource reads a schema resource from a YAML file
func LoadResource(path string) (*Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema resource: %w", err)
	}
	var res Resource
	if err := yaml.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to parse schema resource: %w", err)
	}
	return &res, nil
}

// Resolver maps configuration name strings to canonical schema references
type Resolver struct {
	refs map[string]Ref
}

// NewResolver indexes a schema resource for lookup. A name declared under
// more than one section keeps its first declaration.
func NewResolver(res *Resource) *Resolver {
	refs := make(map[string]Ref)
	add := func(names []string, kind RefKind) {
		for _, name := range names {
			if _, exists := refs[name]; exists {
				continue
			}
			refs[name] = Ref{Name: name, Kind: kind}
		}
	}
	add(res.NodeClasses, KindNodeClass)
	add(res.DataProperties, KindDataProperty)
	add(res.ObjectProperties, KindObjectProperty)
	return &Resolver{refs: refs}
}

// Resolve looks up a name of any kind
func (r *Resolver) Resolve(name string) (Ref, error) {
	ref, ok := r.refs[name]
	if !ok {
		return Ref{}, kberrors.NewUnknownSchemaReference(name, "any")
	}
	return ref, nil
}

// ResolveClass resolves a name and confirms it is a node class
func (r *Resolver) ResolveClass(name string) (Ref, error) {
	return r.resolveKind(name, KindNodeClass)
}

// ResolveProperty resolves a name and confirms it is a data property
func (r *Resolver) ResolveProperty(name string) (Ref, error) {
	return r.resolveKind(name, KindDataProperty)
}

// ResolveRelationship resolves a name and confirms it is an object property
func (r *Resolver) ResolveRelationship(name string) (Ref, error) {
	return r.resolveKind(name, KindObjectProperty)
}

func (r *Resolver) resolveKind(name string, kind RefKind) (Ref, error) {
	ref, ok := r.refs[name]
	if !ok || ref.Kind != kind {
		return Ref{}, kberrors.NewUnknownSchemaReference(name, string(kind))
	}
	return ref, nil
}
