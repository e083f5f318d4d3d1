package store

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultKeyPath is the record field collections are keyed by unless a definition says otherwise.
const DefaultKeyPath = "id"

var errInvalidSchema = errors.New("store: invalid schema")

// CollectionDefinition names a collection and the JSON field holding its primary key.
type CollectionDefinition struct {
	Name    string
	KeyPath string
}

// SchemaVersion lists the collections introduced at a given version.
type SchemaVersion struct {
	Version     int
	Collections []CollectionDefinition
}

// Schema is an ordered, additive sequence of versions. A collection, once introduced, exists in
// every later version.
type Schema struct {
	versions []SchemaVersion
}

// NewSchema validates that versions ascend from 1 and collection names are unique.
func NewSchema(versions ...SchemaVersion) (Schema, error) {
	if len(versions) == 0 {
		return Schema{}, fmt.Errorf("%w: no versions", errInvalidSchema)
	}
	seen := make(map[string]int)
	normalized := make([]SchemaVersion, 0, len(versions))
	for index, version := range versions {
		if version.Version != index+1 {
			return Schema{}, fmt.Errorf("%w: version %d out of sequence", errInvalidSchema, version.Version)
		}
		collections := make([]CollectionDefinition, 0, len(version.Collections))
		for _, definition := range version.Collections {
			name := strings.TrimSpace(definition.Name)
			if name == "" {
				return Schema{}, fmt.Errorf("%w: empty collection name in version %d", errInvalidSchema, version.Version)
			}
			if previous, ok := seen[name]; ok {
				return Schema{}, fmt.Errorf("%w: collection %q already defined in version %d", errInvalidSchema, name, previous)
			}
			seen[name] = version.Version
			keyPath := strings.TrimSpace(definition.KeyPath)
			if keyPath == "" {
				keyPath = DefaultKeyPath
			}
			collections = append(collections, CollectionDefinition{Name: name, KeyPath: keyPath})
		}
		normalized = append(normalized, SchemaVersion{Version: version.Version, Collections: collections})
	}
	return Schema{versions: normalized}, nil
}

// MustSchema is NewSchema for package-level schema declarations.
func MustSchema(versions ...SchemaVersion) Schema {
	schema, err := NewSchema(versions...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Latest returns the highest declared version, or 0 for the zero Schema.
func (s Schema) Latest() int {
	return len(s.versions)
}

// CollectionsAt returns every collection that exists at the given version.
func (s Schema) CollectionsAt(version int) []CollectionDefinition {
	return s.Added(0, version)
}

// Added returns the collections introduced after from, up to and including to.
func (s Schema) Added(from, to int) []CollectionDefinition {
	var added []CollectionDefinition
	for _, version := range s.versions {
		if version.Version <= from || version.Version > to {
			continue
		}
		added = append(added, version.Collections...)
	}
	return added
}

func tableName(collection string) string {
	return "collection_" + collection
}
