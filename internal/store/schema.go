package store

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"accessfirst/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// SchemaSet maps store keys to JSON schemas. A pattern ending in '*'
// matches every key with that prefix; exact patterns win over prefixes
// and longer prefixes win over shorter ones.
type SchemaSet struct {
	exact    map[string]*gojsonschema.Schema
	prefixes []prefixSchema
}

type prefixSchema struct {
	prefix string
	schema *gojsonschema.Schema
}

// NewSchemaSet creates an empty set
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{exact: make(map[string]*gojsonschema.Schema)}
}

// Add compiles schemaJSON and binds it to pattern
func (s *SchemaSet) Add(pattern string, schemaJSON []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to compile schema for %q: %w", pattern, err)
	}

	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		s.prefixes = append(s.prefixes, prefixSchema{prefix: prefix, schema: schema})
		sort.Slice(s.prefixes, func(i, j int) bool {
			return len(s.prefixes[i].prefix) > len(s.prefixes[j].prefix)
		})
		return nil
	}

	s.exact[pattern] = schema
	return nil
}

// For returns the schema bound to key, or nil
func (s *SchemaSet) For(key string) *gojsonschema.Schema {
	if s == nil {
		return nil
	}
	if schema, ok := s.exact[key]; ok {
		return schema
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(key, p.prefix) {
			return p.schema
		}
	}
	return nil
}

// DefaultSchemas returns the schemas of every record the managers own
func DefaultSchemas() (*SchemaSet, error) {
	bindings := []struct {
		pattern string
		file    string
	}{
		{domain.KeyPreferences, "schemas/preferences.json"},
		{domain.KeyCurrentProfile, "schemas/current_profile.json"},
		{domain.KeyProfilePrefix + "*", "schemas/profile.json"},
		{domain.KeyHistory, "schemas/history.json"},
		{domain.KeyLanguage, "schemas/language.json"},
	}

	set := NewSchemaSet()
	for _, b := range bindings {
		data, err := schemaFiles.ReadFile(b.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", b.file, err)
		}
		if err := set.Add(b.pattern, data); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// validate checks raw against schema; a nil schema accepts anything
func validate(schema *gojsonschema.Schema, raw string) error {
	if schema == nil {
		return nil
	}

	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return err
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return fmt.Errorf("schema mismatch: %s", strings.Join(details, "; "))
	}
	return nil
}
