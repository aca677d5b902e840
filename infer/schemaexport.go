package infer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/speakeasy-api/openapi/jsonschema/oas3"
	"github.com/speakeasy-api/openapi/openapi"
	"gopkg.in/yaml.v3"
)

// BuildOpenAPIDocument assembles an OpenAPI 3.1 document with one component
// schema per exported declaration. References inline-expand: shapes derived
// from JSON data are acyclic, so expansion terminates.
func BuildOpenAPIDocument(cache *Cache, r *Renderer) map[string]any {
	schemas := make(map[string]any)
	for _, d := range cache.Declarations() {
		if !r.Exported(d.ID) {
			continue
		}
		schemas[d.ID.AliasName()] = schemaFor(d.Type, cache)
	}
	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "Inferred document shapes",
			"version": "1.0.0",
		},
		"components": map[string]any{
			"schemas": schemas,
		},
	}
}

func schemaFor(t Type, cache *Cache) map[string]any {
	switch t.Kind {
	case TypeNull:
		return map[string]any{"type": "null"}
	case TypeBoolean:
		return map[string]any{"type": "boolean"}
	case TypeNumber:
		return map[string]any{"type": "number"}
	case TypeString:
		return map[string]any{"type": "string"}

	case TypeUnknownArray:
		// No element observations: items stays unconstrained.
		return map[string]any{"type": "array", "items": map[string]any{}}

	case TypeArrayOf:
		return map[string]any{"type": "array", "items": schemaFor(*t.Elem, cache)}

	case TypeObject:
		props := make(map[string]any, len(t.Fields))
		var required []string
		for _, f := range t.Fields {
			props[f.Name] = schemaFor(f.Type, cache)
			if !f.Optional {
				required = append(required, f.Name)
			}
		}
		sort.Strings(required)
		schema := map[string]any{
			"type":       "object",
			"properties": props,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema

	case TypeUnion:
		branches := make([]any, 0, len(t.Variants))
		for _, v := range t.Variants {
			branches = append(branches, schemaFor(v, cache))
		}
		return map[string]any{"anyOf": branches}

	case TypeReference:
		return schemaFor(cache.Get(t.Ref).Type, cache)

	default:
		return map[string]any{}
	}
}

// ExportOpenAPI builds the export document, round-trips it through the
// openapi library for validation, and returns the library's canonical YAML
// rendering. Validation findings come back as warnings, not errors.
func ExportOpenAPI(ctx context.Context, cache *Cache, r *Renderer, log *slog.Logger) ([]byte, []string, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	doc := BuildOpenAPIDocument(cache, r)
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal export document: %w", err)
	}

	parsed, validationErrs, err := openapi.Unmarshal(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse export document: %w", err)
	}

	var warnings []string
	for _, verr := range validationErrs {
		warnings = append(warnings, fmt.Sprintf("schema export: %v", verr))
	}

	log.Debug("schema export validated", "schemas", countSchemas(ctx, parsed), "warnings", len(warnings))

	var buf bytes.Buffer
	if err := openapi.Marshal(ctx, parsed, &buf); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal export document: %w", err)
	}
	return buf.Bytes(), warnings, nil
}

// countSchemas walks the parsed document and counts schema nodes.
func countSchemas(ctx context.Context, doc *openapi.OpenAPI) int {
	count := 0
	for item := range openapi.Walk(ctx, doc) {
		_ = item.Match(openapi.Matcher{
			Schema: func(*oas3.JSONSchema[oas3.Referenceable]) error {
				count++
				return nil
			},
		})
	}
	return count
}
