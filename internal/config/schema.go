package config

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const schemaPath = "schemas/export-bins.v1.schema.json"

//go:embed schemas/export-bins.v1.schema.json
var schemaFS embed.FS

// SchemaError describes one schema violation.
type SchemaError struct {
	Field       string
	Type        string
	Description string
}

// ValidateSchema checks raw YAML config data against the embedded JSON
// Schema. It returns the violations found; a non-nil error means the data
// or the schema could not be processed at all.
func ValidateSchema(data []byte) ([]SchemaError, error) {
	schemaBytes, err := schemaFS.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON schema: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if doc == nil {
		// An empty file means "all defaults".
		doc = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]SchemaError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, SchemaError{
			Field:       desc.Field(),
			Type:        desc.Type(),
			Description: desc.Description(),
		})
	}
	return errs, nil
}
