package openapi

import (
	"fmt"

	metalava "github.com/goliatone/go-metalava"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a SchemaGenerator that renders the setting
// catalogue as an OpenAPI 3 document.
func NewGenerator(opts ...GeneratorOption) metalava.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option wires the OpenAPI generator into a scope.
func Option(opts ...GeneratorOption) metalava.ScopeOption {
	return metalava.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(fields []metalava.FieldDescriptor) (metalava.SchemaDocument, error) {
	component, err := settingsComponent(fields)
	if err != nil {
		return metalava.SchemaDocument{}, err
	}
	document, err := newDocumentBuilder(g.config, component).build()
	if err != nil {
		return metalava.SchemaDocument{}, err
	}
	return metalava.SchemaDocument{
		Format:   metalava.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}

func settingsComponent(fields []metalava.FieldDescriptor) (map[string]any, error) {
	properties := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Key == "" {
			return nil, fmt.Errorf("openapi: field descriptor missing key")
		}
		property, err := propertyFor(field)
		if err != nil {
			return nil, err
		}
		properties[string(field.Key)] = property
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}, nil
}

func propertyFor(field metalava.FieldDescriptor) (map[string]any, error) {
	var property map[string]any
	switch field.Kind {
	case metalava.KindBool:
		property = map[string]any{"type": "boolean"}
	case metalava.KindStringSet:
		property = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"uniqueItems": true,
		}
	case metalava.KindString, metalava.KindPath, metalava.KindVersion,
		metalava.KindTemplate, metalava.KindJavaVersion,
		metalava.KindFormat, metalava.KindSignature, metalava.KindDocumentation:
		property = map[string]any{"type": "string"}
	default:
		return nil, fmt.Errorf("openapi: setting %q has unsupported kind %q", field.Key, field.Kind)
	}

	property["x-metalava-kind"] = string(field.Kind)
	if field.Doc != "" {
		property["description"] = field.Doc
	}
	if len(field.Choices) > 0 {
		choices := make([]any, len(field.Choices))
		for i, choice := range field.Choices {
			choices[i] = choice
		}
		property["enum"] = choices
	}
	if field.HasDefault {
		property["default"] = field.Default
	} else {
		property["nullable"] = true
	}
	return property, nil
}
