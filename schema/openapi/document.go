package openapi

import (
	"fmt"
	"sort"
	"strings"
)

type documentBuilder struct {
	config    generatorConfig
	component map[string]any
}

func newDocumentBuilder(config generatorConfig, component map[string]any) *documentBuilder {
	return &documentBuilder{config: config, component: component}
}

func (b *documentBuilder) build() (map[string]any, error) {
	if b.component == nil {
		return nil, fmt.Errorf("openapi: settings component cannot be nil")
	}
	name := b.config.component
	if name == "" {
		name = DefaultComponent
	}

	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths("#/components/schemas/" + name),
		"components": map[string]any{
			"schemas": map[string]any{name: b.component},
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.info.Title,
		"version": b.config.info.Version,
	}
	if b.config.info.Description != "" {
		info["description"] = b.config.info.Description
	}
	return info
}

func (b *documentBuilder) buildPaths(ref string) map[string]any {
	method := strings.ToLower(b.config.operation.Method)
	if method == "" {
		method = "put"
	}

	statuses := make([]string, 0, len(b.config.responses))
	for status := range b.config.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		responses[status] = map[string]any{
			"description": b.config.responses[status].Description,
		}
	}

	operation := map[string]any{
		"operationId": b.operationID(method),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				b.config.contentType: map[string]any{
					"schema": map[string]any{"$ref": ref},
				},
			},
		},
		"responses": responses,
	}
	if summary := strings.TrimSpace(b.config.operation.Summary); summary != "" {
		operation["summary"] = summary
	}

	return map[string]any{
		b.config.operation.Path: map[string]any{
			method: operation,
		},
	}
}

func (b *documentBuilder) operationID(method string) string {
	if b.config.operation.OperationID != "" {
		return b.config.operation.OperationID
	}
	return fmt.Sprintf("%s:%s", method, b.config.operation.Path)
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	if version, _ := document["openapi"].(string); version == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
