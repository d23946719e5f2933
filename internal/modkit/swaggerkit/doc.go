// Package swaggerkit serves the swag generated api doc, reconciled with the mounted routes, and the swagger ui over it
package swaggerkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"postcraft/internal/core/version"
)

//go:generate swag init --v3.1 -g main.go -d ../../../cmd/postcraft-api,../../services -o ../../services/api/docs --instanceName api --parseInternal

const (
	// InstanceName is the swag instance the generated doc registers under
	InstanceName = "api"
	// APIBase is where annotated @Router paths are mounted
	APIBase = "/api/v1"

	bearerScheme = "BearerAuth"
	skeleton     = `{"openapi":"3.0.3","info":{"title":"Postcraft API","version":"0.0.0"},"paths":{}}`
)

// SpecMutator adjusts the parsed doc before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register adds a mutator; call it from module init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// Doc parses the base doc and applies the built in and registered mutators
func Doc() (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
		return nil, fmt.Errorf("swaggerkit: parse doc: %w", err)
	}

	downconvert(spec)
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": APIBase}}
	}
	child(spec, "info")["version"] = version.Info("postcraft-api").Version

	documentRoutes(spec)
	addDefaultResponse(spec)

	for _, m := range mutators {
		m(spec)
	}
	return spec, nil
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	spec, err := Doc()
	if err != nil {
		http.Error(w, "spec parse error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}

// downconvert pins the doc at OAS 3.0.3, the newest version the ui renders
func downconvert(spec map[string]any) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
}

// addDefaultResponse points every operation without a default response at the error envelope
func addDefaultResponse(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["Envelope"]; !ok {
		schemas["Envelope"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status_code":         map[string]any{"type": "integer"},
				"status":              map[string]any{"type": "string"},
				"code":                map[string]any{"type": "integer"},
				"error":               map[string]any{"type": "string"},
				"field":               map[string]any{"type": "string"},
				"retry_after_seconds": map[string]any{"type": "integer"},
				"request_id":          map[string]any{"type": "string"},
				"data":                map[string]any{},
			},
			"required": []any{"status_code", "status"},
		}
	}
	envelope := map[string]any{
		"description": "error envelope",
		"content": map[string]any{
			"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Envelope"}},
		},
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			if _, ok := resps["default"]; !ok {
				resps["default"] = envelope
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
