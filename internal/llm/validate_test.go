package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema(name string) *Schema {
	return &Schema{
		Name:        name,
		Description: "a point",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"x", "y"},
			"properties": map[string]any{
				"x": map[string]any{"type": "number"},
				"y": map[string]any{"type": "number"},
			},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"conforming", testSchema("point-ok"), `{"x": 1, "y": 2}`, false},
		{"missing required field", testSchema("point-missing"), `{"x": 1}`, true},
		{"wrong type", testSchema("point-type"), `{"x": "one", "y": 2}`, true},
		{"extra field", testSchema("point-extra"), `{"x": 1, "y": 2, "z": 3}`, true},
		{"not json", testSchema("point-garbage"), `not json`, true},
		{"nil schema accepts anything", nil, `whatever`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Errorf("error type = %T, want ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateResponse_CachesCompiledSchema(t *testing.T) {
	schema := testSchema("point-cached")

	if err := validateResponse(schema, json.RawMessage(`{"x": 1, "y": 2}`)); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if _, ok := schemaCache.Load(schema.Name); !ok {
		t.Fatal("compiled schema not cached")
	}
	if err := validateResponse(schema, json.RawMessage(`{"x": 3, "y": 4}`)); err != nil {
		t.Errorf("second validation: %v", err)
	}
}
