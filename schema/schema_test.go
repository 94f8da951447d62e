package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wuroud/islamic-hub/schema"
)

var record = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"title"},
	"properties": map[string]any{
		"id":     map[string]any{"type": []any{"integer", "string"}},
		"title":  map[string]any{"type": "string", "maxLength": 5},
		"image":  map[string]any{"type": []any{"string", "null"}},
		"views":  map[string]any{"type": "integer", "minimum": 0},
		"status": map[string]any{"type": "string", "enum": []any{"published", "draft"}},
	},
}

func TestValidateNilSchema(t *testing.T) {
	assert.NoError(t, schema.Validate(nil, map[string]any{"anything": "goes"}))
	assert.NoError(t, schema.ValidatePatch(nil, map[string]any{"anything": "goes"}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		wantErr string
	}{
		{"valid", map[string]any{"id": json.Number("1001"), "title": "ok", "views": json.Number("3")}, ""},
		{"string id", map[string]any{"id": "a1b2", "title": "ok"}, ""},
		{"null image", map[string]any{"title": "ok", "image": nil}, ""},
		{"missing required", map[string]any{"views": 1}, `missing required field "title"`},
		{"wrong type", map[string]any{"title": 12}, `$.title: expected type "string"`},
		{"fractional integer", map[string]any{"title": "ok", "views": json.Number("1.5")}, `expected type "integer"`},
		{"float whole number", map[string]any{"title": "ok", "views": float64(2)}, ""},
		{"below minimum", map[string]any{"title": "ok", "views": -1}, "less than minimum"},
		{"too long", map[string]any{"title": "toolong"}, "greater than maxLength"},
		{"multibyte length", map[string]any{"title": "سلام"}, ""},
		{"enum", map[string]any{"title": "ok", "status": "deleted"}, "not in enum"},
		{"id of wrong type", map[string]any{"title": "ok", "id": true}, "expected one of types"},
		{"additional", map[string]any{"title": "ok", "rating": 5}, "additional properties not allowed: rating"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate(record, tc.doc)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	assert.NoError(t, schema.ValidatePatch(record, map[string]any{"views": 4}),
		"required fields may be omitted from a patch")
	assert.NoError(t, schema.ValidatePatch(record, map[string]any{}))
	assert.Error(t, schema.ValidatePatch(record, map[string]any{"views": "many"}))
	assert.Error(t, schema.ValidatePatch(record, map[string]any{"unknown": 1}))
}

func TestValidateOpenObject(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	}
	assert.NoError(t, schema.Validate(s, map[string]any{"name": "Bob", "extra": true}))
	assert.Error(t, schema.Validate(s, map[string]any{"name": 1}))
}
