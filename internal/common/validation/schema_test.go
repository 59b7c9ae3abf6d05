package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"limit": {"type": "integer", "minimum": 1}
	}
}`

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}

func TestSchema_Validate(t *testing.T) {
	schema, err := Compile(testSchema)
	require.NoError(t, err)

	tests := []struct {
		name      string
		document  interface{}
		wantValid bool
		wantField string
	}{
		{"valid", map[string]interface{}{"name": "kai", "limit": 3}, true, ""},
		{"missing required", map[string]interface{}{"limit": 3}, false, "(root)"},
		{"wrong type", map[string]interface{}{"name": 7}, false, "name"},
		{"below minimum", map[string]interface{}{"name": "kai", "limit": 0}, false, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.Validate(tt.document)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
				assert.NotEmpty(t, result.Error())
			} else {
				assert.Empty(t, result.Error())
			}
		})
	}
}
